package workflow

import "sync"

// templates is the production workflow table. Several names intentionally share
// a template id (workflow_algar and workflow_algar_600MB).
var templates = map[string]string{
	"workflow1":  "1196", // first invoice (1.1)
	"workflow2":  "1200", // first invoice (1.2)
	"workflow3":  "1204", // second invoice (1.1)
	"workflow4":  "1206", // second invoice (1.2)
	"workflow5":  "1208", // third invoice (1.1)
	"workflow6":  "1210", // third invoice (1.2)
	"workflow7":  "1212", // fourth invoice (1.1)
	"workflow8":  "1214", // fourth invoice (1.2)
	"workflow9":  "1216", // fifth invoice (1.1)
	"workflow10": "1218", // fifth invoice (1.2)
	"workflow11": "1314", // website
	"workflow12": "1294", // active customers queue
	"workflow13": "1390", // field without timezone
	"workflow14": "1426", // report date
	"workflow15": "1428", // report date/time
	"workflow16": "1474",

	"workflowredeneutra": "1502",
	"workflowouro":       "1496",
	"workflowpadrao":     "1498",
	"workflowprata":      "1500",

	"workflowt1_t3_t4":                  "1514",
	"workflowt5_t6_t7":                  "1518",
	"workflowt8_t9":                     "1520",
	"workflowt10_t12":                   "1522",
	"workflowt2_t11_t13_t14":            "1516",
	"workflowt_ALTOS_PARNAIBA_TERESINA": "1524",
	"workflowt_CIDADES_ESPECIAIS_1":     "1526",
	"workflowt_CIDADES_ESPECIAIS_2":     "1528",
	"workflowt_CIDADES_ESPECIAIS_3":     "1530",

	"workflow_desktop_ferro":     "1542",
	"workflow_desktop_bronze":    "1540",
	"workflow_desktop_prata":     "1544",
	"workflow_desktop_ouro":      "1546",
	"workflow_desktop_platina":   "1548",
	"workflow_desktop_diamante":  "1550",
	"workflow_desktop_ascedente": "1552",
	"workflow_desktop_imortal":   "1554",

	"workflow_blink":               "1558",
	"workflow_tim":                 "1560",
	"workflow_algar":               "1564",
	"workflow_algar_600MB":         "1564",
	"workflow_algar_800MB":         "1660",
	"workflow_algar_specialcities": "1666",

	"workflow_contactid":          "1626",
	"workflow_phase":              "1628",
	"workflow_vencimento":         "1630",
	"workflow_saudademelhorfibra": "1652",
	"worklow_preenchercidade":     "1658",
	"workflow_posvendanome":       "1664",
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the compiled-in table.
// It panics if the table is invalid.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(templates)
		if err != nil {
			panic("workflow: invalid built-in table: " + err.Error())
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
