package workflow

import (
	"sort"
	"testing"
)

func TestDefault_ResolvesKnownWorkflows(t *testing.T) {
	r := Default()

	tests := []struct {
		name string
		want string
	}{
		{"workflow1", "1196"},
		{"workflow16", "1474"},
		{"workflowt_CIDADES_ESPECIAIS_3", "1530"},
		{"workflow_algar", "1564"},
		{"workflow_algar_600MB", "1564"},
		{"worklow_preenchercidade", "1658"},
		{"workflow_posvendanome", "1664"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.name)
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestDefault_UnknownWorkflow(t *testing.T) {
	r := Default()
	for _, name := range []string{"", "unknownX", "WORKFLOW1", "workflow 1"} {
		if id, ok := r.Lookup(name); ok {
			t.Errorf("Lookup(%q) = %q, expected miss", name, id)
		}
	}
}

func TestDefault_IsSingleton(t *testing.T) {
	if Default() != Default() {
		t.Error("expected Default to return the same registry")
	}
	if Default().Len() != len(templates) {
		t.Errorf("Len() = %d, want %d", Default().Len(), len(templates))
	}
}

func TestNewRegistry_Validation(t *testing.T) {
	tests := []struct {
		name    string
		table   map[string]string
		wantErr bool
	}{
		{"valid", map[string]string{"a": "1", "b": "0042"}, false},
		{"empty table", map[string]string{}, false},
		{"empty id", map[string]string{"a": ""}, true},
		{"non numeric id", map[string]string{"a": "12a"}, true},
		{"signed id", map[string]string{"a": "-12"}, true},
		{"blank name", map[string]string{"  ": "12"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.table)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRegistry() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRegistry_CopiesTable(t *testing.T) {
	table := map[string]string{"a": "1"}
	r, err := NewRegistry(table)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	table["a"] = "2"
	table["b"] = "3"

	if got, _ := r.Lookup("a"); got != "1" {
		t.Errorf("registry changed after source mutation: got %q", got)
	}
	if _, ok := r.Lookup("b"); ok {
		t.Error("registry picked up a key added after construction")
	}
}

func TestNames_Sorted(t *testing.T) {
	r, err := NewRegistry(map[string]string{"zeta": "3", "alpha": "1", "mid": "2"})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	names := r.Names()
	if !sort.StringsAreSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}
	if len(names) != 3 || names[0] != "alpha" {
		t.Errorf("Names() = %v", names)
	}
}
