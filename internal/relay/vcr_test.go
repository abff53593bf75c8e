package relay

import (
	"context"
	"strings"
	"testing"

	"github.com/tjfontaine/crm-webhook-relay/internal/executor"
	"github.com/tjfontaine/crm-webhook-relay/internal/testutil"
	"github.com/tjfontaine/crm-webhook-relay/internal/workflow"
)

func TestRecordedCRM_StartWorkflowAndUpdateDate(t *testing.T) {
	recorder, cleanup := testutil.NewVCRRecorder(t, "bitrix_start_workflow")
	defer cleanup()

	exec := executor.New(
		executor.WithHTTPClient(testutil.VCRHTTPClient(recorder)),
		executor.WithDelay(0),
		executor.WithLogger(discardLogger()),
	)

	d := NewDispatcher(workflow.Default(), exec, testEndpoints, discardLogger(), nil)
	res, err := d.Dispatch(context.Background(), "workflow1", "42")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.StatusCode != 200 {
		t.Errorf("status = %d, want 200", res.StatusCode)
	}
	if !strings.HasPrefix(string(res.Body), `{"result":"68e7a1b2c4d5f6.12345678"`) {
		t.Errorf("body not forwarded verbatim: %s", res.Body)
	}
	if !strings.HasPrefix(res.ContentType, "application/json") {
		t.Errorf("content type = %q", res.ContentType)
	}

	updater := NewDateUpdater(NewFieldUpdater(exec, testEndpoints, discardLogger(), nil), "", discardLogger())
	if err := updater.HandleDateUpdate(context.Background(), "42", "2025-01-15T12:00:00+03:00"); err != nil {
		t.Fatalf("HandleDateUpdate() error = %v", err)
	}
}
