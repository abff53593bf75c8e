package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/tjfontaine/crm-webhook-relay/internal/crm"
	"github.com/tjfontaine/crm-webhook-relay/internal/executor"
)

var testEndpoints = crm.Endpoints{
	BaseURL: "https://example.bitrix24.com.br/rest",
	Profile: "1",
	Token:   "test-token",
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type executeCall struct {
	url     string
	payload any
}

// fakeExecutor records calls and returns a configured response or error.
type fakeExecutor struct {
	mu    sync.Mutex
	calls []executeCall
	resp  *executor.Response
	err   error
}

func (f *fakeExecutor) Execute(ctx context.Context, url string, payload any) (*executor.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, executeCall{url: url, payload: payload})
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func okResponse(status int, body string) *executor.Response {
	return &executor.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(body),
		Attempts:   1,
	}
}

func exhausted() error {
	return &executor.ExhaustedError{Endpoint: "x", Attempts: 3, LastErr: errors.New("boom")}
}

// upstreamSequence serves statuses in order, repeating the last one.
func upstreamSequence(t *testing.T, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(hits.Add(1))
		status := statuses[len(statuses)-1]
		if n <= len(statuses) {
			status = statuses[n-1]
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, `{"result":true}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}
