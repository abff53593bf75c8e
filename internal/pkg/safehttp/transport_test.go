package safehttp

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
)

func TestRestricted(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.10", true},
		{"169.254.169.254", true},
		{"fe80::1", true},
		{"0.0.0.0", true},
		{"::ffff:10.0.0.1", true},
		{"8.8.8.8", false},
		{"2606:4700::1111", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := Restricted(netip.MustParseAddr(tt.addr)); got != tt.want {
				t.Errorf("Restricted(%s) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestNewTransport_RejectsLoopback(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach a loopback server")
	}))
	defer upstream.Close()

	client := &http.Client{Transport: NewTransport()}
	resp, err := client.Post(upstream.URL+"/rest/1/token/crm.deal.update", "application/json", nil)
	if err == nil {
		resp.Body.Close()
		t.Fatal("expected dial to be rejected")
	}
	if !errors.Is(err, ErrDeniedAddress) {
		t.Errorf("error = %v, want ErrDeniedAddress", err)
	}
}

func TestDenyPrivate_BadAddress(t *testing.T) {
	if err := denyPrivate("tcp", "no-port", nil); err == nil {
		t.Error("expected error for address without port")
	}
}
