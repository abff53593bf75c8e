// Package safehttp provides an outbound transport that refuses to connect to
// loopback, private or link-local addresses.
package safehttp

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"
)

// ErrDeniedAddress is returned when a dial targets a restricted address.
var ErrDeniedAddress = errors.New("access to private address denied")

const dialTimeout = 5 * time.Second

// NewTransport clones http.DefaultTransport with a dialer that checks every
// resolved address before connecting, so DNS answers pointing inside the
// network are rejected too.
func NewTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 30 * time.Second,
		Control:   denyPrivate,
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = nil
	t.DialContext = dialer.DialContext
	return t
}

func denyPrivate(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("parse dial address %q: %w", address, err)
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("parse remote IP %q: %w", host, err)
	}
	if Restricted(ip) {
		return fmt.Errorf("%w: %s", ErrDeniedAddress, ip)
	}
	return nil
}

// Restricted reports whether ip must not be dialed.
func Restricted(ip netip.Addr) bool {
	ip = ip.Unmap()
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
