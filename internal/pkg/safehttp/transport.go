package safehttp

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// dialTimeout bounds connection setup only; request timeouts belong to the client.
const dialTimeout = 5 * time.Second

// NewTransport returns a transport for upstream calls. When blockPrivate is
// set, connections resolving to loopback, private or link-local addresses
// are refused after dialing, so a misconfigured base URL cannot reach
// internal services.
func NewTransport(blockPrivate bool) *http.Transport {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if !blockPrivate {
		return base
	}

	base.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		dialer := &net.Dialer{Timeout: dialTimeout}
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		if err := CheckRemote(conn.RemoteAddr()); err != nil {
			conn.Close()
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		}

		return conn, nil
	}
	return base
}

// CheckRemote reports whether addr is a public address.
func CheckRemote(addr net.Addr) error {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		host = addr.String()
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("failed to parse remote IP %q", host)
	}

	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return fmt.Errorf("access to private IP %s is denied", ip)
	}
	return nil
}
