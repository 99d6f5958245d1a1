package safehttp

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckRemote(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{"127.0.0.1:443", true},
		{"10.1.2.3:443", true},
		{"192.168.0.10:80", true},
		{"169.254.1.1:80", true},
		{"[::1]:443", true},
		{"104.18.2.3:443", false},
		{"[2606:4700::6810:1]:443", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			addr, err := net.ResolveTCPAddr("tcp", tt.addr)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			err = CheckRemote(addr)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckRemote(%s) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}

func TestNewTransport_BlocksLoopback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	blocked := &http.Client{Transport: NewTransport(true)}
	if _, err := blocked.Get(srv.URL); err == nil {
		t.Error("expected loopback connection to be refused")
	}

	allowed := &http.Client{Transport: NewTransport(false)}
	resp, err := allowed.Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
