package security

import (
	"crypto/tls"
	"io"
	"testing"

	"github.com/kbukum/identity/security/tlstest"
)

func TestTLSConfig_Build_Unconfigured(t *testing.T) {
	var nilCfg *TLSConfig
	for _, cfg := range []*TLSConfig{nilCfg, {}} {
		result, err := cfg.Build()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != nil {
			t.Fatal("expected nil for unconfigured TLS")
		}
	}
}

func TestTLSConfig_Build_Options(t *testing.T) {
	cfg := &TLSConfig{SkipVerify: true, ServerName: "identity.internal", MinVersion: tls.VersionTLS13}
	result, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify=true")
	}
	if result.ServerName != "identity.internal" {
		t.Errorf("ServerName = %q", result.ServerName)
	}
	if result.MinVersion != tls.VersionTLS13 {
		t.Errorf("MinVersion = %d, want TLS13", result.MinVersion)
	}
}

func TestTLSConfig_ClientConfig_Defaults(t *testing.T) {
	var cfg *TLSConfig
	result, err := cfg.ClientConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.MinVersion != tls.VersionTLS12 || result.RootCAs != nil {
		t.Fatalf("unexpected default client config: %+v", result)
	}
}

func TestTLSConfig_Errors(t *testing.T) {
	invalidCA := tlstest.WriteInvalidPEM(t, "bad-ca.pem")
	tests := []struct {
		name  string
		build func() error
	}{
		{"missing CA file", func() error {
			_, err := (&TLSConfig{CAFile: "/nonexistent/ca.pem"}).Build()
			return err
		}},
		{"invalid CA content", func() error {
			_, err := (&TLSConfig{CAFile: invalidCA}).Build()
			return err
		}},
		{"missing client cert", func() error {
			_, err := (&TLSConfig{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}).Build()
			return err
		}},
		{"cert without key", func() error {
			_, err := (&TLSConfig{CertFile: "cert.pem"}).ClientConfig()
			return err
		}},
		{"server without key pair", func() error {
			_, err := (&TLSConfig{CAFile: invalidCA}).ServerConfig()
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.build(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	var nilCfg *TLSConfig
	if err := nilCfg.Validate(); err != nil {
		t.Fatalf("nil config: %v", err)
	}
	if err := (&TLSConfig{CertFile: "cert.pem", KeyFile: "key.pem"}).Validate(); err != nil {
		t.Fatalf("matched pair: %v", err)
	}
	if err := (&TLSConfig{KeyFile: "key.pem"}).Validate(); err == nil {
		t.Fatal("expected error when KeyFile set without CertFile")
	}
}

func TestTLSConfig_IsEnabled(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TLSConfig
		enabled bool
	}{
		{"nil", nil, false},
		{"zero", &TLSConfig{}, false},
		{"skip_verify", &TLSConfig{SkipVerify: true}, true},
		{"ca_file", &TLSConfig{CAFile: "ca.pem"}, true},
		{"cert_file", &TLSConfig{CertFile: "cert.pem"}, true},
		{"server_name", &TLSConfig{ServerName: "identity.internal"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsEnabled(); got != tt.enabled {
				t.Errorf("IsEnabled() = %v, want %v", got, tt.enabled)
			}
		})
	}
}

func TestTLSConfig_MutualHandshake(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	pair := &TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile}

	serverCfg, err := pair.ServerConfig()
	if err != nil {
		t.Fatalf("ServerConfig: %v", err)
	}
	if serverCfg.ClientAuth != tls.RequireAndVerifyClientCert || serverCfg.ClientCAs == nil {
		t.Fatal("expected client certificates to be required")
	}

	ln, err := tls.Listen("tcp", "127.0.0.1:0", serverCfg)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = conn.Write([]byte("ok"))
	}()

	clientCfg, err := (&TLSConfig{
		CAFile:     certs.CAFile,
		CertFile:   certs.CertFile,
		KeyFile:    certs.KeyFile,
		ServerName: "localhost",
	}).ClientConfig()
	if err != nil {
		t.Fatalf("ClientConfig: %v", err)
	}
	conn, err := tls.Dial("tcp", ln.Addr().String(), clientCfg)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	buf := make([]byte, 2)
	if _, err := io.ReadFull(conn, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf) != "ok" {
		t.Errorf("got %q", buf)
	}
}
