// Package security builds TLS configurations from certificate paths for the
// service's transports: the gRPC listener and client, and the Kafka
// producer.
//
//	cfg := security.TLSConfig{
//	    CAFile:   "/etc/identity/ca.pem",
//	    CertFile: "/etc/identity/cert.pem",
//	    KeyFile:  "/etc/identity/key.pem",
//	}
//
//	client, err := cfg.ClientConfig()
//	server, err := cfg.ServerConfig()
package security
