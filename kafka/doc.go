// Package kafka provides a kafka-go producer configured from service
// config, with optional TLS and SASL, bounded retries and a lifecycle
// component.
package kafka
