// Package resilience retries transient failures with capped exponential
// backoff. The Kafka producer and the database connector use it.
package resilience
