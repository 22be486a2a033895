// Package component defines the lifecycle contract for the long-running
// parts of the identity service (stores, servers, the session janitor) and
// a registry that starts them in order and stops them in reverse.
package component
