// Package session keeps the live sessions of authenticated principals.
//
// A Session is created for a user with a fixed lifetime, holds at most one
// Directory per application, and mints app-scoped tokens. The Registry owns
// every live Session, indexed by session id and by principal identity, and
// guarantees at most one live session per principal.
//
// Expired sessions are evicted lazily on lookup; the Janitor component
// sweeps the rest on an interval.
package session
