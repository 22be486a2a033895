// Package version exposes the build identity of the identity service.
//
// Values are stamped at link time and fall back to the VCS settings the Go
// toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/identity/version.Version=1.4.0" ./cmd/identity
package version
