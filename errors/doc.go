// Package errors provides the classified error type shared by the identity
// service. Every failure that crosses a package boundary is an *AppError
// carrying one of the taxonomy codes; transports map the code to a status.
package errors
