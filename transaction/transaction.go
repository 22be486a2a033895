// Package transaction implements the login, logout and signup flows.
//
// Each flow is a Transaction: Precondition checks everything that can be
// checked without side effects, Postcondition performs the work and builds
// the result, Commit finalises it. Rollback runs when Postcondition or
// Commit fails and undoes what it can.
package transaction

import "context"

// Transaction is a single request flow producing an R.
type Transaction[R any] interface {
	Precondition(ctx context.Context) error
	Postcondition(ctx context.Context) (R, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context)
}

// Execute runs tx through its phases. A failed precondition returns
// immediately; later failures roll back.
func Execute[R any](ctx context.Context, tx Transaction[R]) (R, error) {
	var zero R
	if err := tx.Precondition(ctx); err != nil {
		return zero, err
	}
	res, err := tx.Postcondition(ctx)
	if err != nil {
		tx.Rollback(ctx)
		return zero, err
	}
	if err := tx.Commit(ctx); err != nil {
		tx.Rollback(ctx)
		return zero, err
	}
	return res, nil
}
