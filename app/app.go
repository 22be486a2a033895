// Package app models the client applications that sessions mint scoped
// tokens for. An App is identified by its URL.
package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/metadata"
	"github.com/kbukum/identity/validation"
)

// App is a registered client application.
type App struct {
	ID       int64             `json:"id"`
	URL      string            `json:"url"`
	Metadata metadata.Metadata `json:"metadata"`
}

// New returns a transient App. url must be absolute.
func New(url string, now time.Time) (*App, error) {
	if !validation.IsURL(url) {
		return nil, apperrors.PreconditionFailed(fmt.Sprintf("App url %q is not an absolute URL.", url))
	}
	return &App{URL: url, Metadata: metadata.New(now)}, nil
}

func (a *App) key() string { return strconv.FormatInt(a.ID, 10) }

// Repository persists apps.
type Repository interface {
	Find(ctx context.Context, id int64) (*App, error)
	FindByURL(ctx context.Context, url string) (*App, error)
	// Create stores a with its metadata and assigns both ids.
	Create(ctx context.Context, a *App) error
	Delete(ctx context.Context, a *App) error
}
