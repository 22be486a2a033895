package database

import (
	"context"
	"fmt"

	"github.com/kbukum/identity/component"
)

// Component ties an open DB to the component lifecycle: Start migrates the
// registered models, Stop closes the pool.
type Component struct {
	db      *DB
	migrate bool
	models  []interface{}
}

var _ component.Component = (*Component)(nil)

// NewComponent wraps db for use with the component registry.
func NewComponent(db *DB, cfg Config) *Component {
	return &Component{db: db, migrate: cfg.AutoMigrate}
}

// WithModels registers models for auto-migration on Start.
func (c *Component) WithModels(models ...interface{}) *Component {
	c.models = append(c.models, models...)
	return c
}

// DB returns the wrapped database.
func (c *Component) DB() *DB { return c.db }

func (c *Component) Name() string { return "database" }

func (c *Component) Start(ctx context.Context) error {
	if !c.migrate || len(c.models) == 0 {
		return nil
	}
	if err := c.db.AutoMigrate(c.models...); err != nil {
		return fmt.Errorf("database auto-migrate: %w", err)
	}
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	return c.db.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	if err := c.db.PingContext(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}
