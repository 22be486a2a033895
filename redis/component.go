package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/identity/component"
	"github.com/kbukum/identity/logger"
)

// Component owns a Client for the lifetime of the service. The client is
// created eagerly so dependents can be wired before Start; Start only
// checks connectivity.
type Component struct {
	client *Client
	log    *logger.Logger
}

var _ component.Component = (*Component)(nil)

// NewComponent creates the client described by cfg.
func NewComponent(cfg Config, log *logger.Logger) (*Component, error) {
	log = log.WithComponent("redis")
	client, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Component{client: client, log: log}, nil
}

// Client returns the wrapped client.
func (c *Component) Client() *Client { return c.client }

func (c *Component) Name() string { return "redis" }

// Start verifies connectivity.
func (c *Component) Start(ctx context.Context) error {
	if err := c.client.Ping(ctx); err != nil {
		return fmt.Errorf("redis start ping: %w", err)
	}
	c.log.Info("Redis component started")
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	c.log.Info("Redis component stopping")
	return c.client.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	if err := c.client.Ping(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}
