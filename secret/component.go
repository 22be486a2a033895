package secret

import (
	"context"
	"fmt"

	"github.com/kbukum/identity/component"
)

// Component closes the bolt store on shutdown and reports its health.
type Component struct {
	repo *BoltRepository
}

var _ component.Component = (*Component)(nil)

func NewComponent(repo *BoltRepository) *Component {
	return &Component{repo: repo}
}

func (c *Component) Name() string { return "secrets" }

func (c *Component) Start(context.Context) error { return nil }

func (c *Component) Stop(context.Context) error { return c.repo.Close() }

func (c *Component) Health(context.Context) component.Health {
	if err := c.repo.Ping(); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("bolt: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}
