package server

import (
	"context"

	"github.com/kbukum/identity/component"
)

const componentName = "http"

var _ component.Component = (*Component)(nil)

// Component wraps Server for the component registry.
type Component struct {
	server *Server
}

// NewComponent returns a component backed by s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (c *Component) Name() string { return componentName }

func (c *Component) Start(ctx context.Context) error { return c.server.Start(ctx) }

func (c *Component) Stop(ctx context.Context) error { return c.server.Stop(ctx) }

func (c *Component) Health(_ context.Context) component.Health {
	if !c.server.running() {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusUnhealthy,
			Message: "http server not started",
		}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}
