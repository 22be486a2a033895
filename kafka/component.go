package kafka

import (
	"context"
	"fmt"

	"github.com/kbukum/identity/component"
)

// Component ties a Producer to the component lifecycle.
type Component struct {
	cfg      Config
	producer *Producer
}

var _ component.Component = (*Component)(nil)

func NewComponent(cfg Config, producer *Producer) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, producer: producer}
}

func (c *Component) Name() string { return "kafka" }

func (c *Component) Start(context.Context) error { return nil }

func (c *Component) Stop(context.Context) error { return c.producer.Close() }

// Health dials the first broker and asks it for cluster metadata.
func (c *Component) Health(ctx context.Context) component.Health {
	dialer, err := newDialer(&c.cfg)
	if err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: fmt.Sprintf("dialer: %v", err)}
	}
	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Brokers[0])
	if err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: fmt.Sprintf("broker unreachable: %v", err)}
	}
	defer conn.Close()

	if _, err := conn.Brokers(); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusDegraded, Message: fmt.Sprintf("broker metadata: %v", err)}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}
