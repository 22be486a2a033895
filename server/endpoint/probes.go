// Package endpoint holds the ops HTTP handlers: probes, build info and
// runtime metrics.
package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/identity/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

type probe struct {
	Status     string             `json:"status"`
	Service    string             `json:"service"`
	Timestamp  string             `json:"timestamp"`
	Components []component.Health `json:"components,omitempty"`
}

func newProbe(service, status string) probe {
	return probe{Status: status, Service: service, Timestamp: now()}
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// Aggregate folds component reports into one status: unhealthy if any
// component is, else degraded if any is, else healthy.
func Aggregate(components []component.Health) component.HealthStatus {
	status := component.StatusHealthy
	for _, h := range components {
		switch h.Status {
		case component.StatusUnhealthy:
			return component.StatusUnhealthy
		case component.StatusDegraded:
			status = component.StatusDegraded
		}
	}
	return status
}

func check(c *gin.Context, checker HealthChecker) []component.Health {
	if checker == nil {
		return nil
	}
	return checker(c.Request.Context())
}

// Health reports every component and the aggregate. Only an unhealthy
// aggregate answers 503.
func Health(service string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		components := check(c, checker)
		status := Aggregate(components)

		p := newProbe(service, string(status))
		p.Components = components
		if status == component.StatusUnhealthy {
			c.JSON(http.StatusServiceUnavailable, p)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// Readiness answers "ready" unless a component is unhealthy.
func Readiness(service string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Aggregate(check(c, checker)) == component.StatusUnhealthy {
			c.JSON(http.StatusServiceUnavailable, newProbe(service, "not_ready"))
			return
		}
		c.JSON(http.StatusOK, newProbe(service, "ready"))
	}
}

// Liveness always answers "alive" while the process can serve HTTP.
func Liveness(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, newProbe(service, "alive"))
	}
}
