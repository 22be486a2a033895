package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/identity/version"
)

var startTime = time.Now()

// Info reports build information and uptime.
func Info(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":   service,
			"build":     version.Get(),
			"uptime":    time.Since(startTime).Round(time.Second).String(),
			"timestamp": now(),
		})
	}
}

// Gauges maps a name to a live reading, e.g. "sessions_active" to the
// registry size.
type Gauges map[string]func() int

type memory struct {
	HeapMB  uint64 `json:"heap_mb"`
	SysMB   uint64 `json:"sys_mb"`
	GCRuns  uint32 `json:"gc_runs"`
	PauseMS int64  `json:"last_gc_pause_ms"`
}

// Metrics reports goroutines, heap usage and the given gauges, each read
// at request time.
func Metrics(gauges Gauges) gin.HandlerFunc {
	const mb = 1 << 20
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		values := make(map[string]int, len(gauges))
		for name, read := range gauges {
			values[name] = read()
		}

		c.JSON(http.StatusOK, gin.H{
			"timestamp":  now(),
			"goroutines": runtime.NumGoroutine(),
			"memory": memory{
				HeapMB:  m.HeapAlloc / mb,
				SysMB:   m.Sys / mb,
				GCRuns:  m.NumGC,
				PauseMS: time.Duration(m.PauseNs[(m.NumGC+255)%256]).Milliseconds(),
			},
			"gauges": values,
		})
	}
}
