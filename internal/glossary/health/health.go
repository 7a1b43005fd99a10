// Package health exposes run status and Prometheus metrics over HTTP.
package health

import (
	"context"

	"github.com/vietddude/glossary/internal/glossary/pipeline"
)

// SystemStatus represents the overall health state of the process or a dependency.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// StatusProvider reports the pipeline's current status.
type StatusProvider interface {
	Status() pipeline.Status
}

// Check probes an optional dependency such as the run history database.
type Check func(ctx context.Context) error

// Report contains the full health report.
type Report struct {
	SystemStatus SystemStatus            `json:"system_status"`
	Run          pipeline.Status         `json:"run"`
	Dependencies map[string]SystemStatus `json:"dependencies,omitempty"`
}

// Evaluate builds a report. A failed run is critical; a failing dependency
// degrades an otherwise healthy process.
func Evaluate(ctx context.Context, provider StatusProvider, checks map[string]Check) Report {
	report := Report{
		SystemStatus: StatusHealthy,
		Run:          provider.Status(),
	}

	if len(checks) > 0 {
		report.Dependencies = make(map[string]SystemStatus, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				report.Dependencies[name] = StatusDegraded
				report.SystemStatus = StatusDegraded
				continue
			}
			report.Dependencies[name] = StatusHealthy
		}
	}

	if report.Run.State == pipeline.StateFailed {
		report.SystemStatus = StatusCritical
	}
	return report
}
