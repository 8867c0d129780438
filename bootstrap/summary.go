package bootstrap

import (
	"context"
	"time"

	"github.com/kbukum/searchlab/component"
	"github.com/kbukum/searchlab/logger"
)

// Summary records how startup went.
type Summary struct {
	Service         string
	Version         string
	StartupDuration time.Duration
	Components      []component.Health
}

// Healthy counts healthy components.
func (s Summary) Healthy() int {
	n := 0
	for _, h := range s.Components {
		if h.Status == component.StatusHealthy {
			n++
		}
	}
	return n
}

func collectSummary(ctx context.Context, name, version string, reg *component.Registry, took time.Duration) Summary {
	return Summary{
		Service:         name,
		Version:         version,
		StartupDuration: took,
		Components:      reg.HealthAll(ctx),
	}
}

// log writes the summary as structured entries. Interactive front ends own
// the terminal, so nothing is printed to stdout.
func (s Summary) log(log *logger.Logger) {
	log.Info("Application started", map[string]interface{}{
		"service":            s.Service,
		"version":            s.Version,
		logger.FieldDuration: s.StartupDuration.Milliseconds(),
		"healthy":            s.Healthy(),
		"components":         len(s.Components),
	})
	for _, h := range s.Components {
		fields := map[string]interface{}{
			logger.FieldComponent: h.Name,
			logger.FieldStatus:    string(h.Status),
		}
		if h.Message != "" {
			fields["message"] = h.Message
		}
		if h.Status == component.StatusHealthy {
			log.Debug("Component health", fields)
		} else {
			log.Warn("Component health", fields)
		}
	}
}
