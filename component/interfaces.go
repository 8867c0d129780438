package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component represents a lifecycle-managed part of the application.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Hook adapts a pair of start/stop functions into a Component.
// Either function may be nil.
type Hook struct {
	HookName string
	OnStart  func(ctx context.Context) error
	OnStop   func(ctx context.Context) error

	started bool
}

// Name returns the hook name.
func (h *Hook) Name() string { return h.HookName }

// Start runs OnStart.
func (h *Hook) Start(ctx context.Context) error {
	if h.OnStart != nil {
		if err := h.OnStart(ctx); err != nil {
			return err
		}
	}
	h.started = true
	return nil
}

// Stop runs OnStop.
func (h *Hook) Stop(ctx context.Context) error {
	h.started = false
	if h.OnStop != nil {
		return h.OnStop(ctx)
	}
	return nil
}

// Health is healthy while started.
func (h *Hook) Health(_ context.Context) Health {
	if !h.started {
		return Health{Name: h.HookName, Status: StatusDegraded, Message: "not started"}
	}
	return Health{Name: h.HookName, Status: StatusHealthy}
}
