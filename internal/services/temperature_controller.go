package services

import (
	"context"
	"sync"

	"sevenguis/internal/models"
	"sevenguis/pkg/logging"
	"sevenguis/pkg/metrics"
)

// TemperatureView receives the two display tuples after every edit
type TemperatureView interface {
	Render(celsius, fahrenheit models.Display)
}

// TemperatureSnapshot is what both converter fields show
type TemperatureSnapshot struct {
	Celsius    models.Display `json:"celsius"`
	Fahrenheit models.Display `json:"fahrenheit"`
}

// For returns the display of the field for unit
func (s TemperatureSnapshot) For(unit models.Unit) models.Display {
	if unit == models.Fahrenheit {
		return s.Fahrenheit
	}
	return s.Celsius
}

func snapshotOf(state models.TemperatureState) TemperatureSnapshot {
	return TemperatureSnapshot{
		Celsius:    state.DisplayFor(models.Celsius),
		Fahrenheit: state.DisplayFor(models.Fahrenheit),
	}
}

// TemperatureController owns one converter's state and feeds every edit
// through TemperatureState.Apply. Edits are applied one at a time in arrival order.
type TemperatureController struct {
	mu      sync.Mutex
	state   models.TemperatureState
	view    TemperatureView
	logger  *logging.ContextLogger
	metrics *metrics.Collector
}

// NewTemperatureController creates a controller in the mount-time state
func NewTemperatureController(logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *TemperatureController {
	return &TemperatureController{
		state:   models.NewTemperatureState(),
		logger:  logger.WithFields(logging.Fields{"widget": "temperature"}),
		metrics: metricsCollector,
	}
}

// Attach sets the view and renders the current state to it
func (c *TemperatureController) Attach(view TemperatureView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view = view
	if view != nil {
		snap := snapshotOf(c.state)
		view.Render(snap.Celsius, snap.Fahrenheit)
	}
}

// Handle applies edit, replaces the state and pushes the new displays
func (c *TemperatureController) Handle(ctx context.Context, edit models.Edit) TemperatureSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = c.state.Apply(edit)
	snap := snapshotOf(c.state)

	_, failed := c.state.FailedEdit()
	c.metrics.RecordTemperatureEdit(edit.Unit.String(), !failed)
	c.logger.Debug(ctx, "[TEMPERATURE_EDIT] Edit applied", logging.Fields{
		"unit":       edit.Unit.String(),
		"text":       edit.Text,
		"valid":      !failed,
		"celsius":    snap.Celsius.Text,
		"fahrenheit": snap.Fahrenheit.Text,
	})

	if c.view != nil {
		c.view.Render(snap.Celsius, snap.Fahrenheit)
	}

	return snap
}

// Snapshot returns the current displays without changing state
func (c *TemperatureController) Snapshot() TemperatureSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshotOf(c.state)
}
