package services

import (
	"context"
	"sync"

	"sevenguis/internal/models"
	"sevenguis/pkg/logging"
	"sevenguis/pkg/metrics"
)

// CounterController owns one click counter
type CounterController struct {
	mu      sync.Mutex
	counter models.Counter
	logger  *logging.ContextLogger
	metrics *metrics.Collector
}

// NewCounterController creates a counter at zero
func NewCounterController(logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *CounterController {
	return &CounterController{
		counter: models.NewCounter(),
		logger:  logger.WithFields(logging.Fields{"widget": "counter"}),
		metrics: metricsCollector,
	}
}

// Increment activates the counter once and returns the new value
func (c *CounterController) Increment(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter = c.counter.Increment()
	c.metrics.CounterIncrementsTotal.Inc()
	c.logger.Debug(ctx, "[COUNTER_INCREMENT] Counter activated", logging.Fields{
		"count": c.counter.Value(),
	})

	return c.counter.Value()
}

// Value returns the current count
func (c *CounterController) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter.Value()
}
