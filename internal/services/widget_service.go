package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dboslee/lru"
	"github.com/google/uuid"

	"sevenguis/pkg/logging"
	"sevenguis/pkg/metrics"
)

// ErrMountNotFound is returned for unknown or already discarded mounts
var ErrMountNotFound = errors.New("widget mount not found")

// Mount is one page's worth of widgets: a counter and a temperature converter.
// Its state lives until Unmount or eviction.
type Mount struct {
	ID          string
	MountedAt   time.Time
	Counter     *CounterController
	Temperature *TemperatureController
}

// MountSnapshot is the rendered state of a mount
type MountSnapshot struct {
	ID          string              `json:"id"`
	MountedAt   time.Time           `json:"mounted_at"`
	Count       int                 `json:"count"`
	Temperature TemperatureSnapshot `json:"temperature"`
}

// Snapshot captures both widgets
func (m *Mount) Snapshot() MountSnapshot {
	return MountSnapshot{
		ID:          m.ID,
		MountedAt:   m.MountedAt,
		Count:       m.Counter.Value(),
		Temperature: m.Temperature.Snapshot(),
	}
}

// WidgetService keeps mounted widgets in a bounded LRU; the least recently
// used mount is discarded once the capacity is reached
type WidgetService struct {
	mu      sync.Mutex
	mounts  *lru.Cache[string, *Mount]
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewWidgetService creates a registry holding at most maxMounts mounts
func NewWidgetService(maxMounts int, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *WidgetService {
	return &WidgetService{
		mounts:  lru.New[string, *Mount](lru.WithCapacity(maxMounts)),
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Mount creates a widget pair in its mount-time state
func (s *WidgetService) Mount(ctx context.Context) *Mount {
	m := &Mount{
		ID:          uuid.NewString(),
		MountedAt:   time.Now().UTC(),
		Counter:     NewCounterController(s.logger, s.metrics),
		Temperature: NewTemperatureController(s.logger, s.metrics),
	}

	s.mu.Lock()
	before := s.mounts.Len()
	s.mounts.Set(m.ID, m)
	evicted := s.mounts.Len() == before
	s.mu.Unlock()

	s.metrics.RecordMount()
	if evicted {
		s.metrics.RecordUnmount("evicted")
		s.logger.Warn(ctx, "[WIDGET_EVICT] Mount capacity reached, least recently used mount discarded", logging.Fields{
			"mounts": before,
		})
	}

	s.logger.Info(logging.WithWidgetID(ctx, m.ID), "[WIDGET_MOUNT] Widgets mounted", logging.Fields{})
	return m
}

// Get returns the mount with id and marks it recently used
func (s *WidgetService) Get(id string) (*Mount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.mounts.Get(id)
	if !ok {
		return nil, ErrMountNotFound
	}
	return m, nil
}

// Unmount discards the mount with id
func (s *WidgetService) Unmount(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.mounts.Get(id)
	if ok {
		s.mounts.Delete(id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrMountNotFound
	}

	s.metrics.RecordUnmount("explicit")
	s.logger.Info(logging.WithWidgetID(ctx, id), "[WIDGET_UNMOUNT] Widgets unmounted", logging.Fields{})
	return nil
}

// Len returns the number of live mounts
func (s *WidgetService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounts.Len()
}
