package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/metrics"
)

const (
	ActionCreated   = "appointment_created"
	ActionConfirmed = "appointment_confirmed"
	ActionCanceled  = "appointment_canceled"
	ActionUpdated   = "appointment_updated"
	ActionDeleted   = "appointment_deleted"
	ActionConflict  = "appointment_conflict"

	ActionWorkshopCreated = "workshop_created"
	ActionWorkshopUpdated = "workshop_updated"
)

type Event struct {
	WorkshopID uuid.UUID
	Action     string
	Entity     string
	EntityID   *uuid.UUID
	Metadata   map[string]any
	At         time.Time
}

// Sink persists or forwards audit events.
type Sink interface {
	Name() string
	Record(ctx context.Context, ev Event) error
}

// Recorder accepts events without blocking the caller.
type Recorder interface {
	Dispatch(ev Event)
}

type Nop struct{}

func (Nop) Dispatch(Event) {}

type Dispatcher struct {
	sinks  []Sink
	logger *slog.Logger
	queue  chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(logger *slog.Logger, size int, sinks ...Sink) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	d := &Dispatcher{
		sinks:  sinks,
		logger: logger,
		queue:  make(chan Event, size),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Record(ctx, ev); err != nil {
				d.logger.Warn("audit sink failed",
					"sink", s.Name(),
					"action", ev.Action,
					"err", err,
				)
			}
			cancel()
		}
	}
}

// Dispatch enqueues ev. A full queue drops the event: audit never fails a request.
func (d *Dispatcher) Dispatch(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		metrics.AuditEventsDropped.Inc()
		d.logger.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close stops accepting events and waits until queued ones are flushed.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
