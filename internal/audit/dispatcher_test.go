package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/logger"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Record(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	if s.fail {
		return errors.New("sink down")
	}
	return nil
}

func TestDispatcherDeliversToEverySink(t *testing.T) {
	first := &recordingSink{fail: true}
	second := &recordingSink{}

	d := NewDispatcher(logger.Discard(), 10, first, second)

	id := uuid.New()
	d.Dispatch(Event{WorkshopID: uuid.New(), Action: ActionCreated, Entity: "appointment", EntityID: &id})
	d.Dispatch(Event{WorkshopID: uuid.New(), Action: ActionConfirmed, Entity: "appointment", EntityID: &id})
	d.Close()

	if len(first.events) != 2 || len(second.events) != 2 {
		t.Fatalf("expected 2 events per sink, got %d and %d", len(first.events), len(second.events))
	}
	if second.events[1].Action != ActionConfirmed {
		t.Fatalf("expected order preserved, got %s", second.events[1].Action)
	}
	if second.events[0].At.IsZero() {
		t.Fatal("expected timestamp to be filled in")
	}
}

func TestDispatchAfterCloseIsIgnored(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(logger.Discard(), 1, sink)
	d.Close()
	d.Close()

	d.Dispatch(Event{Action: ActionCanceled})

	if len(sink.events) != 0 {
		t.Fatalf("expected no events, got %d", len(sink.events))
	}
}
