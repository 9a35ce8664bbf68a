package workshop

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/workshop-scheduler/internal/logger"
)

type countingCache struct {
	cache.Nop
	flushed []uuid.UUID
}

func (c *countingCache) InvalidateWorkshop(_ context.Context, id uuid.UUID) {
	c.flushed = append(c.flushed, id)
}

func validInput() Input {
	return Input{
		Name:     " Taller Norte ",
		Address:  "Avenida 5",
		Phone:    "+34910000001",
		Timezone: "Europe/Madrid",
		OpeningHours: []byte(`{
			"weekdays": [{"start": "08:00", "end": "13:00"}, {"start": "15:00", "end": "19:00"}],
			"saturday": [],
			"sunday": []
		}`),
	}
}

func TestCreateAndGetWorkshop(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	created, err := NewCreateWorkshop(store, audit.Nop{}, logger.Discard()).Execute(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil || created.Name != "Taller Norte" {
		t.Fatalf("unexpected workshop %+v", created)
	}

	got, err := NewGetWorkshop(store).Execute(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	hours, err := domain.ParseOpeningHours(got.OpeningHours)
	if err != nil {
		t.Fatalf("stored hours must parse: %v", err)
	}
	if len(hours.Weekdays) != 2 || len(hours.Saturday) != 0 {
		t.Fatalf("unexpected hours %+v", hours)
	}

	list, err := NewListWorkshops(store).Execute(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one workshop, got %d (%v)", len(list), err)
	}

	if _, err := NewGetWorkshop(store).Execute(ctx, uuid.New()); !httperr.IsBusiness(err, "workshop_not_found") {
		t.Fatalf("expected workshop_not_found, got %v", err)
	}
}

func TestCreateWorkshopValidation(t *testing.T) {
	store := memory.NewStore()
	uc := NewCreateWorkshop(store, audit.Nop{}, logger.Discard())

	tests := []struct {
		name   string
		mutate func(*Input)
		code   string
	}{
		{"missing name", func(in *Input) { in.Name = "" }, "missing_required_fields"},
		{"bad timezone", func(in *Input) { in.Timezone = "Mars/Olympus" }, "invalid_timezone"},
		{"missing bucket", func(in *Input) {
			in.OpeningHours = []byte(`{"weekdays": [], "saturday": []}`)
		}, "invalid_opening_hours"},
		{"inverted range", func(in *Input) {
			in.OpeningHours = []byte(`{"weekdays": [{"start": "18:00", "end": "09:00"}], "saturday": [], "sunday": []}`)
		}, "invalid_opening_hours"},
		{"bad clock", func(in *Input) {
			in.OpeningHours = []byte(`{"weekdays": [{"start": "9am", "end": "12:00"}], "saturday": [], "sunday": []}`)
		}, "invalid_opening_hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			if _, err := uc.Execute(context.Background(), in); !httperr.IsBusiness(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}

	list, _ := store.ListWorkshops(context.Background())
	if len(list) != 0 {
		t.Fatalf("invalid input must not persist, got %d workshops", len(list))
	}
}

func TestUpdateWorkshopFlushesCache(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	c := &countingCache{}

	created, err := NewCreateWorkshop(store, audit.Nop{}, logger.Discard()).Execute(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := validInput()
	in.Name = "Taller Norte II"
	in.Timezone = ""
	updated, err := NewUpdateWorkshop(store, c, audit.Nop{}, logger.Discard()).Execute(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Taller Norte II" || updated.Timezone != "" {
		t.Fatalf("unexpected workshop %+v", updated)
	}
	if len(c.flushed) != 1 || c.flushed[0] != created.ID {
		t.Fatalf("expected cache flush for %s, got %v", created.ID, c.flushed)
	}

	_, err = NewUpdateWorkshop(store, c, audit.Nop{}, logger.Discard()).Execute(ctx, uuid.New(), in)
	if !httperr.IsBusiness(err, "workshop_not_found") {
		t.Fatalf("expected workshop_not_found, got %v", err)
	}
}
