package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/workshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/workshop-scheduler/internal/logger"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

const standardHours = `{
	"weekdays": [{"start": "09:00", "end": "12:00"}],
	"saturday": [{"start": "11:00", "end": "14:00"}],
	"sunday": []
}`

type recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recorder) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

// fakeCache is the in-process cache that also remembers invalidated dates.
type fakeCache struct {
	*cache.Local

	mu          sync.Mutex
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{Local: cache.NewLocal(time.Hour)}
}

func (c *fakeCache) Invalidate(ctx context.Context, id uuid.UUID, dates ...string) {
	c.mu.Lock()
	c.invalidated = append(c.invalidated, dates...)
	c.mu.Unlock()

	c.Local.Invalidate(ctx, id, dates...)
}

// hookedRepo runs afterConfirmedRead once, right after a confirmed-rows read.
type hookedRepo struct {
	domain.Repository
	afterConfirmedRead func()
}

func (r *hookedRepo) ListConfirmedBetween(
	ctx context.Context,
	workshopID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {
	out, err := r.Repository.ListConfirmedBetween(ctx, workshopID, from, to)
	if hook := r.afterConfirmedRead; hook != nil {
		r.afterConfirmedRead = nil
		hook()
	}
	return out, err
}

type env struct {
	store    *memory.Store
	cache    *fakeCache
	audit    *recorder
	workshop *models.Workshop

	create  *CreateAppointment
	confirm *ConfirmAppointment
	cancel  *CancelAppointment
	update  *UpdateAppointment
	remove  *DeleteAppointment
	get     *GetAppointment
	list    *ListAppointments
	slots   *GetAvailability
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := memory.NewStore()
	ws := &models.Workshop{
		Name:         "Taller Centro",
		Address:      "Calle Mayor 1",
		Phone:        "+34910000000",
		Timezone:     "UTC",
		OpeningHours: datatypes.JSON(standardHours),
	}
	if err := store.CreateWorkshop(context.Background(), ws); err != nil {
		t.Fatalf("create workshop: %v", err)
	}

	c := newFakeCache()
	rec := &recorder{}
	log := logger.Discard()

	slots := NewGetAvailability(store, store, c, log)
	slots.now = func() time.Time { return at("2030-05-01T08:00:00Z") }

	return &env{
		store:    store,
		cache:    c,
		audit:    rec,
		workshop: ws,

		create:  NewCreateAppointment(store, store, rec, log),
		confirm: NewConfirmAppointment(store, store, c, rec, log),
		cancel:  NewCancelAppointment(store, store, c, rec, log),
		update:  NewUpdateAppointment(store, store, c, rec, log),
		remove:  NewDeleteAppointment(store, store, c, rec, log),
		get:     NewGetAppointment(store),
		list:    NewListAppointments(store, store, nil),
		slots:   slots,
	}
}

func (e *env) book(t *testing.T, start, end string) *models.Appointment {
	t.Helper()

	ap, err := e.create.Execute(context.Background(), CreateInput{
		WorkshopID:    e.workshop.ID,
		CustomerName:  "Ana",
		CustomerPhone: "+34600111222",
		StartTime:     at(start),
		EndTime:       at(end),
	})
	if err != nil {
		t.Fatalf("create %s-%s: %v", start, end, err)
	}
	return ap
}

func (e *env) bookConfirmed(t *testing.T, start, end string) *models.Appointment {
	t.Helper()

	ap := e.book(t, start, end)
	confirmed, err := e.confirm.Execute(context.Background(), ap.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	return confirmed
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
