// Package memory keeps workshops and appointments in process memory. It
// honours the same guarantees as the postgres adapter, including the
// confirmed-overlap guard, and is used when STORAGE_DRIVER=memory and in tests.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/workshop-scheduler/internal/domain/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

var errInvalidInterval = errors.New("appointment start_time must be before end_time")

type storedAppointment struct {
	seq uint64
	ap  models.Appointment
}

type Store struct {
	mu           sync.RWMutex
	workshops    map[uuid.UUID]models.Workshop
	appointments map[uuid.UUID]storedAppointment
	seq          uint64

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		workshops:    map[uuid.UUID]models.Workshop{},
		appointments: map[uuid.UUID]storedAppointment{},
		locks:        map[uuid.UUID]*sync.Mutex{},
		now:          time.Now,
	}
}

// --------------------------------------------------
// Workshops
// --------------------------------------------------

func (s *Store) GetWorkshop(_ context.Context, id uuid.UUID) (*models.Workshop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workshops[id]
	if !ok {
		return nil, workshop.ErrNotFound
	}
	return cloneWorkshop(w), nil
}

func (s *Store) ListWorkshops(_ context.Context) ([]models.Workshop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Workshop, 0, len(s.workshops))
	for _, w := range s.workshops {
		out = append(out, *cloneWorkshop(w))
	}
	slices.SortFunc(out, func(a, b models.Workshop) int {
		if a.Name != b.Name {
			if a.Name < b.Name {
				return -1
			}
			return 1
		}
		if a.ID.String() < b.ID.String() {
			return -1
		}
		return 1
	})
	return out, nil
}

func (s *Store) CreateWorkshop(_ context.Context, w *models.Workshop) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	now := s.now()
	w.CreatedAt = now
	w.UpdatedAt = now

	s.workshops[w.ID] = *cloneWorkshop(*w)
	return nil
}

func (s *Store) UpdateWorkshop(_ context.Context, w *models.Workshop) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.workshops[w.ID]
	if !ok {
		return workshop.ErrNotFound
	}

	w.CreatedAt = cur.CreatedAt
	w.UpdatedAt = s.now()
	s.workshops[w.ID] = *cloneWorkshop(*w)
	return nil
}

// --------------------------------------------------
// Appointments (read)
// --------------------------------------------------

func (s *Store) GetAppointment(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ap := st.ap
	return &ap, nil
}

func (s *Store) ListAppointments(
	_ context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, int64, error) {

	s.mu.RLock()
	matched := make([]storedAppointment, 0)
	for _, st := range s.appointments {
		if filter.Matches(&st.ap) {
			matched = append(matched, st)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b storedAppointment) int {
		switch filter.Order {
		case domain.OrderStartAsc:
			if c := a.ap.StartTime.Compare(b.ap.StartTime); c != 0 {
				return c
			}
		case domain.OrderStartDesc:
			if c := b.ap.StartTime.Compare(a.ap.StartTime); c != 0 {
				return c
			}
		}
		return compareSeq(a.seq, b.seq)
	})

	total := int64(len(matched))
	limit, offset := filter.Page()
	if offset >= len(matched) {
		return []models.Appointment{}, total, nil
	}
	end := min(offset+limit, len(matched))

	out := make([]models.Appointment, 0, end-offset)
	for _, st := range matched[offset:end] {
		out = append(out, st.ap)
	}
	return out, total, nil
}

func (s *Store) ListConfirmedBetween(
	_ context.Context,
	workshopID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Appointment
	for _, st := range s.appointments {
		ap := st.ap
		if ap.WorkshopID != workshopID || domain.State(ap.State) != domain.StateConfirmed {
			continue
		}
		if domain.Overlaps(ap.StartTime, ap.EndTime, from, to) {
			out = append(out, ap)
		}
	}
	slices.SortFunc(out, func(a, b models.Appointment) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return out, nil
}

// --------------------------------------------------
// Appointments (write)
// --------------------------------------------------

func (s *Store) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(ap)
}

func (s *Store) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.updateLocked(ap)
	return err
}

func (s *Store) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.deleteLocked(id)
	return err
}

func (s *Store) createLocked(ap *models.Appointment) error {
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	if ap.State == "" {
		ap.State = string(domain.InitialState())
	}
	if err := s.guard(ap); err != nil {
		return err
	}

	now := s.now()
	ap.CreatedAt = now
	ap.UpdatedAt = now

	s.seq++
	ap.Seq = int64(s.seq)
	s.appointments[ap.ID] = storedAppointment{seq: s.seq, ap: *ap}
	return nil
}

func (s *Store) updateLocked(ap *models.Appointment) (storedAppointment, error) {
	prev, ok := s.appointments[ap.ID]
	if !ok {
		return storedAppointment{}, domain.ErrNotFound
	}
	if err := s.guard(ap); err != nil {
		return storedAppointment{}, err
	}

	ap.Seq = prev.ap.Seq
	ap.CreatedAt = prev.ap.CreatedAt
	ap.UpdatedAt = s.now()
	s.appointments[ap.ID] = storedAppointment{seq: prev.seq, ap: *ap}
	return prev, nil
}

func (s *Store) deleteLocked(id uuid.UUID) (storedAppointment, error) {
	prev, ok := s.appointments[id]
	if !ok {
		return storedAppointment{}, domain.ErrNotFound
	}
	delete(s.appointments, id)
	return prev, nil
}

// guard mirrors the database constraints: start before end, and no two
// CONFIRMED appointments of a workshop overlapping.
func (s *Store) guard(ap *models.Appointment) error {
	if !ap.StartTime.Before(ap.EndTime) {
		return errInvalidInterval
	}
	if domain.State(ap.State) != domain.StateConfirmed {
		return nil
	}
	for id, st := range s.appointments {
		other := st.ap
		if id == ap.ID ||
			other.WorkshopID != ap.WorkshopID ||
			domain.State(other.State) != domain.StateConfirmed {
			continue
		}
		if domain.Overlaps(ap.StartTime, ap.EndTime, other.StartTime, other.EndTime) {
			return domain.ErrOverlap
		}
	}
	return nil
}

// --------------------------------------------------
// Serialization
// --------------------------------------------------

func (s *Store) workshopLock(id uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// WithinWorkshopLock serializes fn against other locked sections of the same
// workshop. Writes made through the repo handed to fn are undone if fn fails.
func (s *Store) WithinWorkshopLock(
	ctx context.Context,
	workshopID uuid.UUID,
	fn func(ctx context.Context, repo domain.Repository) error,
) error {

	l := s.workshopLock(workshopID)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &txRepo{Store: s}
	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

type undo struct {
	id      uuid.UUID
	existed bool
	prev    storedAppointment
}

// txRepo journals every write so a failed locked section leaves no trace.
type txRepo struct {
	*Store
	journal []undo
}

func (t *txRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.createLocked(ap); err != nil {
		return err
	}
	t.journal = append(t.journal, undo{id: ap.ID})
	return nil
}

func (t *txRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, err := t.updateLocked(ap)
	if err != nil {
		return err
	}
	t.journal = append(t.journal, undo{id: ap.ID, existed: true, prev: prev})
	return nil
}

func (t *txRepo) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, err := t.deleteLocked(id)
	if err != nil {
		return err
	}
	t.journal = append(t.journal, undo{id: id, existed: true, prev: prev})
	return nil
}

// WithinWorkshopLock inside a locked section reuses the current one.
func (t *txRepo) WithinWorkshopLock(
	ctx context.Context,
	_ uuid.UUID,
	fn func(ctx context.Context, repo domain.Repository) error,
) error {
	return fn(ctx, t)
}

func (t *txRepo) rollback() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.journal) - 1; i >= 0; i-- {
		u := t.journal[i]
		if u.existed {
			t.appointments[u.id] = u.prev
		} else {
			delete(t.appointments, u.id)
		}
	}
	t.journal = nil
}

func compareSeq(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cloneWorkshop(w models.Workshop) *models.Workshop {
	w.OpeningHours = slices.Clone(w.OpeningHours)
	return &w
}

// Compile-time checks
var (
	_ domain.Repository = (*Store)(nil)
	_ domain.Repository = (*txRepo)(nil)
	_ workshop.Registry = (*Store)(nil)
)
