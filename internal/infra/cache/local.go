package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/metrics"
)

type localDay struct {
	workshopID uuid.UUID
	date       string
}

type localEntry struct {
	version Version
	slots   []time.Time
	expires time.Time
}

// Local is the in-process availability cache used with the memory storage
// driver, where one process sees every write.
type Local struct {
	mu sync.Mutex

	ttl time.Duration
	now func() time.Time

	workshopGen map[uuid.UUID]int64
	dayGen      map[localDay]int64
	entries     map[localDay]localEntry
}

func NewLocal(ttl time.Duration) *Local {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Local{
		ttl:         ttl,
		now:         time.Now,
		workshopGen: map[uuid.UUID]int64{},
		dayGen:      map[localDay]int64{},
		entries:     map[localDay]localEntry{},
	}
}

func (c *Local) version(day localDay) Version {
	return Version{
		Workshop: c.workshopGen[day.workshopID],
		Day:      c.dayGen[day],
		valid:    true,
	}
}

func (c *Local) Get(_ context.Context, workshopID uuid.UUID, date string) ([]time.Time, Version, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	day := localDay{workshopID: workshopID, date: date}
	v := c.version(day)

	e, ok := c.entries[day]
	if !ok || e.version != v || !c.now().Before(e.expires) {
		metrics.AvailabilityCacheLookups.WithLabelValues("miss").Inc()
		return nil, v, false
	}

	metrics.AvailabilityCacheLookups.WithLabelValues("hit").Inc()
	return slices.Clone(e.slots), v, true
}

// Set drops slots computed under a generation that has since been invalidated.
func (c *Local) Set(_ context.Context, workshopID uuid.UUID, date string, v Version, slots []time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	day := localDay{workshopID: workshopID, date: date}
	if !v.valid || v != c.version(day) {
		return
	}
	c.entries[day] = localEntry{
		version: v,
		slots:   slices.Clone(slots),
		expires: c.now().Add(c.ttl),
	}
}

func (c *Local) Invalidate(_ context.Context, workshopID uuid.UUID, dates ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range dates {
		day := localDay{workshopID: workshopID, date: d}
		c.dayGen[day]++
		delete(c.entries, day)
	}
}

func (c *Local) InvalidateWorkshop(_ context.Context, workshopID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.workshopGen[workshopID]++
	for day := range c.entries {
		if day.workshopID == workshopID {
			delete(c.entries, day)
		}
	}
}

var (
	_ Availability = Nop{}
	_ Availability = (*Local)(nil)
	_ Availability = (*RedisAvailability)(nil)
)
