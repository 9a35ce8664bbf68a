package cache

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	workshopID = uuid.MustParse("6f1c1f43-3b1e-4c1a-9f7a-2d5f0c0f2b11")
	nine       = time.Date(2030, 6, 3, 9, 0, 0, 0, time.UTC)
	nineThirty = time.Date(2030, 6, 3, 9, 30, 0, 0, time.UTC)
)

func TestKey(t *testing.T) {
	got := Key(workshopID, "2030-06-03", Version{Workshop: 2, Day: 5})
	if got != "availability:6f1c1f43-3b1e-4c1a-9f7a-2d5f0c0f2b11:2030-06-03:v2.5" {
		t.Fatalf("unexpected key %s", got)
	}
	if dayGenerationKey(workshopID, "2030-06-03") == workshopGenerationKey(workshopID) {
		t.Fatal("day and workshop generations must not share a key")
	}
}

func TestParseGeneration(t *testing.T) {
	tests := []struct {
		raw  any
		want int64
	}{
		{nil, 0},
		{"7", 7},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := parseGeneration(tt.raw); got != tt.want {
			t.Fatalf("parseGeneration(%v) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNopAlwaysMisses(t *testing.T) {
	var c Availability = Nop{}
	ctx := context.Background()

	_, v, _ := c.Get(ctx, workshopID, "2030-06-03")
	c.Set(ctx, workshopID, "2030-06-03", v, nil)
	if _, _, ok := c.Get(ctx, workshopID, "2030-06-03"); ok {
		t.Fatal("expected a miss")
	}
}

func TestLocalHitAfterSet(t *testing.T) {
	c := NewLocal(time.Minute)
	ctx := context.Background()

	_, v, ok := c.Get(ctx, workshopID, "2030-06-03")
	if ok {
		t.Fatal("expected a miss on an empty cache")
	}
	c.Set(ctx, workshopID, "2030-06-03", v, []time.Time{nine, nineThirty})

	got, _, ok := c.Get(ctx, workshopID, "2030-06-03")
	if !ok || !slices.Equal(got, []time.Time{nine, nineThirty}) {
		t.Fatalf("expected a hit, got %v %v", got, ok)
	}
}

func TestLocalDropsWriteComputedBeforeInvalidation(t *testing.T) {
	c := NewLocal(time.Minute)
	ctx := context.Background()

	_, v, _ := c.Get(ctx, workshopID, "2030-06-03")

	// A booking commits while the slots are being computed.
	c.Invalidate(ctx, workshopID, "2030-06-03")
	c.Set(ctx, workshopID, "2030-06-03", v, []time.Time{nine, nineThirty})

	if got, _, ok := c.Get(ctx, workshopID, "2030-06-03"); ok {
		t.Fatalf("stale slots must not be served, got %v", got)
	}
}

func TestLocalWorkshopInvalidation(t *testing.T) {
	c := NewLocal(time.Minute)
	ctx := context.Background()

	_, v, _ := c.Get(ctx, workshopID, "2030-06-03")
	c.Set(ctx, workshopID, "2030-06-03", v, []time.Time{nine})

	_, stale, _ := c.Get(ctx, workshopID, "2030-06-04")
	c.InvalidateWorkshop(ctx, workshopID)
	c.Set(ctx, workshopID, "2030-06-04", stale, []time.Time{nine})

	for _, date := range []string{"2030-06-03", "2030-06-04"} {
		if _, _, ok := c.Get(ctx, workshopID, date); ok {
			t.Fatalf("expected %s to be flushed", date)
		}
	}

	other := uuid.New()
	_, v, _ = c.Get(ctx, other, "2030-06-03")
	c.Set(ctx, other, "2030-06-03", v, []time.Time{nine})
	c.InvalidateWorkshop(ctx, workshopID)
	if _, _, ok := c.Get(ctx, other, "2030-06-03"); !ok {
		t.Fatal("other workshops must keep their entries")
	}
}

func TestLocalExpires(t *testing.T) {
	c := NewLocal(time.Minute)
	now := time.Date(2030, 6, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, v, _ := c.Get(ctx, workshopID, "2030-06-03")
	c.Set(ctx, workshopID, "2030-06-03", v, []time.Time{nine})

	now = now.Add(2 * time.Minute)
	if _, _, ok := c.Get(ctx, workshopID, "2030-06-03"); ok {
		t.Fatal("expected the entry to expire")
	}
}
