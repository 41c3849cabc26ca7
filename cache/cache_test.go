package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewReportCache[int](time.Minute).WithClock(func() time.Time { return now })

	_, ok := c.Get("u1")
	assert.False(t, ok)

	c.Set("u1", 42)
	v, ok := c.Get("u1")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	now = now.Add(time.Minute)
	_, ok = c.Get("u1")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Prune())
	assert.Equal(t, 0, c.Stats()["entries"])
}

func TestReportCacheInvalidate(t *testing.T) {
	c := NewReportCache[string](time.Hour)
	c.Set("a", "x")
	c.Set("b", "y")
	c.Set("c", "z")

	c.Invalidate("a", "b", "missing")

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "z", v)
}

func TestReportCacheSetIfCurrentSkipsInvalidated(t *testing.T) {
	c := NewReportCache[string](time.Hour)

	gen := c.Generation("u1")
	c.Invalidate("u1")
	assert.False(t, c.SetIfCurrent("u1", gen, "stale"))
	_, ok := c.Get("u1")
	assert.False(t, ok)

	gen = c.Generation("u1")
	assert.True(t, c.SetIfCurrent("u1", gen, "fresh"))
	v, ok := c.Get("u1")
	assert.True(t, ok)
	assert.Equal(t, "fresh", v)
}
