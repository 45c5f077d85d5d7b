package leak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistryRecentlyTargetedWindow(t *testing.T) {
	r := NewTargetRegistry()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }

	r.Do("community-1", func(v RegistryView) {
		v.Record("user-a")
	})

	r.now = func() time.Time { return base.Add(23 * time.Hour) }
	r.Do("community-1", func(v RegistryView) {
		assert.True(t, v.RecentlyTargeted("user-a"))
	})

	r.now = func() time.Time { return base.Add(25 * time.Hour) }
	r.Do("community-1", func(v RegistryView) {
		assert.False(t, v.RecentlyTargeted("user-a"))
	})
}

func TestRegistryPrunesAfterRetention(t *testing.T) {
	r := NewTargetRegistry()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }

	r.Do("community-1", func(v RegistryView) {
		v.Record("user-a")
	})

	// Eight days later a write prunes the stale entry.
	r.now = func() time.Time { return base.Add(8 * 24 * time.Hour) }
	r.Do("community-1", func(v RegistryView) {
		v.Record("user-b")
	})

	stats := r.Stats("community-1")
	assert.Equal(t, 1, stats.TotalRecentTargets)
	assert.Equal(t, 1, stats.TargetsInLast24h)
}

func TestRegistryCommunitiesIndependent(t *testing.T) {
	r := NewTargetRegistry()
	r.Do("community-1", func(v RegistryView) {
		v.Record("user-a")
	})

	r.Do("community-2", func(v RegistryView) {
		assert.False(t, v.RecentlyTargeted("user-a"))
	})
}

func TestRegistryStats(t *testing.T) {
	r := NewTargetRegistry()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }
	r.Do("community-1", func(v RegistryView) {
		v.Record("user-a")
	})

	r.now = func() time.Time { return base.Add(30 * time.Hour) }
	r.Do("community-1", func(v RegistryView) {
		v.Record("user-b")
	})

	stats := r.Stats("community-1")
	assert.Equal(t, 2, stats.TotalRecentTargets)
	assert.Equal(t, 1, stats.TargetsInLast24h)
	assert.InDelta(t, 30.0, stats.OldestTargetAgeHours, 0.01)
}

func TestRegistryReset(t *testing.T) {
	r := NewTargetRegistry()
	r.Do("community-1", func(v RegistryView) {
		v.Record("user-a")
	})
	r.Reset("community-1")

	stats := r.Stats("community-1")
	assert.Equal(t, 0, stats.TotalRecentTargets)
}
