package leak

import (
	"sync"
	"time"
)

const (
	// recentTargetWindow is the exclusion window for repeat targets.
	recentTargetWindow = 24 * time.Hour
	// targetRetention bounds how long a registry entry may live.
	targetRetention = 7 * 24 * time.Hour
)

// TargetRegistry tracks who was recently targeted per community. Access for
// one community is serialized so a concurrent selection cannot read the
// registry between another selection's check and record.
type TargetRegistry struct {
	mu          sync.Mutex
	communities map[string]*communityTargets
	now         func() time.Time
}

type communityTargets struct {
	mu      sync.Mutex
	targets map[string]time.Time
}

func NewTargetRegistry() *TargetRegistry {
	return &TargetRegistry{
		communities: make(map[string]*communityTargets),
		now:         time.Now,
	}
}

func (r *TargetRegistry) community(id string) *communityTargets {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.communities[id]
	if !ok {
		c = &communityTargets{targets: make(map[string]time.Time)}
		r.communities[id] = c
	}
	return c
}

// RegistryView exposes the registry for one community while its lock is held.
type RegistryView struct {
	targets map[string]time.Time
	now     time.Time
}

// Do runs fn under the community's lock. Selection uses this to make the
// recently-targeted check and the final record a single atomic step.
func (r *TargetRegistry) Do(communityID string, fn func(RegistryView)) {
	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(RegistryView{targets: c.targets, now: r.now()})
}

// RecentlyTargeted reports whether the user was recorded within the
// exclusion window.
func (v RegistryView) RecentlyTargeted(userID string) bool {
	t, ok := v.targets[userID]
	return ok && v.now.Sub(t) < recentTargetWindow
}

// Record marks the user as targeted now and lazily prunes entries past the
// retention bound.
func (v RegistryView) Record(userID string) {
	v.targets[userID] = v.now
	for id, ts := range v.targets {
		if v.now.Sub(ts) > targetRetention {
			delete(v.targets, id)
		}
	}
}

// Stats summarizes recent selections for a community.
func (r *TargetRegistry) Stats(communityID string) SelectionStats {
	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	now := r.now()
	stats := SelectionStats{TotalRecentTargets: len(c.targets)}

	var oldest time.Time
	for _, ts := range c.targets {
		if now.Sub(ts) < recentTargetWindow {
			stats.TargetsInLast24h++
		}
		if oldest.IsZero() || ts.Before(oldest) {
			oldest = ts
		}
	}
	if !oldest.IsZero() {
		stats.OldestTargetAgeHours = now.Sub(oldest).Hours()
	}
	return stats
}

// Reset drops all history for a community.
func (r *TargetRegistry) Reset(communityID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.communities, communityID)
}
