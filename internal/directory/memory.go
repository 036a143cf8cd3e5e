// internal/directory/memory.go

package directory

import (
	"context"
	"sort"
	"sync"

	"github.com/imadgeboyega/kiekky-matching/internal/geo"
)

// MemoryDirectory keeps profiles in process memory.
// Used for local development and tests.
type MemoryDirectory struct {
	mu       sync.RWMutex
	profiles map[int64]*Profile
}

func NewMemoryDirectory(profiles ...*Profile) *MemoryDirectory {
	d := &MemoryDirectory{profiles: make(map[int64]*Profile, len(profiles))}
	for _, p := range profiles {
		d.Put(p)
	}
	return d
}

// Put inserts or replaces a profile
func (d *MemoryDirectory) Put(p *Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *p
	d.profiles[p.ID] = &cp
}

func (d *MemoryDirectory) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (d *MemoryDirectory) ListCandidatePool(ctx context.Context, excludeID int64, excludeRoles []string) ([]*Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	pool := make([]*Profile, 0, len(d.profiles))
	for id, p := range d.profiles {
		if id == excludeID || p.IsBanned || excluded(p.Role, excludeRoles) {
			continue
		}
		cp := *p
		pool = append(pool, &cp)
	}

	// map iteration order is random; keep the pool deterministic for callers
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	return pool, nil
}

func (d *MemoryDirectory) GetProfiles(ctx context.Context, userIDs []int64) (map[int64]*Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[int64]*Profile, len(userIDs))
	for _, id := range userIDs {
		if p, ok := d.profiles[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (d *MemoryDirectory) UpdateLocation(ctx context.Context, userID int64, loc geo.Coordinate) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	l := loc
	p.Location = &l
	return nil
}
