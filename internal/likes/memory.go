// internal/likes/memory.go

package likes

import (
	"context"
	"sync"
)

// MemoryStore keeps edges in forward and reverse adjacency sets
type MemoryStore struct {
	mu      sync.RWMutex
	forward map[int64]map[int64]struct{} // liker -> liked
	reverse map[int64]map[int64]struct{} // liked -> liker
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		forward: make(map[int64]map[int64]struct{}),
		reverse: make(map[int64]map[int64]struct{}),
	}
}

func (s *MemoryStore) Exists(ctx context.Context, likerID, likedID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.forward[likerID][likedID]
	return ok, nil
}

func (s *MemoryStore) Insert(ctx context.Context, likerID, likedID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.forward[likerID][likedID]; ok {
		return false, nil
	}
	addEdge(s.forward, likerID, likedID)
	addEdge(s.reverse, likedID, likerID)
	return true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, likerID, likedID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.forward[likerID][likedID]; !ok {
		return false, nil
	}
	removeEdge(s.forward, likerID, likedID)
	removeEdge(s.reverse, likedID, likerID)
	return true, nil
}

func (s *MemoryStore) ListByLiker(ctx context.Context, likerID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return keys(s.forward[likerID]), nil
}

func (s *MemoryStore) ListByLiked(ctx context.Context, likedID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return keys(s.reverse[likedID]), nil
}

func addEdge(m map[int64]map[int64]struct{}, from, to int64) {
	set, ok := m[from]
	if !ok {
		set = make(map[int64]struct{})
		m[from] = set
	}
	set[to] = struct{}{}
}

func removeEdge(m map[int64]map[int64]struct{}, from, to int64) {
	set := m[from]
	delete(set, to)
	if len(set) == 0 {
		delete(m, from)
	}
}

func keys(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
