package service

import (
	"sync"

	"celltrack-api/internal/models"
)

// MemoryCache is the process-local tower tier. It is unbounded and safe for concurrent use.
type MemoryCache struct {
	mu     sync.RWMutex
	towers map[models.TowerIdentity]models.TowerLocation
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{towers: make(map[models.TowerIdentity]models.TowerLocation)}
}

func (m *MemoryCache) Get(id models.TowerIdentity) (models.TowerLocation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.towers[id]
	return loc, ok
}

// Put stores loc under its identity, replacing any earlier entry.
func (m *MemoryCache) Put(loc models.TowerLocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.towers[loc.Identity] = loc
}

func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.towers)
}
