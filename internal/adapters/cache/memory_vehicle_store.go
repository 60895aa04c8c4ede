package cache

import (
	"car-maneuver-service/internal/domain"
	"context"
	"fmt"
	"sync"
)

// In-process vehicle state store, used when no Redis is configured.
// State does not survive a restart.
type MemoryVehicleStore struct {
	mu    sync.RWMutex
	state domain.VehicleState
	ok    bool
}

func NewMemoryVehicleStore() *MemoryVehicleStore {
	return &MemoryVehicleStore{}
}

func (s *MemoryVehicleStore) Load(ctx context.Context) (domain.VehicleState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.ok, nil
}

func (s *MemoryVehicleStore) Save(ctx context.Context, state domain.VehicleState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("save vehicle state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, s.ok = state, true
	return nil
}
