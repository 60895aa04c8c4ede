package repositories

import (
	"car-maneuver-service/internal/domain"
	"context"
	"errors"
	"sync"
)

// In-process maneuver log, used when no database is configured.
type MemoryManeuverRepository struct {
	mu        sync.RWMutex
	maneuvers []*domain.Maneuver
	index     map[string]int
}

func NewMemoryManeuverRepository() *MemoryManeuverRepository {
	return &MemoryManeuverRepository{index: map[string]int{}}
}

// Store a copy of the maneuver, replacing a previous save with the same id.
func (s *MemoryManeuverRepository) SaveManeuver(ctx context.Context, m *domain.Maneuver) error {
	if m == nil || m.ID == "" {
		return errors.New("save maneuver: maneuver must have an id")
	}

	cp := *m
	cp.Steps = append([]domain.Step{}, m.Steps...)
	if m.FinishedAt != nil {
		t := *m.FinishedAt
		cp.FinishedAt = &t
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[m.ID]; ok {
		s.maneuvers[i] = &cp
		return nil
	}
	s.index[m.ID] = len(s.maneuvers)
	s.maneuvers = append(s.maneuvers, &cp)
	return nil
}

// Return up to limit maneuvers, most recently saved first.
func (s *MemoryManeuverRepository) ListManeuvers(ctx context.Context, limit int) ([]*domain.Maneuver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Maneuver, 0, min(max(limit, 0), len(s.maneuvers)))
	for i := len(s.maneuvers) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.maneuvers[i])
	}
	return out, nil
}
