package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/load"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/repository"
	"github.com/google/uuid"
)

// LoadStore is an in-memory LoadStore for tests and local runs. It mirrors
// the postgres store's semantics, including the conditional status update.
type LoadStore struct {
	mu    sync.RWMutex
	loads map[uuid.UUID]load.Load
}

func NewLoadStore() *LoadStore {
	return &LoadStore{loads: make(map[uuid.UUID]load.Load)}
}

func (s *LoadStore) GetLoad(ctx context.Context, id uuid.UUID) (load.Load, error) {
	select {
	case <-ctx.Done():
		return load.Load{}, ctx.Err()
	default:
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.loads[id]
	if !ok {
		return load.Load{}, domainErr.ErrLoadNotFound
	}
	return l, nil
}

func (s *LoadStore) ListLoads(ctx context.Context, filter repository.LoadFilter) ([]load.Load, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []load.Load
	for _, l := range s.loads {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })

	start := int(filter.Offset)
	if start > len(result) {
		return nil, nil
	}
	end := len(result)
	if filter.Limit > 0 && start+int(filter.Limit) < end {
		end = start + int(filter.Limit)
	}
	return result[start:end], nil
}

func (s *LoadStore) CreateLoad(ctx context.Context, l load.Load) (load.Load, error) {
	select {
	case <-ctx.Done():
		return load.Load{}, ctx.Err()
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.loads {
		if existing.LoadNumber == l.LoadNumber {
			return load.Load{}, domainErr.ErrDuplicateLoadNumber
		}
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
	s.loads[l.ID] = l
	return l, nil
}

// UpdateStatus is the compare-and-swap: the write only lands when the stored
// status still matches expected.
func (s *LoadStore) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next load.Status) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loads[id]
	if !ok {
		return domainErr.ErrLoadNotFound
	}
	if l.Status != expected {
		return domainErr.ErrStaleStatus
	}
	l.Status = next
	l.UpdatedAt = time.Now()
	s.loads[id] = l
	return nil
}
