package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/billforge/billforge/internal/domain/invoice"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// InMemorySequenceStore implements invoice.SequenceRepository with a
// serialized in process counter per (tenant, document type, fiscal
// period). FailNext can inject allocation conflicts to exercise the
// retry path.
type InMemorySequenceStore struct {
	mu       sync.Mutex
	counters map[string]int64

	// remaining number of NextValue calls that fail with a conflict
	failNext int
}

// NewInMemorySequenceStore creates a new in-memory sequence store
func NewInMemorySequenceStore() *InMemorySequenceStore {
	return &InMemorySequenceStore{
		counters: make(map[string]int64),
	}
}

func (s *InMemorySequenceStore) key(ctx context.Context, documentType types.DocumentType, fiscalPeriod string) string {
	return fmt.Sprintf("%s/%s/%s", types.GetTenantID(ctx), documentType, fiscalPeriod)
}

func (s *InMemorySequenceStore) NextValue(ctx context.Context, documentType types.DocumentType, fiscalPeriod string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNext > 0 {
		s.failNext--
		return 0, ierr.NewError("sequence allocation conflict").
			WithHint("Document number allocation hit a concurrent writer").
			Mark(ierr.ErrSequenceConflict)
	}

	key := s.key(ctx, documentType, fiscalPeriod)
	s.counters[key]++
	return s.counters[key], nil
}

// FailNext makes the next n NextValue calls return a conflict
func (s *InMemorySequenceStore) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
}

// LastValue returns the current counter for inspection in tests
func (s *InMemorySequenceStore) LastValue(ctx context.Context, documentType types.DocumentType, fiscalPeriod string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[s.key(ctx, documentType, fiscalPeriod)]
}

// Clear resets all counters
func (s *InMemorySequenceStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = make(map[string]int64)
	s.failNext = 0
}

var _ invoice.SequenceRepository = (*InMemorySequenceStore)(nil)
