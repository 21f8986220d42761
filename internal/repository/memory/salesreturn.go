package memory

import (
	"context"
	"fmt"

	"github.com/billforge/billforge/internal/domain/salesreturn"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// InMemorySalesReturnStore implements salesreturn.Repository
type InMemorySalesReturnStore struct {
	*InMemoryStore[*salesreturn.SalesReturn]
}

// NewInMemorySalesReturnStore creates a new in-memory sales return store
func NewInMemorySalesReturnStore() *InMemorySalesReturnStore {
	return &InMemorySalesReturnStore{
		InMemoryStore: NewInMemoryStore[*salesreturn.SalesReturn](),
	}
}

func copySalesReturn(sr *salesreturn.SalesReturn) *salesreturn.SalesReturn {
	if sr == nil {
		return nil
	}

	cp := *sr
	if len(sr.Lines) > 0 {
		cp.Lines = make([]*salesreturn.ReturnLine, len(sr.Lines))
		for i, line := range sr.Lines {
			lineCopy := *line
			cp.Lines[i] = &lineCopy
		}
	}
	if sr.Metadata != nil {
		cp.Metadata = make(types.Metadata, len(sr.Metadata))
		for k, v := range sr.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

func (s *InMemorySalesReturnStore) Create(ctx context.Context, sr *salesreturn.SalesReturn) error {
	if sr == nil {
		return fmt.Errorf("sales return cannot be nil")
	}
	if err := s.InMemoryStore.Create(ctx, sr.ID, copySalesReturn(sr)); err != nil {
		return ierr.WithError(err).
			WithHint("Sales return already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemorySalesReturnStore) Get(ctx context.Context, id string) (*salesreturn.SalesReturn, error) {
	sr, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("sales return not found").
			WithHintf("Sales return %s was not found", id).
			WithReportableDetails(map[string]any{
				"sales_return_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copySalesReturn(sr), nil
}

func salesReturnFilterFn(ctx context.Context, sr *salesreturn.SalesReturn, filter interface{}) bool {
	f, ok := filter.(*types.SalesReturnFilter)
	if !ok {
		return true
	}

	if sr.TenantID != types.GetTenantID(ctx) {
		return false
	}
	if sr.Status != f.GetStatus() {
		return false
	}
	if f.InvoiceID != "" && sr.InvoiceID != f.InvoiceID {
		return false
	}
	if f.ReturnStatus != nil && sr.ReturnStatus != *f.ReturnStatus {
		return false
	}
	if f.RefundMethod != nil && sr.RefundMethod != *f.RefundMethod {
		return false
	}
	return true
}

func salesReturnSortFn(i, j *salesreturn.SalesReturn) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemorySalesReturnStore) List(ctx context.Context, filter *types.SalesReturnFilter) ([]*salesreturn.SalesReturn, error) {
	returns, err := s.InMemoryStore.List(ctx, filter, salesReturnFilterFn, salesReturnSortFn)
	if err != nil {
		return nil, err
	}

	result := make([]*salesreturn.SalesReturn, len(returns))
	for i, sr := range returns {
		result[i] = copySalesReturn(sr)
	}
	return result, nil
}

func (s *InMemorySalesReturnStore) Count(ctx context.Context, filter *types.SalesReturnFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, salesReturnFilterFn)
}

func (s *InMemorySalesReturnStore) Update(ctx context.Context, sr *salesreturn.SalesReturn) error {
	if err := s.InMemoryStore.Update(ctx, sr.ID, copySalesReturn(sr)); err != nil {
		return ierr.NewError("sales return not found").
			WithHintf("Sales return %s was not found", sr.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemorySalesReturnStore) ListByInvoice(ctx context.Context, invoiceID string) ([]*salesreturn.SalesReturn, error) {
	filter := types.NewNoLimitSalesReturnFilter()
	filter.InvoiceID = invoiceID
	return s.List(ctx, filter)
}
