package memory

import (
	"context"
	"fmt"
	"strings"

	ierr "github.com/billforge/billforge/internal/errors"

	"github.com/billforge/billforge/internal/domain/invoice"
	"github.com/billforge/billforge/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

// copyInvoice returns a deep copy so stored state cannot be mutated
// through returned pointers
func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}

	cp := *inv
	if len(inv.LineItems) > 0 {
		cp.LineItems = make([]*invoice.LineItem, len(inv.LineItems))
		for i, li := range inv.LineItems {
			liCopy := *li
			cp.LineItems[i] = &liCopy
		}
	}
	if inv.Metadata != nil {
		cp.Metadata = make(types.Metadata, len(inv.Metadata))
		for k, v := range inv.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return fmt.Errorf("invoice cannot be nil")
	}
	if err := s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return ierr.WithError(err).
			WithHint("Invoice already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice %s was not found", id).
			WithReportableDetails(map[string]any{
				"invoice_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.InvoiceNumber == invoiceNumber && inv.TenantID == types.GetTenantID(ctx)
	}, nil)
	if err != nil || len(invoices) == 0 {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice %s was not found", invoiceNumber).
			WithReportableDetails(map[string]any{
				"invoice_number": invoiceNumber,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(invoices[0]), nil
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	f, ok := filter.(*types.InvoiceFilter)
	if !ok {
		return true
	}

	if inv.TenantID != types.GetTenantID(ctx) {
		return false
	}
	if inv.Status != f.GetStatus() {
		return false
	}
	if f.InvoiceNumber != "" && inv.InvoiceNumber != f.InvoiceNumber {
		return false
	}
	if f.DocumentType != nil && inv.DocumentType != *f.DocumentType {
		return false
	}
	if f.InvoiceStatus != nil && inv.InvoiceStatus != *f.InvoiceStatus {
		return false
	}
	if f.FiscalPeriod != "" && inv.FiscalPeriod != f.FiscalPeriod {
		return false
	}
	if f.BuyerName != "" && !strings.Contains(strings.ToLower(inv.BuyerName), strings.ToLower(f.BuyerName)) {
		return false
	}
	return true
}

func invoiceSortFn(i, j *invoice.Invoice) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, err
	}

	result := make([]*invoice.Invoice, len(invoices))
	for i, inv := range invoices {
		result[i] = copyInvoice(inv)
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if err := s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice %s was not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
