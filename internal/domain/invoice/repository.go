package invoice

import (
	"context"

	"github.com/billforge/billforge/internal/types"
)

// Repository provides access to invoice storage
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)
	Update(ctx context.Context, inv *Invoice) error
}

// SequenceRepository allocates monotonically increasing document
// numbers per (tenant, document type, fiscal period). NextValue must
// be atomic, concurrent callers never observe the same value. On
// contention it returns ErrSequenceConflict and callers retry.
type SequenceRepository interface {
	NextValue(ctx context.Context, documentType types.DocumentType, fiscalPeriod string) (int64, error)
}
