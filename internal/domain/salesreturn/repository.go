package salesreturn

import (
	"context"

	"github.com/billforge/billforge/internal/types"
)

// Repository provides access to sales return storage
type Repository interface {
	Create(ctx context.Context, sr *SalesReturn) error
	Get(ctx context.Context, id string) (*SalesReturn, error)
	List(ctx context.Context, filter *types.SalesReturnFilter) ([]*SalesReturn, error)
	Count(ctx context.Context, filter *types.SalesReturnFilter) (int, error)
	Update(ctx context.Context, sr *SalesReturn) error
	// ListByInvoice returns all returns filed against an invoice,
	// regardless of status
	ListByInvoice(ctx context.Context, invoiceID string) ([]*SalesReturn, error)
}
