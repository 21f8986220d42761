package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billforge/billforge/internal/domain/invoice"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

func testInvoice(ctx context.Context, id, number string) *invoice.Invoice {
	return &invoice.Invoice{
		ID:            id,
		InvoiceNumber: number,
		DocumentType:  types.DocumentTypeGST,
		FiscalPeriod:  "2025-26",
		InvoiceStatus: types.InvoiceStatusDraft,
		InvoiceDate:   time.Now().UTC(),
		BuyerName:     "Sharma Traders",
		LineItems: []*invoice.LineItem{
			{
				ID:         id + "_line",
				InvoiceID:  id,
				ProductRef: "prod-1",
				UnitPrice:  decimal.NewFromInt(1000),
				Quantity:   2,
				BaseModel:  types.GetDefaultBaseModel(ctx),
			},
		},
		GrandTotal: decimal.NewFromInt(2360),
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}
}

func TestInvoiceStoreRoundTrip(t *testing.T) {
	store := NewInMemoryInvoiceStore()
	ctx := types.SetTenantID(context.Background(), types.DefaultTenantID)

	inv := testInvoice(ctx, "inv_1", "INV/2025-26/00001")
	require.NoError(t, store.Create(ctx, inv))

	got, err := store.Get(ctx, "inv_1")
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, got.InvoiceNumber)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "prod-1", got.LineItems[0].ProductRef)

	byNumber, err := store.GetByInvoiceNumber(ctx, "INV/2025-26/00001")
	require.NoError(t, err)
	assert.Equal(t, "inv_1", byNumber.ID)
}

func TestInvoiceStoreReturnsCopies(t *testing.T) {
	store := NewInMemoryInvoiceStore()
	ctx := types.SetTenantID(context.Background(), types.DefaultTenantID)

	require.NoError(t, store.Create(ctx, testInvoice(ctx, "inv_1", "INV/2025-26/00001")))

	got, err := store.Get(ctx, "inv_1")
	require.NoError(t, err)

	// Mutating the returned value must not leak into the store
	got.BuyerName = "changed"
	got.LineItems[0].ProductRef = "changed"

	fresh, err := store.Get(ctx, "inv_1")
	require.NoError(t, err)
	assert.Equal(t, "Sharma Traders", fresh.BuyerName)
	assert.Equal(t, "prod-1", fresh.LineItems[0].ProductRef)
}

func TestInvoiceStoreNotFound(t *testing.T) {
	store := NewInMemoryInvoiceStore()
	ctx := types.SetTenantID(context.Background(), types.DefaultTenantID)

	_, err := store.Get(ctx, "inv_missing")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestInvoiceStoreListFilters(t *testing.T) {
	store := NewInMemoryInvoiceStore()
	ctx := types.SetTenantID(context.Background(), types.DefaultTenantID)

	gst := testInvoice(ctx, "inv_1", "INV/2025-26/00001")
	nonGST := testInvoice(ctx, "inv_2", "BIL/2025-26/00001")
	nonGST.DocumentType = types.DocumentTypeNonGST
	require.NoError(t, store.Create(ctx, gst))
	require.NoError(t, store.Create(ctx, nonGST))

	filter := types.NewInvoiceFilter()
	filter.DocumentType = &gst.DocumentType

	invoices, err := store.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "inv_1", invoices[0].ID)

	count, err := store.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
