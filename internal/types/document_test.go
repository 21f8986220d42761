package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentTypePrefix(t *testing.T) {
	assert.Equal(t, "INV", DocumentTypeGST.Prefix())
	assert.Equal(t, "BIL", DocumentTypeNonGST.Prefix())
	assert.Equal(t, "QTN", DocumentTypeQuotation.Prefix())
}

func TestDocumentTypeValidate(t *testing.T) {
	assert.NoError(t, DocumentTypeGST.Validate())
	assert.NoError(t, DocumentTypeQuotation.Validate())
	assert.Error(t, DocumentType("BOGUS").Validate())
	assert.Error(t, DocumentType("").Validate())
}

func TestOnlyGSTBearsTax(t *testing.T) {
	assert.True(t, DocumentTypeGST.IsTaxBearing())
	assert.False(t, DocumentTypeNonGST.IsTaxBearing())
	assert.False(t, DocumentTypeQuotation.IsTaxBearing())
}

func TestInvoiceStatusTransitions(t *testing.T) {
	tests := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{InvoiceStatusDraft, InvoiceStatusSent, true},
		{InvoiceStatusDraft, InvoiceStatusCancelled, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusSent, InvoiceStatusPaid, true},
		{InvoiceStatusSent, InvoiceStatusCancelled, true},
		{InvoiceStatusSent, InvoiceStatusDraft, false},
		{InvoiceStatusPaid, InvoiceStatusCancelled, false},
		{InvoiceStatusCancelled, InvoiceStatusSent, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSalesReturnStatusTransitions(t *testing.T) {
	tests := []struct {
		from    SalesReturnStatus
		to      SalesReturnStatus
		allowed bool
	}{
		{SalesReturnStatusPending, SalesReturnStatusApproved, true},
		{SalesReturnStatusPending, SalesReturnStatusRejected, true},
		{SalesReturnStatusPending, SalesReturnStatusProcessed, false},
		{SalesReturnStatusApproved, SalesReturnStatusProcessed, true},
		{SalesReturnStatusApproved, SalesReturnStatusRejected, false},
		{SalesReturnStatusProcessed, SalesReturnStatusApproved, false},
		{SalesReturnStatusRejected, SalesReturnStatusApproved, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}

	assert.True(t, SalesReturnStatusProcessed.IsTerminal())
	assert.True(t, SalesReturnStatusRejected.IsTerminal())
	assert.False(t, SalesReturnStatusPending.IsTerminal())
}
