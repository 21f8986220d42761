package types

import (
	"github.com/samber/lo"

	ierr "github.com/billforge/billforge/internal/errors"
)

// DocumentType determines the numbering series and whether tax applies
type DocumentType string

const (
	DocumentTypeGST       DocumentType = "GST"
	DocumentTypeNonGST    DocumentType = "NON_GST"
	DocumentTypeQuotation DocumentType = "QUOTATION"
)

func (t DocumentType) String() string {
	return string(t)
}

func (t DocumentType) Validate() error {
	allowed := []DocumentType{
		DocumentTypeGST,
		DocumentTypeNonGST,
		DocumentTypeQuotation,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid document type").
			WithHint("Invalid document type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Prefix returns the document number series prefix
func (t DocumentType) Prefix() string {
	switch t {
	case DocumentTypeGST:
		return "INV"
	case DocumentTypeNonGST:
		return "BIL"
	case DocumentTypeQuotation:
		return "QTN"
	default:
		return "DOC"
	}
}

// IsTaxBearing reports whether documents of this type carry GST
func (t DocumentType) IsTaxBearing() bool {
	return t == DocumentTypeGST
}

// InvoiceStatus tracks the lifecycle of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Invalid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CanTransitionTo reports whether the status transition is permitted
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent || target == InvoiceStatusCancelled
	case InvoiceStatusSent:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	default:
		return false
	}
}

// PaymentMode indicates how the customer settles the invoice
type PaymentMode string

const (
	PaymentModeFull    PaymentMode = "FULL"
	PaymentModePartial PaymentMode = "PARTIAL"
)

func (m PaymentMode) String() string {
	return string(m)
}

func (m PaymentMode) Validate() error {
	allowed := []PaymentMode{
		PaymentModeFull,
		PaymentModePartial,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid payment mode").
			WithHint("Invalid payment mode").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
