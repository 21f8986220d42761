package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/billforge/billforge/internal/domain/invoice"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/billforge/billforge/internal/validator"
)

// CreateInvoiceRequest represents the request payload for computing
// and issuing a new invoice
type CreateInvoiceRequest struct {
	// document_type selects the numbering series and whether tax applies
	DocumentType types.DocumentType `json:"document_type" validate:"required"`

	// invoice_date defaults to now when omitted
	InvoiceDate *time.Time `json:"invoice_date,omitempty"`

	BuyerName       string `json:"buyer_name" validate:"required"`
	BuyerAddress    string `json:"buyer_address,omitempty"`
	BuyerPostalCode string `json:"buyer_postal_code,omitempty"`

	// discount_percent is the invoice level discount applied on top of
	// line level discounts
	DiscountPercent decimal.Decimal `json:"discount_percent"`

	// payment_mode defaults to FULL when omitted
	PaymentMode types.PaymentMode `json:"payment_mode,omitempty"`

	// amount_paid is the declared payment, only honored in PARTIAL mode
	AmountPaid decimal.Decimal `json:"amount_paid"`

	LineItems []CreateLineItemRequest `json:"line_items" validate:"required,min=1"`

	Metadata types.Metadata `json:"metadata,omitempty"`
}

// CreateLineItemRequest represents one invoice line in the request
type CreateLineItemRequest struct {
	ProductRef string `json:"product_ref" validate:"required"`
	Name       string `json:"name,omitempty"`

	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity" validate:"required"`

	DiscountPercent decimal.Decimal `json:"discount_percent"`

	// tax_rate_percent falls back to the configured default when omitted
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent,omitempty"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.DocumentType.Validate(); err != nil {
		return err
	}

	if r.PaymentMode != "" {
		if err := r.PaymentMode.Validate(); err != nil {
			return err
		}
	}

	if r.AmountPaid.IsNegative() {
		return ierr.NewError("amount_paid must be non-negative").
			WithHint("Declared payment cannot be negative").
			WithReportableDetails(map[string]any{
				"amount_paid": r.AmountPaid.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	for i, li := range r.LineItems {
		if err := li.Validate(); err != nil {
			return ierr.WithError(err).
				WithHintf("Line item %d is invalid", i).
				WithReportableDetails(map[string]any{
					"index":       i,
					"product_ref": li.ProductRef,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

func (r *CreateLineItemRequest) Validate() error {
	if r.Quantity <= 0 {
		return ierr.NewError("quantity must be positive").
			WithHint("Quantity must be greater than zero").
			WithReportableDetails(map[string]any{
				"quantity": r.Quantity,
			}).
			Mark(ierr.ErrValidation)
	}

	if r.UnitPrice.IsNegative() {
		return ierr.NewError("unit_price must be non-negative").
			WithHint("Unit price cannot be negative").
			WithReportableDetails(map[string]any{
				"unit_price": r.UnitPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// GetPaymentMode returns the declared payment mode defaulting to FULL
func (r *CreateInvoiceRequest) GetPaymentMode() types.PaymentMode {
	if r.PaymentMode == "" {
		return types.PaymentModeFull
	}
	return r.PaymentMode
}

// UpdateInvoiceStatusRequest represents a lifecycle transition request
type UpdateInvoiceStatusRequest struct {
	InvoiceStatus types.InvoiceStatus `json:"invoice_status" validate:"required"`
}

func (r *UpdateInvoiceStatusRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.InvoiceStatus.Validate()
}

// RecordPaymentRequest represents an additional payment against an
// issued invoice
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

func (r *RecordPaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Payment amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"amount": r.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	*invoice.Invoice
}

// NewInvoiceResponse creates a new invoice response from an invoice
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{Invoice: inv}
}

// ListInvoicesResponse represents a paginated list of invoices
type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]
