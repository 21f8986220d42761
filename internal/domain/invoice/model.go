package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// Invoice is the fully reconciled monetary document produced by the
// billing engine. Once issued it is immutable except for payment
// updates and status transitions.
type Invoice struct {
	ID            string              `db:"id" json:"id"`
	InvoiceNumber string              `db:"invoice_number" json:"invoice_number"`
	DocumentType  types.DocumentType  `db:"document_type" json:"document_type"`
	FiscalPeriod  string              `db:"fiscal_period" json:"fiscal_period"`
	InvoiceStatus types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`
	InvoiceDate   time.Time           `db:"invoice_date" json:"invoice_date"`

	BuyerName       string `db:"buyer_name" json:"buyer_name"`
	BuyerAddress    string `db:"buyer_address" json:"buyer_address"`
	BuyerPostalCode string `db:"buyer_postal_code" json:"buyer_postal_code"`

	SellerJurisdiction string `db:"seller_jurisdiction" json:"seller_jurisdiction"`
	BuyerJurisdiction  string `db:"buyer_jurisdiction" json:"buyer_jurisdiction"`

	// Order of line items is significant for display only
	LineItems []*LineItem `db:"-" json:"line_items"`

	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	DiscountPercent decimal.Decimal `db:"discount_percent" json:"discount_percent"`
	DiscountAmount  decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	TaxableAmount   decimal.Decimal `db:"taxable_amount" json:"taxable_amount"`

	CGSTTotal decimal.Decimal `db:"cgst_total" json:"cgst_total"`
	SGSTTotal decimal.Decimal `db:"sgst_total" json:"sgst_total"`
	IGSTTotal decimal.Decimal `db:"igst_total" json:"igst_total"`
	TotalTax  decimal.Decimal `db:"total_tax" json:"total_tax"`

	// RoundOff is the signed delta between the rounded grand total and
	// the unrounded sum, always below one minor unit in magnitude
	RoundOff   decimal.Decimal `db:"round_off" json:"round_off"`
	GrandTotal decimal.Decimal `db:"grand_total" json:"grand_total"`

	PaymentMode types.PaymentMode `db:"payment_mode" json:"payment_mode"`
	AmountPaid  decimal.Decimal   `db:"amount_paid" json:"amount_paid"`
	AmountDue   decimal.Decimal   `db:"amount_due" json:"amount_due"`

	Metadata types.Metadata `db:"metadata" json:"metadata,omitempty"`

	types.BaseModel
}

// GetLineItemByProductRef returns the first line item matching the
// given product reference, or nil
func (i *Invoice) GetLineItemByProductRef(productRef string) *LineItem {
	for _, li := range i.LineItems {
		if li.ProductRef == productRef {
			return li
		}
	}
	return nil
}

// IsIntraState reports whether buyer and seller share a jurisdiction
func (i *Invoice) IsIntraState() bool {
	return i.SellerJurisdiction == i.BuyerJurisdiction
}

// Validate checks the reconciliation invariants of a computed invoice
func (i *Invoice) Validate() error {
	if i.GrandTotal.IsNegative() {
		return ierr.NewError("grand total cannot be negative").
			WithHint("Invoice totals failed reconciliation").
			Mark(ierr.ErrValidation)
	}
	if i.AmountDue.IsNegative() {
		return ierr.NewError("amount due cannot be negative").
			WithHint("Invoice totals failed reconciliation").
			Mark(ierr.ErrValidation)
	}
	if i.RoundOff.Abs().GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return ierr.NewError("round off must be below one unit").
			WithHint("Invoice totals failed reconciliation").
			Mark(ierr.ErrValidation)
	}
	return nil
}
