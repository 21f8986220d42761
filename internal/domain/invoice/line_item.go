package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/billforge/billforge/internal/types"
)

// LineItem is a single computed invoice line. The monetary fields are
// derived by the billing engine and never set by callers directly.
type LineItem struct {
	ID         string `db:"id" json:"id"`
	InvoiceID  string `db:"invoice_id" json:"invoice_id"`
	ProductRef string `db:"product_ref" json:"product_ref"`
	Name       string `db:"name" json:"name"`

	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Quantity  int64           `db:"quantity" json:"quantity"`

	DiscountPercent decimal.Decimal `db:"discount_percent" json:"discount_percent"`
	TaxRatePercent  decimal.Decimal `db:"tax_rate_percent" json:"tax_rate_percent"`

	GrossAmount    decimal.Decimal `db:"gross_amount" json:"gross_amount"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	TaxableAmount  decimal.Decimal `db:"taxable_amount" json:"taxable_amount"`

	CGST      decimal.Decimal `db:"cgst" json:"cgst"`
	SGST      decimal.Decimal `db:"sgst" json:"sgst"`
	IGST      decimal.Decimal `db:"igst" json:"igst"`
	TaxAmount decimal.Decimal `db:"tax_amount" json:"tax_amount"`

	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`

	types.BaseModel
}
