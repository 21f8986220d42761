package salesreturn

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/billforge/billforge/internal/types"
)

// SalesReturn references an issued invoice and records the lines the
// buyer sent back together with the computed refund. The engine only
// computes amounts, status transitions are driven by callers.
type SalesReturn struct {
	ID            string                  `db:"id" json:"id"`
	ReturnNumber  string                  `db:"return_number" json:"return_number"`
	InvoiceID     string                  `db:"invoice_id" json:"invoice_id"`
	InvoiceNumber string                  `db:"invoice_number" json:"invoice_number"`
	ReturnStatus  types.SalesReturnStatus `db:"return_status" json:"return_status"`
	ReturnDate    time.Time               `db:"return_date" json:"return_date"`

	RefundMethod types.RefundMethod `db:"refund_method" json:"refund_method"`
	RefundPolicy types.RefundPolicy `db:"refund_policy" json:"refund_policy"`

	Lines []*ReturnLine `db:"-" json:"lines"`

	TotalRefundAmount decimal.Decimal `db:"total_refund_amount" json:"total_refund_amount"`

	Metadata types.Metadata `db:"metadata" json:"metadata,omitempty"`

	types.BaseModel
}

// ReturnLine is one returned line with its computed refund. The unit
// price and tax rate are snapshots taken from the original invoice
// line at computation time.
type ReturnLine struct {
	ID            string `db:"id" json:"id"`
	SalesReturnID string `db:"sales_return_id" json:"sales_return_id"`
	ProductRef    string `db:"product_ref" json:"product_ref"`

	ReturnedQuantity int64  `db:"returned_quantity" json:"returned_quantity"`
	Condition        string `db:"condition" json:"condition,omitempty"`
	Reason           string `db:"reason" json:"reason,omitempty"`

	UnitPrice      decimal.Decimal `db:"unit_price" json:"unit_price"`
	TaxRatePercent decimal.Decimal `db:"tax_rate_percent" json:"tax_rate_percent"`
	RefundAmount   decimal.Decimal `db:"refund_amount" json:"refund_amount"`

	types.BaseModel
}
