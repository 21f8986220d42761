package invoice

import (
	"time"

	"github.com/billforge/billforge/internal/types"
)

// DocumentSequence tracks the last allocated document number per
// tenant, document type and fiscal period
type DocumentSequence struct {
	TenantID     string             `db:"tenant_id" json:"tenant_id"`
	DocumentType types.DocumentType `db:"document_type" json:"document_type"`
	FiscalPeriod string             `db:"fiscal_period" json:"fiscal_period"`
	LastValue    int64              `db:"last_value" json:"last_value"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updated_at"`
}
