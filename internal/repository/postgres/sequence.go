package postgres

import (
	"context"

	"github.com/billforge/billforge/internal/domain/invoice"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
)

type sequenceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSequenceRepository(db *postgres.DB, logger *logger.Logger) invoice.SequenceRepository {
	return &sequenceRepository{db: db, logger: logger}
}

// NextValue allocates the next document number in a single atomic
// upsert. The RETURNING clause guarantees no two callers observe the
// same value even under contention.
func (r *sequenceRepository) NextValue(ctx context.Context, documentType types.DocumentType, fiscalPeriod string) (int64, error) {
	query := `
	INSERT INTO document_sequences (tenant_id, document_type, fiscal_period, last_value, created_at, updated_at)
	VALUES ($1, $2, $3, 1, NOW(), NOW())
	ON CONFLICT (tenant_id, document_type, fiscal_period)
	DO UPDATE SET last_value = document_sequences.last_value + 1, updated_at = NOW()
	RETURNING last_value
	`

	var lastValue int64
	err := r.db.QueryRowxContext(ctx, query, types.GetTenantID(ctx), documentType, fiscalPeriod).Scan(&lastValue)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to allocate document number").
			WithReportableDetails(map[string]any{
				"document_type": documentType,
				"fiscal_period": fiscalPeriod,
			}).
			Mark(ierr.ErrSequenceConflict)
	}
	return lastValue, nil
}
