package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/billforge/billforge/internal/domain/salesreturn"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
)

type salesReturnRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSalesReturnRepository(db *postgres.DB, logger *logger.Logger) salesreturn.Repository {
	return &salesReturnRepository{db: db, logger: logger}
}

const salesReturnColumns = `
	id, return_number, invoice_id, invoice_number, return_status, return_date,
	refund_method, refund_policy, total_refund_amount,
	metadata, tenant_id, status, created_at, updated_at, created_by, updated_by
`

const returnLineColumns = `
	id, sales_return_id, product_ref, returned_quantity, condition, reason,
	unit_price, tax_rate_percent, refund_amount,
	tenant_id, status, created_at, updated_at, created_by, updated_by
`

func (r *salesReturnRepository) Create(ctx context.Context, sr *salesreturn.SalesReturn) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to begin transaction").
			Mark(ierr.ErrDatabase)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
	INSERT INTO sales_returns (%s) VALUES (
		:id, :return_number, :invoice_id, :invoice_number, :return_status, :return_date,
		:refund_method, :refund_policy, :total_refund_amount,
		:metadata, :tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
	)`, salesReturnColumns)

	if _, err := tx.NamedExecContext(ctx, query, sr); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to insert sales return").
			WithReportableDetails(map[string]any{
				"invoice_id": sr.InvoiceID,
			}).
			Mark(ierr.ErrDatabase)
	}

	lineQuery := fmt.Sprintf(`
	INSERT INTO sales_return_lines (%s) VALUES (
		:id, :sales_return_id, :product_ref, :returned_quantity, :condition, :reason,
		:unit_price, :tax_rate_percent, :refund_amount,
		:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
	)`, returnLineColumns)

	for _, line := range sr.Lines {
		if _, err := tx.NamedExecContext(ctx, lineQuery, line); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to insert sales return line").
				WithReportableDetails(map[string]any{
					"sales_return_id": sr.ID,
					"product_ref":     line.ProductRef,
				}).
				Mark(ierr.ErrDatabase)
		}
	}

	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to commit sales return").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *salesReturnRepository) Get(ctx context.Context, id string) (*salesreturn.SalesReturn, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales_returns WHERE id = $1 AND tenant_id = $2`, salesReturnColumns)

	var sr salesreturn.SalesReturn
	err := r.db.GetContext(ctx, &sr, query, id, types.GetTenantID(ctx))
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("sales return not found").
			WithHintf("Sales return %s was not found", id).
			WithReportableDetails(map[string]any{
				"sales_return_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch sales return").
			Mark(ierr.ErrDatabase)
	}

	if err := r.loadLines(ctx, &sr); err != nil {
		return nil, err
	}
	return &sr, nil
}

func (r *salesReturnRepository) loadLines(ctx context.Context, sr *salesreturn.SalesReturn) error {
	query := fmt.Sprintf(`SELECT %s FROM sales_return_lines WHERE sales_return_id = $1 ORDER BY created_at`, returnLineColumns)

	if err := r.db.SelectContext(ctx, &sr.Lines, query, sr.ID); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to fetch sales return lines").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *salesReturnRepository) List(ctx context.Context, filter *types.SalesReturnFilter) ([]*salesreturn.SalesReturn, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales_returns`, salesReturnColumns)
	where, args := r.buildWhere(ctx, filter)
	query += where

	query += " ORDER BY created_at"
	if filter.GetOrder() == "asc" {
		query += " ASC"
	} else {
		query += " DESC"
	}
	if !filter.IsUnlimited() {
		args = append(args, filter.GetLimit(), filter.GetOffset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	returns := make([]*salesreturn.SalesReturn, 0)
	if err := r.db.SelectContext(ctx, &returns, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list sales returns").
			Mark(ierr.ErrDatabase)
	}

	for _, sr := range returns {
		if err := r.loadLines(ctx, sr); err != nil {
			return nil, err
		}
	}
	return returns, nil
}

func (r *salesReturnRepository) Count(ctx context.Context, filter *types.SalesReturnFilter) (int, error) {
	query := `SELECT COUNT(*) FROM sales_returns`
	where, args := r.buildWhere(ctx, filter)
	query += where

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count sales returns").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *salesReturnRepository) buildWhere(ctx context.Context, filter *types.SalesReturnFilter) (string, []interface{}) {
	where := " WHERE tenant_id = $1 AND status = $2"
	args := []interface{}{types.GetTenantID(ctx), filter.GetStatus()}

	if filter.InvoiceID != "" {
		args = append(args, filter.InvoiceID)
		where += fmt.Sprintf(" AND invoice_id = $%d", len(args))
	}
	if filter.ReturnStatus != nil {
		args = append(args, *filter.ReturnStatus)
		where += fmt.Sprintf(" AND return_status = $%d", len(args))
	}
	if filter.RefundMethod != nil {
		args = append(args, *filter.RefundMethod)
		where += fmt.Sprintf(" AND refund_method = $%d", len(args))
	}
	return where, args
}

func (r *salesReturnRepository) Update(ctx context.Context, sr *salesreturn.SalesReturn) error {
	query := `
	UPDATE sales_returns SET
		return_status = :return_status,
		metadata = :metadata,
		status = :status,
		updated_at = :updated_at,
		updated_by = :updated_by
	WHERE id = :id AND tenant_id = :tenant_id
	`

	res, err := r.db.NamedExecContext(ctx, query, sr)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update sales return").
			Mark(ierr.ErrDatabase)
	}

	rows, err := res.RowsAffected()
	if err == nil && rows == 0 {
		return ierr.NewError("sales return not found").
			WithHintf("Sales return %s was not found", sr.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *salesReturnRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*salesreturn.SalesReturn, error) {
	filter := types.NewNoLimitSalesReturnFilter()
	filter.InvoiceID = invoiceID
	return r.List(ctx, filter)
}
