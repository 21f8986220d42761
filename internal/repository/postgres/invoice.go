package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/billforge/billforge/internal/domain/invoice"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

const invoiceColumns = `
	id, invoice_number, document_type, fiscal_period, invoice_status, invoice_date,
	buyer_name, buyer_address, buyer_postal_code,
	seller_jurisdiction, buyer_jurisdiction,
	subtotal, discount_percent, discount_amount, taxable_amount,
	cgst_total, sgst_total, igst_total, total_tax,
	round_off, grand_total,
	payment_mode, amount_paid, amount_due,
	metadata, tenant_id, status, created_at, updated_at, created_by, updated_by
`

const lineItemColumns = `
	id, invoice_id, product_ref, name, unit_price, quantity,
	discount_percent, tax_rate_percent,
	gross_amount, discount_amount, taxable_amount,
	cgst, sgst, igst, tax_amount, total_amount,
	tenant_id, status, created_at, updated_at, created_by, updated_by
`

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to begin transaction").
			Mark(ierr.ErrDatabase)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
	INSERT INTO invoices (%s) VALUES (
		:id, :invoice_number, :document_type, :fiscal_period, :invoice_status, :invoice_date,
		:buyer_name, :buyer_address, :buyer_postal_code,
		:seller_jurisdiction, :buyer_jurisdiction,
		:subtotal, :discount_percent, :discount_amount, :taxable_amount,
		:cgst_total, :sgst_total, :igst_total, :total_tax,
		:round_off, :grand_total,
		:payment_mode, :amount_paid, :amount_due,
		:metadata, :tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
	)`, invoiceColumns)

	if _, err := tx.NamedExecContext(ctx, query, inv); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to insert invoice").
			WithReportableDetails(map[string]any{
				"invoice_number": inv.InvoiceNumber,
			}).
			Mark(ierr.ErrDatabase)
	}

	lineQuery := fmt.Sprintf(`
	INSERT INTO invoice_line_items (%s) VALUES (
		:id, :invoice_id, :product_ref, :name, :unit_price, :quantity,
		:discount_percent, :tax_rate_percent,
		:gross_amount, :discount_amount, :taxable_amount,
		:cgst, :sgst, :igst, :tax_amount, :total_amount,
		:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
	)`, lineItemColumns)

	for _, li := range inv.LineItems {
		if _, err := tx.NamedExecContext(ctx, lineQuery, li); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to insert invoice line item").
				WithReportableDetails(map[string]any{
					"invoice_id":  inv.ID,
					"product_ref": li.ProductRef,
				}).
				Mark(ierr.ErrDatabase)
		}
	}

	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to commit invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = $1 AND tenant_id = $2`, invoiceColumns)

	var inv invoice.Invoice
	err := r.db.GetContext(ctx, &inv, query, id, types.GetTenantID(ctx))
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice %s was not found", id).
			WithReportableDetails(map[string]any{
				"invoice_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch invoice").
			Mark(ierr.ErrDatabase)
	}

	if err := r.loadLineItems(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*invoice.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE invoice_number = $1 AND tenant_id = $2`, invoiceColumns)

	var inv invoice.Invoice
	err := r.db.GetContext(ctx, &inv, query, invoiceNumber, types.GetTenantID(ctx))
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice %s was not found", invoiceNumber).
			WithReportableDetails(map[string]any{
				"invoice_number": invoiceNumber,
			}).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch invoice").
			Mark(ierr.ErrDatabase)
	}

	if err := r.loadLineItems(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) loadLineItems(ctx context.Context, inv *invoice.Invoice) error {
	query := fmt.Sprintf(`SELECT %s FROM invoice_line_items WHERE invoice_id = $1 ORDER BY created_at`, lineItemColumns)

	if err := r.db.SelectContext(ctx, &inv.LineItems, query, inv.ID); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to fetch invoice line items").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices`, invoiceColumns)
	where, args := r.buildWhere(ctx, filter)
	query += where

	query += fmt.Sprintf(" ORDER BY %s %s", sortColumn(filter.GetSort()), sortOrder(filter.GetOrder()))
	if !filter.IsUnlimited() {
		args = append(args, filter.GetLimit(), filter.GetOffset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	invoices := make([]*invoice.Invoice, 0)
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}

	for _, inv := range invoices {
		if err := r.loadLineItems(ctx, inv); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	query := `SELECT COUNT(*) FROM invoices`
	where, args := r.buildWhere(ctx, filter)
	query += where

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *invoiceRepository) buildWhere(ctx context.Context, filter *types.InvoiceFilter) (string, []interface{}) {
	where := " WHERE tenant_id = $1 AND status = $2"
	args := []interface{}{types.GetTenantID(ctx), filter.GetStatus()}

	if filter.InvoiceNumber != "" {
		args = append(args, filter.InvoiceNumber)
		where += fmt.Sprintf(" AND invoice_number = $%d", len(args))
	}
	if filter.DocumentType != nil {
		args = append(args, *filter.DocumentType)
		where += fmt.Sprintf(" AND document_type = $%d", len(args))
	}
	if filter.InvoiceStatus != nil {
		args = append(args, *filter.InvoiceStatus)
		where += fmt.Sprintf(" AND invoice_status = $%d", len(args))
	}
	if filter.FiscalPeriod != "" {
		args = append(args, filter.FiscalPeriod)
		where += fmt.Sprintf(" AND fiscal_period = $%d", len(args))
	}
	if filter.BuyerName != "" {
		args = append(args, "%"+filter.BuyerName+"%")
		where += fmt.Sprintf(" AND buyer_name ILIKE $%d", len(args))
	}
	return where, args
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	query := `
	UPDATE invoices SET
		invoice_status = :invoice_status,
		payment_mode = :payment_mode,
		amount_paid = :amount_paid,
		amount_due = :amount_due,
		metadata = :metadata,
		status = :status,
		updated_at = :updated_at,
		updated_by = :updated_by
	WHERE id = :id AND tenant_id = :tenant_id
	`

	res, err := r.db.NamedExecContext(ctx, query, inv)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}

	rows, err := res.RowsAffected()
	if err == nil && rows == 0 {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice %s was not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func sortColumn(sort string) string {
	switch sort {
	case "invoice_number", "invoice_date", "grand_total", "created_at", "updated_at":
		return sort
	default:
		return "created_at"
	}
}

func sortOrder(order string) string {
	if order == "asc" {
		return "ASC"
	}
	return "DESC"
}
