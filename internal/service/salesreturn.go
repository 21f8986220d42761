package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/domain/invoice"
	"github.com/billforge/billforge/internal/domain/salesreturn"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// SalesReturnService validates and computes refunds for sales returns
// filed against issued invoices
type SalesReturnService interface {
	CreateSalesReturn(ctx context.Context, req *dto.CreateSalesReturnRequest) (*dto.SalesReturnResponse, error)
	GetSalesReturn(ctx context.Context, id string) (*dto.SalesReturnResponse, error)
	ListSalesReturns(ctx context.Context, filter *types.SalesReturnFilter) (*dto.ListSalesReturnsResponse, error)
	UpdateSalesReturnStatus(ctx context.Context, id string, req *dto.UpdateSalesReturnStatusRequest) (*dto.SalesReturnResponse, error)
}

type salesReturnService struct {
	ServiceParams
}

func NewSalesReturnService(params ServiceParams) SalesReturnService {
	return &salesReturnService{ServiceParams: params}
}

func (s *salesReturnService) CreateSalesReturn(ctx context.Context, req *dto.CreateSalesReturnRequest) (*dto.SalesReturnResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	original, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	if original.DocumentType == types.DocumentTypeQuotation {
		return nil, ierr.NewError("cannot file return against quotation").
			WithHint("Quotations are not sale documents").
			WithReportableDetails(map[string]any{
				"invoice_id":    req.InvoiceID,
				"document_type": original.DocumentType,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	// Returns only make sense against documents that left the building
	if original.InvoiceStatus != types.InvoiceStatusSent && original.InvoiceStatus != types.InvoiceStatusPaid {
		return nil, ierr.NewError("invoice is not returnable in its current status").
			WithHintf("Returns require a sent or paid invoice, got %s", original.InvoiceStatus).
			WithReportableDetails(map[string]any{
				"invoice_id":     req.InvoiceID,
				"invoice_status": original.InvoiceStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	returnedSoFar, err := s.returnedQuantities(ctx, original.ID)
	if err != nil {
		return nil, err
	}

	lines, totalRefund, err := s.computeRefund(ctx, original, req.Lines, returnedSoFar)
	if err != nil {
		return nil, err
	}

	returnDate := time.Now().UTC()
	if req.ReturnDate != nil {
		returnDate = req.ReturnDate.UTC()
	}

	sr := &salesreturn.SalesReturn{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SALES_RETURN),
		ReturnNumber:  types.GenerateShortIDWithPrefix("SR-"),
		InvoiceID:     original.ID,
		InvoiceNumber: original.InvoiceNumber,
		ReturnStatus:  types.SalesReturnStatusPending,
		ReturnDate:    returnDate,

		RefundMethod: req.RefundMethod,
		RefundPolicy: s.refundPolicy(),

		Lines: lines,

		TotalRefundAmount: totalRefund,

		Metadata:  req.Metadata,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}

	for _, line := range sr.Lines {
		line.SalesReturnID = sr.ID
	}

	if err := s.SalesReturnRepo.Create(ctx, sr); err != nil {
		return nil, err
	}

	s.Logger.Infow("created sales return",
		"sales_return_id", sr.ID,
		"invoice_id", sr.InvoiceID,
		"total_refund_amount", sr.TotalRefundAmount,
	)
	return dto.NewSalesReturnResponse(sr), nil
}

// returnedQuantities sums the quantities already returned per product
// across all non rejected returns of the invoice
func (s *salesReturnService) returnedQuantities(ctx context.Context, invoiceID string) (map[string]int64, error) {
	existing, err := s.SalesReturnRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	returned := make(map[string]int64)
	for _, sr := range existing {
		if sr.ReturnStatus == types.SalesReturnStatusRejected {
			continue
		}
		for _, line := range sr.Lines {
			returned[line.ProductRef] += line.ReturnedQuantity
		}
	}
	return returned, nil
}

// computeRefund validates the requested lines against the original
// invoice and computes per line refunds. Lines with zero quantity are
// dropped, unknown products and quantities beyond the remaining
// returnable amount are rejected.
func (s *salesReturnService) computeRefund(
	ctx context.Context,
	original *invoice.Invoice,
	requested []dto.ReturnLineRequest,
	returnedSoFar map[string]int64,
) ([]*salesreturn.ReturnLine, decimal.Decimal, error) {
	originalLines := make(map[string]*invoice.LineItem, len(original.LineItems))
	for _, li := range original.LineItems {
		originalLines[li.ProductRef] = li
	}

	lines := make([]*salesreturn.ReturnLine, 0, len(requested))
	totalRefund := decimal.Zero

	for _, reqLine := range requested {
		if reqLine.ReturnedQuantity == 0 {
			continue
		}

		originalLine, ok := originalLines[reqLine.ProductRef]
		if !ok {
			return nil, decimal.Zero, ierr.NewError("unknown product in return request").
				WithHintf("Product %s is not on invoice %s", reqLine.ProductRef, original.InvoiceNumber).
				WithReportableDetails(map[string]any{
					"product_ref":    reqLine.ProductRef,
					"invoice_number": original.InvoiceNumber,
				}).
				Mark(ierr.ErrValidation)
		}

		remaining := originalLine.Quantity - returnedSoFar[reqLine.ProductRef]
		if reqLine.ReturnedQuantity > remaining {
			return nil, decimal.Zero, ierr.NewError("returned quantity exceeds original quantity").
				WithHintf("Product %s has %d returnable units left", reqLine.ProductRef, remaining).
				WithReportableDetails(map[string]any{
					"product_ref":        reqLine.ProductRef,
					"returned_quantity":  reqLine.ReturnedQuantity,
					"original_quantity":  originalLine.Quantity,
					"already_returned":   returnedSoFar[reqLine.ProductRef],
					"remaining_quantity": remaining,
				}).
				Mark(ierr.ErrValidation)
		}

		refund := s.lineRefund(originalLine, reqLine.ReturnedQuantity)
		totalRefund = totalRefund.Add(refund)

		lines = append(lines, &salesreturn.ReturnLine{
			ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SALES_RETURN_LINE),
			ProductRef: reqLine.ProductRef,

			ReturnedQuantity: reqLine.ReturnedQuantity,
			Condition:        reqLine.Condition,
			Reason:           reqLine.Reason,

			UnitPrice:      originalLine.UnitPrice,
			TaxRatePercent: originalLine.TaxRatePercent,
			RefundAmount:   refund,

			BaseModel: types.GetDefaultBaseModel(ctx),
		})
	}

	if len(lines) == 0 {
		return nil, decimal.Zero, ierr.NewError("no returnable lines in request").
			WithHint("At least one line must have a positive returned quantity").
			Mark(ierr.ErrValidation)
	}

	return lines, totalRefund, nil
}

// lineRefund computes the refund for one returned line under the
// configured refund policy. The default policy refunds the pre tax
// unit rate, the tax inclusive policy adds the tax share of the
// returned units.
func (s *salesReturnService) lineRefund(originalLine *invoice.LineItem, returnedQuantity int64) decimal.Decimal {
	qty := decimal.NewFromInt(returnedQuantity)
	refund := originalLine.UnitPrice.Mul(qty)

	if s.refundPolicy() == types.RefundPolicyTaxInclusive && originalLine.Quantity > 0 {
		share := qty.Div(decimal.NewFromInt(originalLine.Quantity))
		refund = refund.Add(originalLine.TaxAmount.Mul(share))
	}
	return refund
}

func (s *salesReturnService) refundPolicy() types.RefundPolicy {
	if s.Config.Billing.RefundPolicy == "" {
		return types.RefundPolicyPreTax
	}
	return s.Config.Billing.RefundPolicy
}

func (s *salesReturnService) GetSalesReturn(ctx context.Context, id string) (*dto.SalesReturnResponse, error) {
	sr, err := s.SalesReturnRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewSalesReturnResponse(sr), nil
}

func (s *salesReturnService) ListSalesReturns(ctx context.Context, filter *types.SalesReturnFilter) (*dto.ListSalesReturnsResponse, error) {
	if filter == nil {
		filter = types.NewSalesReturnFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	returns, err := s.SalesReturnRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.SalesReturnRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SalesReturnResponse, len(returns))
	for i, sr := range returns {
		items[i] = dto.NewSalesReturnResponse(sr)
	}

	return &dto.ListSalesReturnsResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *salesReturnService) UpdateSalesReturnStatus(ctx context.Context, id string, req *dto.UpdateSalesReturnStatusRequest) (*dto.SalesReturnResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sr, err := s.SalesReturnRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !sr.ReturnStatus.CanTransitionTo(req.ReturnStatus) {
		return nil, ierr.NewError("invalid sales return status transition").
			WithHintf("Cannot transition sales return from %s to %s", sr.ReturnStatus, req.ReturnStatus).
			WithReportableDetails(map[string]any{
				"sales_return_id": id,
				"from":            sr.ReturnStatus,
				"to":              req.ReturnStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	sr.ReturnStatus = req.ReturnStatus
	sr.UpdatedAt = time.Now().UTC()
	sr.UpdatedBy = types.GetUserID(ctx)

	if err := s.SalesReturnRepo.Update(ctx, sr); err != nil {
		return nil, err
	}

	s.Logger.Infow("updated sales return status",
		"sales_return_id", id,
		"return_status", req.ReturnStatus,
	)
	return dto.NewSalesReturnResponse(sr), nil
}
