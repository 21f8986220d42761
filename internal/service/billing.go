package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/domain/invoice"
	"github.com/billforge/billforge/internal/domain/tax"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

var hundred = decimal.NewFromInt(100)

// BillingService computes, issues and manages invoices
type BillingService interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	UpdateInvoiceStatus(ctx context.Context, id string, req *dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error)
	RecordPayment(ctx context.Context, id string, req *dto.RecordPaymentRequest) (*dto.InvoiceResponse, error)
}

type billingService struct {
	ServiceParams
	resolver  *tax.Resolver
	numbering NumberingService
}

func NewBillingService(params ServiceParams) BillingService {
	rules := make([]tax.Rule, 0, len(params.Config.Billing.JurisdictionRules))
	for _, r := range params.Config.Billing.JurisdictionRules {
		rules = append(rules, tax.Rule{
			Key:            r.Key,
			PostalPrefixes: r.PostalPrefixes,
			NameSubstrings: r.NameSubstrings,
		})
	}

	return &billingService{
		ServiceParams: params,
		resolver:      tax.NewResolver(rules),
		numbering:     NewNumberingService(params),
	}
}

func (s *billingService) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if len(s.Config.Billing.JurisdictionRules) == 0 {
		return nil, ierr.NewError("jurisdiction rule table is empty").
			WithHint("Billing is not configured with jurisdiction rules").
			Mark(ierr.ErrConfiguration)
	}

	invoiceDate := time.Now().UTC()
	if req.InvoiceDate != nil {
		invoiceDate = req.InvoiceDate.UTC()
	}
	fiscalPeriod := types.FiscalPeriodFromTime(invoiceDate)

	sellerJurisdiction := s.resolver.Resolve(s.Config.Billing.SellerPostalCode, s.Config.Billing.SellerState)
	buyerJurisdiction := s.resolver.Resolve(req.BuyerPostalCode, req.BuyerAddress)

	inv, err := s.computeTotals(ctx, req, invoiceDate, fiscalPeriod, sellerJurisdiction, buyerJurisdiction)
	if err != nil {
		return nil, err
	}

	// Numbering happens exactly once per successful computation and is
	// never recomputed if a later stage fails
	number, err := s.numbering.AllocateNumber(ctx, req.DocumentType, fiscalPeriod)
	if err != nil {
		return nil, err
	}
	inv.InvoiceNumber = number

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"document_type", inv.DocumentType,
		"grand_total", inv.GrandTotal,
	)

	return dto.NewInvoiceResponse(inv), nil
}

// computeTotals runs the per line calculation and the aggregate
// reconciliation. It either returns a fully reconciled invoice or an
// error, never a partial result.
func (s *billingService) computeTotals(
	ctx context.Context,
	req *dto.CreateInvoiceRequest,
	invoiceDate time.Time,
	fiscalPeriod string,
	sellerJurisdiction, buyerJurisdiction string,
) (*invoice.Invoice, error) {
	invoiceID := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE)

	subtotal := decimal.Zero
	lineDiscountTotal := decimal.Zero
	taxTotals := tax.ZeroBreakdown()

	lineItems := make([]*invoice.LineItem, 0, len(req.LineItems))
	for i, li := range req.LineItems {
		computed, err := s.computeLine(li, req.DocumentType, sellerJurisdiction, buyerJurisdiction)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Line item %d failed computation", i).
				WithReportableDetails(map[string]any{
					"index":       i,
					"product_ref": li.ProductRef,
				}).
				Mark(ierr.ErrValidation)
		}

		computed.InvoiceID = invoiceID
		computed.BaseModel = types.GetDefaultBaseModel(ctx)
		lineItems = append(lineItems, computed)

		subtotal = subtotal.Add(computed.GrossAmount)
		lineDiscountTotal = lineDiscountTotal.Add(computed.DiscountAmount)
		taxTotals = taxTotals.Add(tax.Breakdown{CGST: computed.CGST, SGST: computed.SGST, IGST: computed.IGST})
	}

	// The invoice level discount applies to the sum of line taxable
	// amounts. It never retroactively reduces the per line tax already
	// computed above.
	invoiceDiscountPercent, err := s.normalizePercent(req.DiscountPercent, "discount_percent")
	if err != nil {
		return nil, err
	}
	lineTaxableSum := subtotal.Sub(lineDiscountTotal)
	invoiceDiscountAmount := lineTaxableSum.Mul(invoiceDiscountPercent).Div(hundred)
	taxableAmount := lineTaxableSum.Sub(invoiceDiscountAmount)

	totalTax := taxTotals.Total()
	unrounded := taxableAmount.Add(totalTax)
	grandTotal := unrounded.Round(2)
	roundOff := grandTotal.Sub(unrounded)

	inv := &invoice.Invoice{
		ID:            invoiceID,
		DocumentType:  req.DocumentType,
		FiscalPeriod:  fiscalPeriod,
		InvoiceStatus: types.InvoiceStatusDraft,
		InvoiceDate:   invoiceDate,

		BuyerName:       req.BuyerName,
		BuyerAddress:    req.BuyerAddress,
		BuyerPostalCode: req.BuyerPostalCode,

		SellerJurisdiction: sellerJurisdiction,
		BuyerJurisdiction:  buyerJurisdiction,

		LineItems: lineItems,

		Subtotal:        subtotal,
		DiscountPercent: invoiceDiscountPercent,
		DiscountAmount:  invoiceDiscountAmount,
		TaxableAmount:   taxableAmount,

		CGSTTotal: taxTotals.CGST,
		SGSTTotal: taxTotals.SGST,
		IGSTTotal: taxTotals.IGST,
		TotalTax:  totalTax,

		RoundOff:   roundOff,
		GrandTotal: grandTotal,

		Metadata:  req.Metadata,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}

	s.reconcilePayment(inv, req)

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// computeLine derives the monetary fields of a single line. The
// computation order is fixed, later stages depend on earlier ones for
// rounding equivalence with existing data.
func (s *billingService) computeLine(
	li dto.CreateLineItemRequest,
	documentType types.DocumentType,
	sellerJurisdiction, buyerJurisdiction string,
) (*invoice.LineItem, error) {
	if err := li.Validate(); err != nil {
		return nil, err
	}

	discountPercent, err := s.normalizePercent(li.DiscountPercent, "discount_percent")
	if err != nil {
		return nil, err
	}

	taxRate := decimal.NewFromFloat(s.Config.Billing.DefaultTaxRatePercent)
	if li.TaxRatePercent != nil {
		taxRate, err = s.normalizePercent(*li.TaxRatePercent, "tax_rate_percent")
		if err != nil {
			return nil, err
		}
	}

	grossAmount := li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
	discountAmount := grossAmount.Mul(discountPercent).Div(hundred)
	taxableAmount := grossAmount.Sub(discountAmount)

	taxAmount := decimal.Zero
	if documentType.IsTaxBearing() {
		taxAmount = taxableAmount.Mul(taxRate).Div(hundred)
	}

	breakdown := tax.Split(taxAmount, sellerJurisdiction, buyerJurisdiction)

	return &invoice.LineItem{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
		ProductRef: li.ProductRef,
		Name:       li.Name,

		UnitPrice: li.UnitPrice,
		Quantity:  li.Quantity,

		DiscountPercent: discountPercent,
		TaxRatePercent:  taxRate,

		GrossAmount:    grossAmount,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxableAmount,

		CGST:      breakdown.CGST,
		SGST:      breakdown.SGST,
		IGST:      breakdown.IGST,
		TaxAmount: taxAmount,

		TotalAmount: taxableAmount.Add(taxAmount),
	}, nil
}

// normalizePercent applies the configured discount policy to an out of
// range percent, clamping it to [0, 100] or rejecting it
func (s *billingService) normalizePercent(pct decimal.Decimal, field string) (decimal.Decimal, error) {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		if s.Config.Billing.DiscountPolicy == types.DiscountPolicyStrict {
			return decimal.Zero, ierr.NewError("percent out of range").
				WithHintf("%s must be between 0 and 100", field).
				WithReportableDetails(map[string]any{
					"field": field,
					"value": pct.String(),
				}).
				Mark(ierr.ErrValidation)
		}
		if pct.IsNegative() {
			return decimal.Zero, nil
		}
		return hundred, nil
	}
	return pct, nil
}

func (s *billingService) reconcilePayment(inv *invoice.Invoice, req *dto.CreateInvoiceRequest) {
	inv.PaymentMode = req.GetPaymentMode()

	switch inv.PaymentMode {
	case types.PaymentModePartial:
		inv.AmountPaid = req.AmountPaid
		due := inv.GrandTotal.Sub(req.AmountPaid)
		if due.IsNegative() {
			// Overpayment is not tracked as a credit balance
			due = decimal.Zero
		}
		inv.AmountDue = due
	default:
		inv.AmountPaid = inv.GrandTotal
		inv.AmountDue = decimal.Zero
	}
}

func (s *billingService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	cacheKey := cache.GenerateKey(cache.PrefixInvoice, types.GetTenantID(ctx), id)
	if cached, found := s.Cache.Get(ctx, cacheKey); found {
		if inv, ok := cached.(*invoice.Invoice); ok {
			return dto.NewInvoiceResponse(inv), nil
		}
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, cacheKey, inv, cache.DefaultExpiration)
	return dto.NewInvoiceResponse(inv), nil
}

func (s *billingService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		items[i] = dto.NewInvoiceResponse(inv)
	}

	return &dto.ListInvoicesResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *billingService) UpdateInvoiceStatus(ctx context.Context, id string, req *dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !inv.InvoiceStatus.CanTransitionTo(req.InvoiceStatus) {
		return nil, ierr.NewError("invalid invoice status transition").
			WithHintf("Cannot transition invoice from %s to %s", inv.InvoiceStatus, req.InvoiceStatus).
			WithReportableDetails(map[string]any{
				"invoice_id": id,
				"from":       inv.InvoiceStatus,
				"to":         req.InvoiceStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	inv.InvoiceStatus = req.InvoiceStatus
	inv.UpdatedAt = time.Now().UTC()
	inv.UpdatedBy = types.GetUserID(ctx)

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixInvoice, types.GetTenantID(ctx), id))

	s.Logger.Infow("updated invoice status",
		"invoice_id", id,
		"invoice_status", req.InvoiceStatus,
	)
	return dto.NewInvoiceResponse(inv), nil
}

func (s *billingService) RecordPayment(ctx context.Context, id string, req *dto.RecordPaymentRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.InvoiceStatus == types.InvoiceStatusCancelled {
		return nil, ierr.NewError("cannot record payment on cancelled invoice").
			WithHint("The invoice is cancelled").
			WithReportableDetails(map[string]any{
				"invoice_id": id,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	inv.AmountPaid = inv.AmountPaid.Add(req.Amount)
	due := inv.GrandTotal.Sub(inv.AmountPaid)
	if due.IsNegative() {
		due = decimal.Zero
	}
	inv.AmountDue = due
	if inv.AmountDue.IsZero() && inv.InvoiceStatus == types.InvoiceStatusSent {
		inv.InvoiceStatus = types.InvoiceStatusPaid
	}
	inv.UpdatedAt = time.Now().UTC()
	inv.UpdatedBy = types.GetUserID(ctx)

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixInvoice, types.GetTenantID(ctx), id))

	s.Logger.Infow("recorded payment",
		"invoice_id", id,
		"amount", req.Amount,
		"amount_due", inv.AmountDue,
	)
	return dto.NewInvoiceResponse(inv), nil
}
