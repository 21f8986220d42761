package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/config"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	cfg     *config.Configuration
	service BillingService
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.cfg = config.GetDefaultConfig()
	s.service = NewBillingService(s.params())
}

func (s *BillingServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:          s.GetLogger(),
		Config:          s.cfg,
		Cache:           cache.NewInMemoryCache(s.cfg),
		InvoiceRepo:     stores.InvoiceRepo,
		SalesReturnRepo: stores.SalesReturnRepo,
		SequenceRepo:    stores.SequenceRepo,
	}
}

// intraStateRequest bills a buyer in the seller's own state
func (s *BillingServiceSuite) intraStateRequest() *dto.CreateInvoiceRequest {
	return &dto.CreateInvoiceRequest{
		DocumentType:    types.DocumentTypeGST,
		BuyerName:       "Sharma Traders",
		BuyerAddress:    "Andheri East, Mumbai, Maharashtra",
		BuyerPostalCode: "400069",
		LineItems: []dto.CreateLineItemRequest{
			{
				ProductRef:     "prod-1",
				Name:           "Widget",
				UnitPrice:      decimal.NewFromInt(1000),
				Quantity:       2,
				TaxRatePercent: lo.ToPtr(decimal.NewFromInt(18)),
			},
		},
	}
}

func (s *BillingServiceSuite) TestCreateInvoiceIntraState() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.intraStateRequest())
	s.NoError(err)
	s.NotNil(resp)

	s.True(resp.Subtotal.Equal(decimal.NewFromInt(2000)), "subtotal = %s", resp.Subtotal)
	s.True(resp.TaxableAmount.Equal(decimal.NewFromInt(2000)))
	s.True(resp.TotalTax.Equal(decimal.NewFromInt(360)), "total tax = %s", resp.TotalTax)
	s.True(resp.CGSTTotal.Equal(decimal.NewFromInt(180)))
	s.True(resp.SGSTTotal.Equal(decimal.NewFromInt(180)))
	s.True(resp.IGSTTotal.IsZero())
	s.True(resp.GrandTotal.Equal(decimal.NewFromInt(2360)))
	s.Equal("MH", resp.SellerJurisdiction)
	s.Equal("MH", resp.BuyerJurisdiction)
	s.Equal(types.InvoiceStatusDraft, resp.InvoiceStatus)

	fiscalPeriod := types.FiscalPeriodFromTime(time.Now().UTC())
	s.Equal("INV/"+fiscalPeriod+"/00001", resp.InvoiceNumber)
}

func (s *BillingServiceSuite) TestCreateInvoiceInterState() {
	req := s.intraStateRequest()
	req.BuyerAddress = "Connaught Place, New Delhi"
	req.BuyerPostalCode = "110001"

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	s.Equal("DL", resp.BuyerJurisdiction)
	s.True(resp.CGSTTotal.IsZero())
	s.True(resp.SGSTTotal.IsZero())
	s.True(resp.IGSTTotal.Equal(decimal.NewFromInt(360)))
	s.True(resp.GrandTotal.Equal(decimal.NewFromInt(2360)))
}

func (s *BillingServiceSuite) TestCreateInvoiceNonGSTCarriesNoTax() {
	req := s.intraStateRequest()
	req.DocumentType = types.DocumentTypeNonGST

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	s.True(resp.TaxableAmount.Equal(decimal.NewFromInt(2000)))
	s.True(resp.TotalTax.IsZero())
	s.True(resp.CGSTTotal.IsZero())
	s.True(resp.SGSTTotal.IsZero())
	s.True(resp.IGSTTotal.IsZero())
	s.True(resp.GrandTotal.Equal(decimal.NewFromInt(2000)))

	fiscalPeriod := types.FiscalPeriodFromTime(time.Now().UTC())
	s.Equal("BIL/"+fiscalPeriod+"/00001", resp.InvoiceNumber)
}

func (s *BillingServiceSuite) TestInvoiceDiscountDoesNotReduceTax() {
	req := s.intraStateRequest()
	req.DiscountPercent = decimal.NewFromInt(10)

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	s.True(resp.DiscountAmount.Equal(decimal.NewFromInt(200)), "discount = %s", resp.DiscountAmount)
	s.True(resp.TaxableAmount.Equal(decimal.NewFromInt(1800)))
	s.True(resp.TotalTax.Equal(decimal.NewFromInt(360)), "tax unchanged by invoice discount")
	s.True(resp.GrandTotal.Equal(decimal.NewFromInt(2160)))
}

func (s *BillingServiceSuite) TestLineDiscountReducesTax() {
	req := s.intraStateRequest()
	req.LineItems[0].DiscountPercent = decimal.NewFromInt(10)

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	// 2000 gross, 200 line discount, 1800 taxable, 18% tax on 1800
	s.True(resp.Subtotal.Equal(decimal.NewFromInt(2000)))
	s.True(resp.TaxableAmount.Equal(decimal.NewFromInt(1800)))
	s.True(resp.TotalTax.Equal(decimal.NewFromInt(324)))
	s.True(resp.GrandTotal.Equal(decimal.NewFromInt(2124)))
}

func (s *BillingServiceSuite) TestRoundingInvariant() {
	req := s.intraStateRequest()
	req.LineItems[0].UnitPrice = decimal.NewFromFloat(33.33)
	req.LineItems[0].Quantity = 1

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	unrounded := resp.TaxableAmount.Add(resp.TotalTax)
	s.True(resp.GrandTotal.Equal(unrounded.Round(2)))
	s.True(resp.RoundOff.Equal(resp.GrandTotal.Sub(unrounded)))
	s.True(resp.RoundOff.Abs().LessThan(decimal.NewFromInt(1)))
	s.True(resp.GrandTotal.Equal(decimal.NewFromFloat(39.33)), "grand total = %s", resp.GrandTotal)
}

func (s *BillingServiceSuite) TestIdempotentTotals() {
	first, err := s.service.CreateInvoice(s.GetContext(), s.intraStateRequest())
	s.NoError(err)
	second, err := s.service.CreateInvoice(s.GetContext(), s.intraStateRequest())
	s.NoError(err)

	s.True(first.Subtotal.Equal(second.Subtotal))
	s.True(first.TaxableAmount.Equal(second.TaxableAmount))
	s.True(first.TotalTax.Equal(second.TotalTax))
	s.True(first.CGSTTotal.Equal(second.CGSTTotal))
	s.True(first.SGSTTotal.Equal(second.SGSTTotal))
	s.True(first.GrandTotal.Equal(second.GrandTotal))

	// Only the allocated numbers differ
	s.NotEqual(first.InvoiceNumber, second.InvoiceNumber)
}

func (s *BillingServiceSuite) TestClampPolicyClampsOutOfRangeDiscount() {
	req := s.intraStateRequest()
	req.LineItems[0].DiscountPercent = decimal.NewFromInt(150)

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	// Clamped to 100 percent, nothing taxable remains
	s.True(resp.TaxableAmount.IsZero())
	s.True(resp.TotalTax.IsZero())
	s.True(resp.GrandTotal.IsZero())

	req = s.intraStateRequest()
	req.LineItems[0].DiscountPercent = decimal.NewFromInt(-10)

	resp, err = s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.True(resp.TaxableAmount.Equal(decimal.NewFromInt(2000)), "negative discount clamps to zero")
}

func (s *BillingServiceSuite) TestStrictPolicyRejectsOutOfRangeDiscount() {
	s.cfg.Billing.DiscountPolicy = types.DiscountPolicyStrict

	req := s.intraStateRequest()
	req.LineItems[0].DiscountPercent = decimal.NewFromInt(150)

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *BillingServiceSuite) TestInvalidLineAbortsWholeInvoice() {
	req := s.intraStateRequest()
	req.LineItems = append(req.LineItems, dto.CreateLineItemRequest{
		ProductRef: "prod-2",
		UnitPrice:  decimal.NewFromInt(-5),
		Quantity:   1,
	})

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// Nothing persisted, no number consumed
	count, err := s.GetStores().InvoiceRepo.Count(s.GetContext(), types.NewInvoiceFilter())
	s.NoError(err)
	s.Equal(0, count)

	fiscalPeriod := types.FiscalPeriodFromTime(time.Now().UTC())
	s.Equal(int64(0), s.GetStores().SequenceRepo.LastValue(s.GetContext(), types.DocumentTypeGST, fiscalPeriod))
}

func (s *BillingServiceSuite) TestNumberingRetriesOnConflict() {
	s.GetStores().SequenceRepo.FailNext(2)

	resp, err := s.service.CreateInvoice(s.GetContext(), s.intraStateRequest())
	s.NoError(err)

	fiscalPeriod := types.FiscalPeriodFromTime(time.Now().UTC())
	s.Equal("INV/"+fiscalPeriod+"/00001", resp.InvoiceNumber)
}

func (s *BillingServiceSuite) TestNumberingSurfacesExhaustedRetries() {
	s.GetStores().SequenceRepo.FailNext(10)

	_, err := s.service.CreateInvoice(s.GetContext(), s.intraStateRequest())
	s.Error(err)
	s.True(ierr.IsSequenceConflict(err))

	count, countErr := s.GetStores().InvoiceRepo.Count(s.GetContext(), types.NewInvoiceFilter())
	s.NoError(countErr)
	s.Equal(0, count)
}

func (s *BillingServiceSuite) TestSequencesAreIndependentPerDocumentType() {
	_, err := s.service.CreateInvoice(s.GetContext(), s.intraStateRequest())
	s.NoError(err)

	req := s.intraStateRequest()
	req.DocumentType = types.DocumentTypeQuotation
	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	fiscalPeriod := types.FiscalPeriodFromTime(time.Now().UTC())
	s.Equal("QTN/"+fiscalPeriod+"/00001", resp.InvoiceNumber)
}

func (s *BillingServiceSuite) TestDemoNumberingOnlyInLocalMode() {
	s.cfg.Billing.AllowDemoNumbering = true
	s.cfg.Deployment.Mode = types.ModeAPI

	_, err := s.service.CreateInvoice(s.GetContext(), s.intraStateRequest())
	s.Error(err)
	s.True(ierr.IsConfiguration(err))

	s.cfg.Deployment.Mode = types.ModeLocal
	resp, err := s.service.CreateInvoice(s.GetContext(), s.intraStateRequest())
	s.NoError(err)
	s.Contains(resp.InvoiceNumber, "/D")
}

func (s *BillingServiceSuite) TestFullPaymentSettlesInvoice() {
	req := s.intraStateRequest()
	req.PaymentMode = types.PaymentModeFull

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	s.True(resp.AmountPaid.Equal(resp.GrandTotal))
	s.True(resp.AmountDue.IsZero())
}

func (s *BillingServiceSuite) TestPartialPaymentLeavesBalance() {
	req := s.intraStateRequest()
	req.PaymentMode = types.PaymentModePartial
	req.AmountPaid = decimal.NewFromInt(1000)

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	s.True(resp.AmountPaid.Equal(decimal.NewFromInt(1000)))
	s.True(resp.AmountDue.Equal(decimal.NewFromInt(1360)))
}

func (s *BillingServiceSuite) TestOverpaymentFlooredAtZeroDue() {
	req := s.intraStateRequest()
	req.PaymentMode = types.PaymentModePartial
	req.AmountPaid = decimal.NewFromInt(5000)

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	s.True(resp.AmountPaid.Equal(decimal.NewFromInt(5000)))
	s.True(resp.AmountDue.IsZero())
}

func (s *BillingServiceSuite) TestRecordPayment() {
	req := s.intraStateRequest()
	req.PaymentMode = types.PaymentModePartial
	req.AmountPaid = decimal.NewFromInt(1000)

	created, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	_, err = s.service.UpdateInvoiceStatus(s.GetContext(), created.ID, &dto.UpdateInvoiceStatusRequest{
		InvoiceStatus: types.InvoiceStatusSent,
	})
	s.NoError(err)

	resp, err := s.service.RecordPayment(s.GetContext(), created.ID, &dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(1360),
	})
	s.NoError(err)
	s.True(resp.AmountPaid.Equal(decimal.NewFromInt(2360)))
	s.True(resp.AmountDue.IsZero())

	// Settling a sent invoice marks it paid
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)
}

func (s *BillingServiceSuite) TestInvoiceStatusTransitions() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.intraStateRequest())
	s.NoError(err)

	sent, err := s.service.UpdateInvoiceStatus(s.GetContext(), created.ID, &dto.UpdateInvoiceStatusRequest{
		InvoiceStatus: types.InvoiceStatusSent,
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusSent, sent.InvoiceStatus)

	paid, err := s.service.UpdateInvoiceStatus(s.GetContext(), created.ID, &dto.UpdateInvoiceStatusRequest{
		InvoiceStatus: types.InvoiceStatusPaid,
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, paid.InvoiceStatus)

	// Paid is terminal
	_, err = s.service.UpdateInvoiceStatus(s.GetContext(), created.ID, &dto.UpdateInvoiceStatusRequest{
		InvoiceStatus: types.InvoiceStatusCancelled,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *BillingServiceSuite) TestDraftCannotJumpToPaid() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.intraStateRequest())
	s.NoError(err)

	_, err = s.service.UpdateInvoiceStatus(s.GetContext(), created.ID, &dto.UpdateInvoiceStatusRequest{
		InvoiceStatus: types.InvoiceStatusPaid,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *BillingServiceSuite) TestGetInvoiceServesFromCache() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.intraStateRequest())
	s.NoError(err)

	first, err := s.service.GetInvoice(s.GetContext(), created.ID)
	s.NoError(err)
	second, err := s.service.GetInvoice(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(first.InvoiceNumber, second.InvoiceNumber)
	s.True(first.GrandTotal.Equal(second.GrandTotal))
}

func (s *BillingServiceSuite) TestGetInvoiceNotFound() {
	_, err := s.service.GetInvoice(s.GetContext(), "inv_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *BillingServiceSuite) TestListInvoicesFiltersByDocumentType() {
	_, err := s.service.CreateInvoice(s.GetContext(), s.intraStateRequest())
	s.NoError(err)

	req := s.intraStateRequest()
	req.DocumentType = types.DocumentTypeNonGST
	_, err = s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	filter := types.NewInvoiceFilter()
	filter.DocumentType = lo.ToPtr(types.DocumentTypeGST)

	resp, err := s.service.ListInvoices(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(1, resp.Pagination.Total)
	s.Equal(types.DocumentTypeGST, resp.Items[0].DocumentType)
}

func (s *BillingServiceSuite) TestUnknownBuyerResolvesToOther() {
	req := s.intraStateRequest()
	req.BuyerAddress = "Somewhere Abroad"
	req.BuyerPostalCode = "99999"

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	s.Equal("OTHER", resp.BuyerJurisdiction)
	// Cross jurisdiction, all tax goes inter state
	s.True(resp.IGSTTotal.Equal(decimal.NewFromInt(360)))
}
