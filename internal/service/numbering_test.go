package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/config"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
)

type NumberingServiceSuite struct {
	testutil.BaseServiceTestSuite
	cfg     *config.Configuration
	service NumberingService
}

func TestNumberingService(t *testing.T) {
	suite.Run(t, new(NumberingServiceSuite))
}

func (s *NumberingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.cfg = config.GetDefaultConfig()

	stores := s.GetStores()
	s.service = NewNumberingService(ServiceParams{
		Logger:          s.GetLogger(),
		Config:          s.cfg,
		Cache:           cache.NewInMemoryCache(s.cfg),
		InvoiceRepo:     stores.InvoiceRepo,
		SalesReturnRepo: stores.SalesReturnRepo,
		SequenceRepo:    stores.SequenceRepo,
	})
}

func (s *NumberingServiceSuite) TestAllocatesSequentialNumbers() {
	first, err := s.service.AllocateNumber(s.GetContext(), types.DocumentTypeGST, "2025-26")
	s.NoError(err)
	s.Equal("INV/2025-26/00001", first)

	second, err := s.service.AllocateNumber(s.GetContext(), types.DocumentTypeGST, "2025-26")
	s.NoError(err)
	s.Equal("INV/2025-26/00002", second)
}

func (s *NumberingServiceSuite) TestSeriesAreIndependent() {
	_, err := s.service.AllocateNumber(s.GetContext(), types.DocumentTypeGST, "2025-26")
	s.NoError(err)

	nonGST, err := s.service.AllocateNumber(s.GetContext(), types.DocumentTypeNonGST, "2025-26")
	s.NoError(err)
	s.Equal("BIL/2025-26/00001", nonGST)

	nextPeriod, err := s.service.AllocateNumber(s.GetContext(), types.DocumentTypeGST, "2026-27")
	s.NoError(err)
	s.Equal("INV/2026-27/00001", nextPeriod)
}

func (s *NumberingServiceSuite) TestInvalidDocumentTypeRejected() {
	_, err := s.service.AllocateNumber(s.GetContext(), types.DocumentType("BOGUS"), "2025-26")
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *NumberingServiceSuite) TestRetriesTransientConflicts() {
	s.GetStores().SequenceRepo.FailNext(3)

	number, err := s.service.AllocateNumber(s.GetContext(), types.DocumentTypeGST, "2025-26")
	s.NoError(err)
	s.Equal("INV/2025-26/00001", number)
}

func (s *NumberingServiceSuite) TestExhaustedRetriesSurfaceConflict() {
	s.GetStores().SequenceRepo.FailNext(maxAllocationAttempts)

	_, err := s.service.AllocateNumber(s.GetContext(), types.DocumentTypeGST, "2025-26")
	s.Error(err)
	s.True(ierr.IsSequenceConflict(err))
}

func (s *NumberingServiceSuite) TestDemoNumberingRefusedOutsideLocalMode() {
	s.cfg.Billing.AllowDemoNumbering = true
	s.cfg.Deployment.Mode = types.ModeAPI

	_, err := s.service.AllocateNumber(s.GetContext(), types.DocumentTypeGST, "2025-26")
	s.Error(err)
	s.True(ierr.IsConfiguration(err))
}

func (s *NumberingServiceSuite) TestDemoNumberingInLocalMode() {
	s.cfg.Billing.AllowDemoNumbering = true

	number, err := s.service.AllocateNumber(s.GetContext(), types.DocumentTypeGST, "2025-26")
	s.NoError(err)
	s.Contains(number, "INV/2025-26/D")

	// Demo numbers never consume the durable sequence
	s.Equal(int64(0), s.GetStores().SequenceRepo.LastValue(s.GetContext(), types.DocumentTypeGST, "2025-26"))
}
