package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

const (
	// maxAllocationAttempts bounds the retry budget for contended
	// sequence allocations
	maxAllocationAttempts = 5

	allocationInitialInterval = 10 * time.Millisecond
)

// NumberingService allocates document numbers from the durable
// per (document type, fiscal period) sequence
type NumberingService interface {
	// AllocateNumber returns the next document number in the series,
	// formatted as "{prefix}/{fiscalPeriod}/{NNNNN}"
	AllocateNumber(ctx context.Context, documentType types.DocumentType, fiscalPeriod string) (string, error)
}

type numberingService struct {
	ServiceParams
}

func NewNumberingService(params ServiceParams) NumberingService {
	return &numberingService{ServiceParams: params}
}

func (s *numberingService) AllocateNumber(ctx context.Context, documentType types.DocumentType, fiscalPeriod string) (string, error) {
	if err := documentType.Validate(); err != nil {
		return "", err
	}

	if s.Config.Billing.AllowDemoNumbering {
		if s.Config.Deployment.Mode != types.ModeLocal {
			return "", ierr.NewError("demo numbering is not allowed in this mode").
				WithHint("Demo document numbers are only available in local mode").
				WithReportableDetails(map[string]any{
					"mode": s.Config.Deployment.Mode,
				}).
				Mark(ierr.ErrConfiguration)
		}
		return s.demoNumber(documentType, fiscalPeriod), nil
	}

	var lastValue int64
	operation := func() error {
		value, err := s.SequenceRepo.NextValue(ctx, documentType, fiscalPeriod)
		if err != nil {
			if ierr.IsSequenceConflict(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		lastValue = value
		return nil
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(allocationInitialInterval),
	), maxAllocationAttempts-1)

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		s.Logger.Errorw("document number allocation failed",
			"document_type", documentType,
			"fiscal_period", fiscalPeriod,
			"error", err,
		)
		return "", err
	}

	number := fmt.Sprintf("%s/%s/%05d", documentType.Prefix(), fiscalPeriod, lastValue)
	s.Logger.Debugw("allocated document number",
		"document_number", number,
		"document_type", documentType,
		"fiscal_period", fiscalPeriod,
	)
	return number, nil
}

// demoNumber produces a timestamp derived placeholder number. It gives
// no uniqueness guarantee and exists only for local experimentation.
func (s *numberingService) demoNumber(documentType types.DocumentType, fiscalPeriod string) string {
	return fmt.Sprintf("%s/%s/D%d", documentType.Prefix(), fiscalPeriod, time.Now().UnixNano()%100000)
}
