package dto

import (
	"time"

	"github.com/billforge/billforge/internal/domain/salesreturn"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/billforge/billforge/internal/validator"
)

// CreateSalesReturnRequest represents the request payload for filing a
// sales return against an issued invoice
type CreateSalesReturnRequest struct {
	InvoiceID string `json:"invoice_id" validate:"required"`

	RefundMethod types.RefundMethod `json:"refund_method" validate:"required"`

	// return_date defaults to now when omitted
	ReturnDate *time.Time `json:"return_date,omitempty"`

	Lines []ReturnLineRequest `json:"lines" validate:"required,min=1"`

	Metadata types.Metadata `json:"metadata,omitempty"`
}

// ReturnLineRequest represents one requested return line. Lines with
// returned_quantity zero are silently dropped from the computed result.
type ReturnLineRequest struct {
	ProductRef       string `json:"product_ref" validate:"required"`
	ReturnedQuantity int64  `json:"returned_quantity"`
	Condition        string `json:"condition,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

func (r *CreateSalesReturnRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.RefundMethod.Validate(); err != nil {
		return err
	}

	for i, line := range r.Lines {
		if line.ReturnedQuantity < 0 {
			return ierr.NewError("returned_quantity must be non-negative").
				WithHint("Returned quantity cannot be negative").
				WithReportableDetails(map[string]any{
					"index":             i,
					"product_ref":       line.ProductRef,
					"returned_quantity": line.ReturnedQuantity,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// UpdateSalesReturnStatusRequest represents a lifecycle transition
// request for a sales return
type UpdateSalesReturnStatusRequest struct {
	ReturnStatus types.SalesReturnStatus `json:"return_status" validate:"required"`
}

func (r *UpdateSalesReturnStatusRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.ReturnStatus.Validate()
}

// SalesReturnResponse represents a sales return in API responses
type SalesReturnResponse struct {
	*salesreturn.SalesReturn
}

// NewSalesReturnResponse creates a new sales return response
func NewSalesReturnResponse(sr *salesreturn.SalesReturn) *SalesReturnResponse {
	return &SalesReturnResponse{SalesReturn: sr}
}

// ListSalesReturnsResponse represents a paginated list of sales returns
type ListSalesReturnsResponse = types.ListResponse[*SalesReturnResponse]
