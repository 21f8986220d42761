package types

import (
	"github.com/samber/lo"

	ierr "github.com/billforge/billforge/internal/errors"
)

// SalesReturnStatus tracks the lifecycle of a sales return
type SalesReturnStatus string

const (
	SalesReturnStatusPending   SalesReturnStatus = "PENDING"
	SalesReturnStatusApproved  SalesReturnStatus = "APPROVED"
	SalesReturnStatusProcessed SalesReturnStatus = "PROCESSED"
	SalesReturnStatusRejected  SalesReturnStatus = "REJECTED"
)

func (s SalesReturnStatus) String() string {
	return string(s)
}

func (s SalesReturnStatus) Validate() error {
	allowed := []SalesReturnStatus{
		SalesReturnStatusPending,
		SalesReturnStatusApproved,
		SalesReturnStatusProcessed,
		SalesReturnStatusRejected,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid sales return status").
			WithHint("Invalid sales return status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CanTransitionTo reports whether the status transition is permitted
func (s SalesReturnStatus) CanTransitionTo(target SalesReturnStatus) bool {
	switch s {
	case SalesReturnStatusPending:
		return target == SalesReturnStatusApproved || target == SalesReturnStatusRejected
	case SalesReturnStatusApproved:
		return target == SalesReturnStatusProcessed
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions
func (s SalesReturnStatus) IsTerminal() bool {
	return s == SalesReturnStatusProcessed || s == SalesReturnStatusRejected
}

// RefundMethod indicates how the refund is paid out
type RefundMethod string

const (
	RefundMethodCash         RefundMethod = "CASH"
	RefundMethodBankTransfer RefundMethod = "BANK_TRANSFER"
	RefundMethodCreditNote   RefundMethod = "CREDIT_NOTE"
)

func (m RefundMethod) String() string {
	return string(m)
}

func (m RefundMethod) Validate() error {
	allowed := []RefundMethod{
		RefundMethodCash,
		RefundMethodBankTransfer,
		RefundMethodCreditNote,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid refund method").
			WithHint("Invalid refund method").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RefundPolicy determines whether refunds are computed on pre tax
// amounts or include the tax share of the returned lines
type RefundPolicy string

const (
	RefundPolicyPreTax       RefundPolicy = "PRE_TAX"
	RefundPolicyTaxInclusive RefundPolicy = "TAX_INCLUSIVE"
)

func (p RefundPolicy) String() string {
	return string(p)
}

func (p RefundPolicy) Validate() error {
	allowed := []RefundPolicy{
		RefundPolicyPreTax,
		RefundPolicyTaxInclusive,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid refund policy").
			WithHint("Invalid refund policy").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DiscountPolicy determines how discounts exceeding the line amount
// are handled during invoice calculation
type DiscountPolicy string

const (
	DiscountPolicyClamp  DiscountPolicy = "CLAMP"
	DiscountPolicyStrict DiscountPolicy = "STRICT"
)

func (p DiscountPolicy) String() string {
	return string(p)
}

func (p DiscountPolicy) Validate() error {
	allowed := []DiscountPolicy{
		DiscountPolicyClamp,
		DiscountPolicyStrict,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid discount policy").
			WithHint("Invalid discount policy").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
