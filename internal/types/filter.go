package types

// InvoiceFilter represents the filter options for listing invoices
type InvoiceFilter struct {
	*QueryFilter

	InvoiceNumber string         `json:"invoice_number,omitempty" form:"invoice_number"`
	DocumentType  *DocumentType  `json:"document_type,omitempty" form:"document_type"`
	InvoiceStatus *InvoiceStatus `json:"invoice_status,omitempty" form:"invoice_status"`
	FiscalPeriod  string         `json:"fiscal_period,omitempty" form:"fiscal_period"`
	BuyerName     string         `json:"buyer_name,omitempty" form:"buyer_name"`
}

// NewInvoiceFilter creates a new invoice filter with default options
func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *InvoiceFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.DocumentType != nil {
		if err := f.DocumentType.Validate(); err != nil {
			return err
		}
	}
	if f.InvoiceStatus != nil {
		if err := f.InvoiceStatus.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SalesReturnFilter represents the filter options for listing sales returns
type SalesReturnFilter struct {
	*QueryFilter

	InvoiceID    string             `json:"invoice_id,omitempty" form:"invoice_id"`
	ReturnStatus *SalesReturnStatus `json:"return_status,omitempty" form:"return_status"`
	RefundMethod *RefundMethod      `json:"refund_method,omitempty" form:"refund_method"`
}

// NewSalesReturnFilter creates a new sales return filter with default options
func NewSalesReturnFilter() *SalesReturnFilter {
	return &SalesReturnFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitSalesReturnFilter creates a sales return filter without
// pagination limits
func NewNoLimitSalesReturnFilter() *SalesReturnFilter {
	return &SalesReturnFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *SalesReturnFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.ReturnStatus != nil {
		if err := f.ReturnStatus.Validate(); err != nil {
			return err
		}
	}
	if f.RefundMethod != nil {
		if err := f.RefundMethod.Validate(); err != nil {
			return err
		}
	}
	return nil
}
