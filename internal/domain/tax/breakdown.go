package tax

import "github.com/shopspring/decimal"

// Breakdown holds the named tax components of a single taxable amount.
// Exactly one of the two modes is populated, the intra state pair
// (CGST plus SGST) or the inter state component (IGST), never both.
type Breakdown struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
}

// ZeroBreakdown returns a breakdown with all components zero
func ZeroBreakdown() Breakdown {
	return Breakdown{
		CGST: decimal.Zero,
		SGST: decimal.Zero,
		IGST: decimal.Zero,
	}
}

// Total returns the sum of all components
func (b Breakdown) Total() decimal.Decimal {
	return b.CGST.Add(b.SGST).Add(b.IGST)
}

// Add returns the component wise sum of two breakdowns
func (b Breakdown) Add(other Breakdown) Breakdown {
	return Breakdown{
		CGST: b.CGST.Add(other.CGST),
		SGST: b.SGST.Add(other.SGST),
		IGST: b.IGST.Add(other.IGST),
	}
}

// Split divides grossTax between the named components. When seller and
// buyer share a jurisdiction the amount is halved into CGST and SGST,
// with SGST taking the remainder so the two always sum to grossTax
// exactly. Otherwise the full amount goes to IGST. Callers must force
// grossTax to zero for document types that do not bear tax.
func Split(grossTax decimal.Decimal, sellerJurisdiction, buyerJurisdiction string) Breakdown {
	b := ZeroBreakdown()
	if grossTax.IsZero() {
		return b
	}

	if sellerJurisdiction == buyerJurisdiction {
		half := grossTax.Div(decimal.NewFromInt(2))
		b.CGST = half
		b.SGST = grossTax.Sub(half)
		return b
	}

	b.IGST = grossTax
	return b
}
