package tax

import (
	"github.com/shopspring/decimal"
)

// Result is the breakdown produced by a single calculation. It is constructed
// fresh per call and never persisted; callers aggregate multiple results by
// summing each monetary field independently.
type Result struct {
	TaxableAmount decimal.Decimal `json:"taxable_amount"`

	CentralTaxAmount       decimal.Decimal `json:"central_tax_amount"`
	RegionalTaxAmount      decimal.Decimal `json:"regional_tax_amount"`
	InterRegionalTaxAmount decimal.Decimal `json:"inter_regional_tax_amount"`
	TotalTaxAmount         decimal.Decimal `json:"total_tax_amount"`
	TotalAmount            decimal.Decimal `json:"total_amount"`

	// Effective rates mirrored from the rate definition used
	CombinedRate      decimal.Decimal `json:"combined_rate"`
	CentralRate       decimal.Decimal `json:"central_rate"`
	RegionalRate      decimal.Decimal `json:"regional_rate"`
	InterRegionalRate decimal.Decimal `json:"inter_regional_rate"`

	// Display labels copied from the owning configuration so callers can
	// render the breakdown without a second lookup
	CentralTaxLabel       string `json:"central_tax_label,omitempty"`
	RegionalTaxLabel      string `json:"regional_tax_label,omitempty"`
	InterRegionalTaxLabel string `json:"inter_regional_tax_label,omitempty"`
	CombinedTaxLabel      string `json:"combined_tax_label,omitempty"`

	IsInterRegional bool `json:"is_inter_regional"`
}

// Add accumulates another result field-wise. Callers on document-level
// rounding sum full-precision lines and round only the aggregate.
func (r *Result) Add(other *Result) {
	if other == nil {
		return
	}
	r.TaxableAmount = r.TaxableAmount.Add(other.TaxableAmount)
	r.CentralTaxAmount = r.CentralTaxAmount.Add(other.CentralTaxAmount)
	r.RegionalTaxAmount = r.RegionalTaxAmount.Add(other.RegionalTaxAmount)
	r.InterRegionalTaxAmount = r.InterRegionalTaxAmount.Add(other.InterRegionalTaxAmount)
	r.TotalTaxAmount = r.TotalTaxAmount.Add(other.TotalTaxAmount)
	r.TotalAmount = r.TotalAmount.Add(other.TotalAmount)
}

// Round rounds every monetary field to the given number of decimal places
func (r *Result) Round(places int) {
	dp := int32(places)
	r.TaxableAmount = r.TaxableAmount.Round(dp)
	r.CentralTaxAmount = r.CentralTaxAmount.Round(dp)
	r.RegionalTaxAmount = r.RegionalTaxAmount.Round(dp)
	r.InterRegionalTaxAmount = r.InterRegionalTaxAmount.Round(dp)
	r.TotalTaxAmount = r.TotalTaxAmount.Round(dp)
	r.TotalAmount = r.TotalAmount.Round(dp)
}
