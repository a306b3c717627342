package dto

import (
	"github.com/shopspring/decimal"

	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/tax"
)

// CalculateLineTaxRequest represents a single invoice/quotation line to tax.
// The slab is resolved by ID when given, then by code, then the owning
// configuration's default. Seller and buyer region codes drive the
// inter-regional decision; the engine never infers them.
type CalculateLineTaxRequest struct {
	Amount decimal.Decimal `json:"amount"`

	// Optional explicit configuration; the tenant default is used when empty
	TaxConfigID string `json:"tax_config_id,omitempty"`

	TaxRateID   string `json:"tax_rate_id,omitempty"`
	TaxRateCode string `json:"tax_rate_code,omitempty"`

	SellerRegionCode string `json:"seller_region_code,omitempty"`
	BuyerRegionCode  string `json:"buyer_region_code,omitempty"`
}

// CalculateLineTaxResponse carries the breakdown plus the identifiers of the
// configuration and slab that produced it
type CalculateLineTaxResponse struct {
	*tax.Result `json:",inline"`

	TaxConfigID string `json:"tax_config_id,omitempty"`
	TaxRateID   string `json:"tax_rate_id,omitempty"`
}

// Validate validates the CalculateLineTaxRequest
func (r CalculateLineTaxRequest) Validate() error {
	if r.Amount.IsNegative() {
		return ierr.NewError("amount cannot be negative").
			WithHint("Line amount must be zero or greater").
			WithReportableDetails(map[string]any{
				"amount": r.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
