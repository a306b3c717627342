package taxregion

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/omnierp/taxengine/internal/types"
)

// Region is a sub-national jurisdiction (state/province) belonging to exactly
// one tax configuration. It may carry its own regional rate override and a
// local-tax add-on for US/CA-style per-state rates.
type Region struct {
	ID          string `db:"id" json:"id"`
	TaxConfigID string `db:"tax_config_id" json:"tax_config_id"`
	Code        string `db:"code" json:"code"`
	Name        string `db:"name" json:"name"`

	RegionalTaxRate *decimal.Decimal `db:"regional_tax_rate" json:"regional_tax_rate,omitempty"`
	HasLocalTax     bool             `db:"has_local_tax" json:"has_local_tax"`
	LocalTaxRate    *decimal.Decimal `db:"local_tax_rate" json:"local_tax_rate,omitempty"`

	DisplayOrder int  `db:"display_order" json:"display_order"`
	IsActive     bool `db:"is_active" json:"is_active"`

	types.BaseModel
}

// IsInterRegional reports whether a transaction between the two region codes
// crosses regions. Codes compare case-insensitively; an empty buyer code is
// treated as intra-regional since the selling region is authoritative when no
// shipping region is known.
func IsInterRegional(sellerCode, buyerCode string) bool {
	if buyerCode == "" {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(sellerCode), strings.TrimSpace(buyerCode))
}
