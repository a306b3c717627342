package types

import (
	"slices"

	ierr "github.com/omnierp/taxengine/internal/errors"
)

// TaxSystem is the national tax regime a configuration models. It is
// descriptive metadata only: the calculator branches on the regional-tax
// capability flags of the configuration, never on this enum, so a custom
// system works without new calculation code.
type TaxSystem string

const (
	TaxSystemNone        TaxSystem = "none"
	TaxSystemGST         TaxSystem = "gst"
	TaxSystemVAT         TaxSystem = "vat"
	TaxSystemSalesTax    TaxSystem = "sales_tax"
	TaxSystemHST         TaxSystem = "hst"
	TaxSystemGSTPST      TaxSystem = "gst_pst"
	TaxSystemConsumption TaxSystem = "consumption"
	TaxSystemCustom      TaxSystem = "custom"
)

func (t TaxSystem) String() string {
	return string(t)
}

func (t TaxSystem) Validate() error {
	allowedValues := []string{
		TaxSystemNone.String(),
		TaxSystemGST.String(),
		TaxSystemVAT.String(),
		TaxSystemSalesTax.String(),
		TaxSystemHST.String(),
		TaxSystemGSTPST.String(),
		TaxSystemConsumption.String(),
		TaxSystemCustom.String(),
	}
	if !slices.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid tax system").
			WithHint("Tax system must be one of none, gst, vat, sales_tax, hst, gst_pst, consumption or custom").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// IsSplitSystem reports whether the system levies its regional component as a
// true central+regional split whose parts must add up to the combined rate
// (India GST, Canada GST+PST). US-style sales tax carries the effective rate on
// the regional side alone and is not a split system.
func (t TaxSystem) IsSplitSystem() bool {
	return t == TaxSystemGST || t == TaxSystemGSTPST
}

// CalculationMethod defines whether the stated line amount excludes tax or
// already includes it.
type CalculationMethod string

const (
	CalculationMethodExclusive CalculationMethod = "exclusive"
	CalculationMethodInclusive CalculationMethod = "inclusive"
)

func (m CalculationMethod) String() string {
	return string(m)
}

func (m CalculationMethod) Validate() error {
	allowedValues := []string{
		CalculationMethodExclusive.String(),
		CalculationMethodInclusive.String(),
	}
	if !slices.Contains(allowedValues, string(m)) {
		return ierr.NewError("invalid calculation method").
			WithHint("Calculation method must be either exclusive or inclusive").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// TaxRateStatus defines whether a rate definition may be used for new
// calculations. Inactive rates stay resolvable by ID for historical lines.
type TaxRateStatus string

const (
	TaxRateStatusActive   TaxRateStatus = "ACTIVE"
	TaxRateStatusInactive TaxRateStatus = "INACTIVE"
)

func (s TaxRateStatus) String() string {
	return string(s)
}

func (s TaxRateStatus) Validate() error {
	allowedValues := []string{
		TaxRateStatusActive.String(),
		TaxRateStatusInactive.String(),
	}

	if !slices.Contains(allowedValues, string(s)) {
		return ierr.NewError("invalid tax rate status").
			WithHint("Tax rate status must be either ACTIVE or INACTIVE").
			Mark(ierr.ErrValidation)
	}
	return nil
}
