// Package ead derives exposure at default from a facility's commitment and
// drawn balance using product credit conversion factors.
package ead

import (
	"fmt"
	"math"
	"strings"

	"github.com/sells-group/capital-cli/internal/coerce"
)

// LoanType is the facility product.
type LoanType string

const (
	LoanTypeTerm LoanType = "TERM"
	LoanTypeLOC  LoanType = "LOC"
	LoanTypeLC   LoanType = "LC"
)

// DefaultCCFs are the undrawn credit conversion factors per product.
var DefaultCCFs = map[LoanType]float64{
	LoanTypeTerm: 0.0,
	LoanTypeLOC:  0.75,
	LoanTypeLC:   1.0,
}

// ParseLoanType folds s to a known product. Unknown values are TERM.
func ParseLoanType(s string) LoanType {
	switch LoanType(strings.ToUpper(strings.TrimSpace(s))) {
	case LoanTypeLOC, "REVOLVER":
		return LoanTypeLOC
	case LoanTypeLC, "LETTER OF CREDIT":
		return LoanTypeLC
	default:
		return LoanTypeTerm
	}
}

// Facility describes a committed credit line.
type Facility struct {
	LoanType            string             `json:"loan_type" yaml:"loan_type"`
	Commitment          float64            `json:"commitment" yaml:"commitment"`
	Balance             float64            `json:"balance" yaml:"balance"`
	UtilizationPct      *float64           `json:"utilization_pct,omitempty" yaml:"utilization_pct,omitempty"`
	UndrawnCCFOverride  *float64           `json:"undrawn_ccf_override,omitempty" yaml:"undrawn_ccf_override,omitempty"`
	ProductCCFOverrides map[string]float64 `json:"product_ccf_overrides,omitempty" yaml:"product_ccf_overrides,omitempty"`
}

// Detail records how EAD was derived.
type Detail struct {
	LoanType            LoanType           `json:"loan_type"`
	Commitment          float64            `json:"commitment"`
	BalanceDrawn        float64            `json:"balance_drawn"`
	UndrawnCommitment   float64            `json:"undrawn_commitment"`
	ProductCCFDefault   float64            `json:"product_undrawn_ccf_default"`
	UndrawnCCFUsed      float64            `json:"undrawn_ccf_used"`
	UndrawnCCFOverride  *float64           `json:"undrawn_ccf_override"`
	ProductCCFOverrides map[string]float64 `json:"product_ccf_overrides"`
	EAD                 float64            `json:"ead"`
	CalcPath            string             `json:"ead_calc_path"`
}

// Compute returns drawn + undrawn x CCF for f. A scalar override beats a
// per-product override, which beats the product default.
func Compute(f Facility) (float64, Detail) {
	lt := ParseLoanType(f.LoanType)
	commitment := finite(f.Commitment)
	balance := finite(f.Balance)

	if balance <= 0 && f.UtilizationPct != nil && lt != LoanTypeTerm {
		balance = commitment * coerce.NormalizeRate(*f.UtilizationPct, 0)
	}

	ccfs := make(map[LoanType]float64, len(DefaultCCFs))
	for k, v := range DefaultCCFs {
		ccfs[k] = v
	}
	overrides := map[string]float64{}
	for k, v := range f.ProductCCFOverrides {
		if !isFinite(v) {
			continue
		}
		overrides[k] = v
		product := LoanType(strings.ToUpper(strings.TrimSpace(k)))
		if _, ok := ccfs[product]; ok {
			ccfs[product] = v
		}
	}
	productCCF := ccfs[lt]

	ccf := productCCF
	var ccfOverride *float64
	if f.UndrawnCCFOverride != nil && isFinite(*f.UndrawnCCFOverride) {
		ccfOverride = f.UndrawnCCFOverride
		if *ccfOverride >= 0 {
			ccf = *ccfOverride
		}
	}

	drawn := math.Max(0, math.Min(balance, commitment))
	undrawn := math.Max(0, commitment-drawn)
	exposure := drawn + undrawn*ccf

	return exposure, Detail{
		LoanType:            lt,
		Commitment:          commitment,
		BalanceDrawn:        drawn,
		UndrawnCommitment:   undrawn,
		ProductCCFDefault:   productCCF,
		UndrawnCCFUsed:      ccf,
		UndrawnCCFOverride:  ccfOverride,
		ProductCCFOverrides: overrides,
		EAD:                 exposure,
		CalcPath:            fmt.Sprintf("EAD = drawn (%g) + undrawn (%g) * undrawn_ccf (%g)", drawn, undrawn, ccf),
	}
}

func finite(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
