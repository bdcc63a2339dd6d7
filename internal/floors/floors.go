// Package floors decides which IRB input floors apply to an exposure.
//
// The floor regime is a function of jurisdiction only: Canada always applies
// the OSFI Basel III floors, the US applies the BCBS baseline floors when the
// caller opts in, and the EU path applies none.
package floors

import (
	"fmt"

	"github.com/sells-group/capital-cli/internal/basel"
)

// Floor sources.
const (
	SourceOSFI      = "OSFI (Basel III final)"
	SourceBCBS      = "BCBS baseline"
	SourceNone      = "none"
	SourceSovereign = "sovereign exemption"
)

// PDFloor is the probability-of-default floor for every non-sovereign class.
const PDFloor = 0.0005

// lgdFloors holds the Advanced IRB LGD floors by collateral type. Anything
// not listed is treated as unsecured.
var lgdFloors = map[basel.CollateralType]float64{
	basel.CollateralFinancial:     0.00,
	basel.CollateralReceivables:   0.10,
	basel.CollateralRealEstate:    0.10,
	basel.CollateralOtherPhysical: 0.15,
	basel.CollateralIntangibles:   0.25,
}

// UnsecuredLGDFloor applies when no recognised collateral type is given.
const UnsecuredLGDFloor = 0.25

// FloorPolicy is the decision record for one PD or LGD floor.
type FloorPolicy struct {
	Enabled     bool     `json:"enabled"`
	FloorValue  *float64 `json:"floor_value"`
	FloorSource string   `json:"floor_source"`
	RulePath    string   `json:"rule_path"`
}

// Regime describes whether floors are active for a jurisdiction.
type Regime struct {
	Jurisdiction basel.Jurisdiction
	Active       bool
	Source       string
}

// ResolveRegime returns the floor regime for j. applyBaseline is only
// honoured for the US.
func ResolveRegime(j basel.Jurisdiction, applyBaseline bool) Regime {
	switch j {
	case basel.JurisdictionCAN:
		return Regime{Jurisdiction: j, Active: true, Source: SourceOSFI}
	case basel.JurisdictionUS:
		if applyBaseline {
			return Regime{Jurisdiction: j, Active: true, Source: SourceBCBS}
		}
		return Regime{Jurisdiction: j, Source: SourceNone}
	default:
		return Regime{Jurisdiction: j, Source: SourceNone}
	}
}

// PD returns the PD floor policy for an asset class.
func (r Regime) PD(class basel.AssetClass) FloorPolicy {
	prefix := fmt.Sprintf("%s > %s > PD", r.Jurisdiction, class)
	switch {
	case !r.Active:
		return FloorPolicy{FloorSource: SourceNone, RulePath: prefix + " > floors not active"}
	case class == basel.AssetClassSovereign:
		return FloorPolicy{FloorSource: SourceSovereign, RulePath: prefix + " > no PD floor for sovereigns"}
	default:
		v := PDFloor
		return FloorPolicy{
			Enabled:     true,
			FloorValue:  &v,
			FloorSource: r.Source,
			RulePath:    fmt.Sprintf("%s > %s floor %.2f%%", prefix, r.Source, v*100),
		}
	}
}

// LGD returns the LGD floor policy for a bank-estimated LGD. Foundation IRB
// uses supervisory LGD and never reaches this.
func (r Regime) LGD(class basel.AssetClass, collateral basel.CollateralType) FloorPolicy {
	prefix := fmt.Sprintf("%s > %s > LGD", r.Jurisdiction, class)
	switch {
	case !r.Active:
		return FloorPolicy{FloorSource: SourceNone, RulePath: prefix + " > floors not active"}
	case class == basel.AssetClassSovereign:
		return FloorPolicy{FloorSource: SourceSovereign, RulePath: prefix + " > no LGD floor for sovereigns"}
	}

	v, ok := lgdFloors[collateral]
	label := collateral.Label()
	if !ok {
		v = UnsecuredLGDFloor
		label = basel.CollateralNone.Label()
	}
	return FloorPolicy{
		Enabled:     true,
		FloorValue:  &v,
		FloorSource: r.Source,
		RulePath:    fmt.Sprintf("%s > %s > %s floor %.0f%%", prefix, label, r.Source, v*100),
	}
}

// Apply returns max(value, floor) and whether the floor raised the value.
func (p FloorPolicy) Apply(value float64) (float64, bool) {
	if !p.Enabled || p.FloorValue == nil {
		return value, false
	}
	if value < *p.FloorValue {
		return *p.FloorValue, true
	}
	return value, false
}
