package irb

import (
	"github.com/sells-group/capital-cli/internal/basel"
	"github.com/sells-group/capital-cli/internal/floors"
)

// LGDMode says where the LGD used in the formula came from.
type LGDMode string

const (
	LGDSupervisory   LGDMode = "supervisory"
	LGDBankEstimated LGDMode = "bank_estimated"
)

// Supervisory LGDs for senior unsecured claims.
const (
	SupervisoryLGDBasel2          = 0.45
	SupervisoryLGDBasel3Corporate = 0.40
	SupervisoryLGDBasel3Other     = 0.45
)

// LGDPolicy is the resolved LGD treatment for one exposure.
type LGDPolicy struct {
	Mode        LGDMode              `json:"mode"`
	Supervisory float64              `json:"supervisory_lgd"`
	Source      string               `json:"source"`
	Collateral  basel.CollateralType `json:"collateral_type"`
	Floor       floors.FloorPolicy   `json:"floor"`
}

// SupervisoryLGD returns the Foundation IRB LGD for a regime and asset class.
func SupervisoryLGD(regime basel.Regime, class basel.AssetClass) float64 {
	if regime == basel.RegimeBasel3 && class == basel.AssetClassCorporate {
		return SupervisoryLGDBasel3Corporate
	}
	if regime == basel.RegimeBasel3 {
		return SupervisoryLGDBasel3Other
	}
	return SupervisoryLGDBasel2
}

// ResolveLGDPolicy picks supervisory or bank-estimated LGD. Only Advanced IRB
// uses own estimates, and bank exposures are kept on supervisory LGD even
// there. LGD floors only ever attach to bank-estimated values.
func ResolveLGDPolicy(a basel.Approach, class basel.AssetClass, r floors.Regime, collateral basel.CollateralType) LGDPolicy {
	p := LGDPolicy{
		Mode:        LGDSupervisory,
		Supervisory: SupervisoryLGD(a.Regime(), class),
		Collateral:  collateral,
		Floor:       floors.FloorPolicy{FloorSource: floors.SourceNone, RulePath: "supervisory LGD > no LGD floor"},
	}

	switch {
	case !a.IsAdvancedIRB():
		p.Source = "supervisory (foundation IRB)"
	case class == basel.AssetClassBank:
		p.Source = "supervisory (bank exposures excluded from own-LGD estimation)"
	default:
		p.Mode = LGDBankEstimated
		p.Source = "bank estimate (advanced IRB)"
		p.Floor = r.LGD(class, collateral)
	}
	return p
}

// ScalingFactor is 1.06 under Basel II and 1.0 under Basel III.
func ScalingFactor(regime basel.Regime) float64 {
	if regime == basel.RegimeBasel2 {
		return 1.06
	}
	return 1.0
}
