// Package irb implements the Basel IRB risk-weight function for corporate,
// bank and sovereign exposures (the Vasicek asymptotic single risk factor
// model) with maturity adjustment, scaling and input floors.
package irb

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sells-group/capital-cli/internal/basel"
	"github.com/sells-group/capital-cli/internal/coerce"
	"github.com/sells-group/capital-cli/internal/floors"
)

// Formula constants.
const (
	DefaultPD           = 0.01
	DefaultMaturity     = 2.5
	MinMaturity         = 1.0
	MaxMaturity         = 5.0
	ConfidenceLevel     = 0.999
	RWAMultiplier       = 12.5
	DefaultCapitalRatio = 0.08

	pdLogFloor     = 1e-9
	denominatorMin = 1e-9
)

// Input is one IRB calculation. PD, LGD and CapitalRatio accept decimals or
// percentages. MaturityMonths <= 0 means unknown.
type Input struct {
	AssetClass     basel.AssetClass
	EAD            float64
	PD             float64
	LGD            float64
	MaturityMonths int
	CapitalRatio   float64
	ScalingFactor  float64
	PDFloor        floors.FloorPolicy
	LGDPolicy      LGDPolicy
}

// Result is the IRB outcome with its full audit trail.
type Result struct {
	AssetClass basel.AssetClass `json:"asset_class"`

	PDInput        float64            `json:"pd_input"`
	PDNormalized   float64            `json:"pd_normalized"`
	PDUsed         float64            `json:"pd_used"`
	PDFloor        *float64           `json:"pd_floor"`
	PDFloorApplied bool               `json:"pd_floor_applied"`
	PDFloorPolicy  floors.FloorPolicy `json:"pd_floor_policy"`
	PDNote         string             `json:"pd_note"`

	LGDInput        float64              `json:"lgd_input"`
	LGDMode         LGDMode              `json:"lgd_mode"`
	LGDSource       string               `json:"lgd_source"`
	LGDUsed         float64              `json:"lgd_used"`
	LGDFloorApplied bool                 `json:"lgd_floor_applied"`
	LGDFloorValue   *float64             `json:"lgd_floor_value"`
	LGDNote         string               `json:"lgd_note"`
	LGDRulePath     string               `json:"lgd_rule_path"`
	CollateralType  basel.CollateralType `json:"collateral_type"`

	MaturityMonths    int     `json:"maturity_months"`
	MaturityYears     float64 `json:"maturity_years"`
	MaturityDefaulted bool    `json:"maturity_defaulted"`

	Correlation        float64 `json:"correlation_r"`
	MaturityB          float64 `json:"maturity_b"`
	KBeforeMaturity    float64 `json:"k_before_maturity_adjustment"`
	MaturityAdjustment float64 `json:"maturity_adjustment_factor"`
	DenominatorFloored bool    `json:"maturity_denominator_floored"`
	KAdjusted          float64 `json:"k_after_maturity_adjustment"`
	ScalingFactor      float64 `json:"scaling_factor"`

	EAD                 float64  `json:"ead"`
	RWA                 float64  `json:"rwa"`
	CapitalRatio        float64  `json:"capital_ratio"`
	CapitalRequired     float64  `json:"capital_required"`
	EffectiveRiskWeight *float64 `json:"effective_risk_weight"`
}

// Correlation is the supervisory asset correlation for corporate, bank and
// sovereign exposures.
func Correlation(pd float64) float64 {
	w := (1 - math.Exp(-50*pd)) / (1 - math.Exp(-50))
	return 0.12*w + 0.24*(1-w)
}

// MaturityB is the maturity-adjustment slope b(PD).
func MaturityB(pd float64) float64 {
	x := 0.11852 - 0.05478*math.Log(math.Max(pd, pdLogFloor))
	return x * x
}

// CapitalK is the unexpected-loss capital requirement before maturity
// adjustment for the given PD, LGD and correlation.
func CapitalK(pd, lgd, r float64) float64 {
	if pd >= 1 {
		// Defaulted: no unexpected loss left.
		return 0
	}
	n := distuv.UnitNormal
	conditional := n.CDF(n.Quantile(pd)/math.Sqrt(1-r) + math.Sqrt(r/(1-r))*n.Quantile(ConfidenceLevel))
	return math.Max(0, lgd*conditional-pd*lgd)
}

// MaturityYears converts a term in months to effective maturity M.
func MaturityYears(months int) (float64, bool) {
	if months <= 0 {
		return DefaultMaturity, true
	}
	m := float64(months) / 12
	return math.Min(MaxMaturity, math.Max(MinMaturity, m)), false
}

// Compute runs the ASRF formula for in.
func Compute(in Input) Result {
	res := Result{
		AssetClass:     in.AssetClass,
		PDInput:        finite(in.PD),
		PDFloorPolicy:  in.PDFloor,
		LGDInput:       finite(in.LGD),
		LGDMode:        in.LGDPolicy.Mode,
		LGDSource:      in.LGDPolicy.Source,
		LGDRulePath:    in.LGDPolicy.Floor.RulePath,
		CollateralType: in.LGDPolicy.Collateral,
		MaturityMonths: in.MaturityMonths,
		ScalingFactor:  in.ScalingFactor,
		EAD:            in.EAD,
		CapitalRatio:   coerce.NormalizeRate(in.CapitalRatio, DefaultCapitalRatio),
	}
	if res.ScalingFactor <= 0 {
		res.ScalingFactor = 1.0
	}

	res.resolvePD(in)
	res.resolveLGD(in)
	res.MaturityYears, res.MaturityDefaulted = MaturityYears(in.MaturityMonths)

	pd, lgd := res.PDUsed, res.LGDUsed
	res.Correlation = Correlation(pd)
	res.MaturityB = MaturityB(pd)
	res.KBeforeMaturity = CapitalK(pd, lgd, res.Correlation)

	denom := 1 - 1.5*res.MaturityB
	if denom <= 0 {
		denom = denominatorMin
		res.DenominatorFloored = true
	}
	res.MaturityAdjustment = (1 + (res.MaturityYears-2.5)*res.MaturityB) / denom
	res.KAdjusted = res.KBeforeMaturity * res.MaturityAdjustment

	res.RWA = RWAMultiplier * res.ScalingFactor * res.KAdjusted * in.EAD
	res.CapitalRequired = res.RWA * res.CapitalRatio
	res.EffectiveRiskWeight = EffectiveRiskWeight(res.RWA, in.EAD)
	return res
}

func (res *Result) resolvePD(in Input) {
	res.PDNormalized = math.Min(1, coerce.NormalizeRate(in.PD, DefaultPD))
	if in.PD <= 0 || math.IsNaN(in.PD) || math.IsInf(in.PD, 0) {
		res.PDNote = fmt.Sprintf("PD missing or <= 0, defaulted to %.2f%%", DefaultPD*100)
	}

	res.PDUsed, res.PDFloorApplied = in.PDFloor.Apply(res.PDNormalized)
	res.PDFloor = in.PDFloor.FloorValue
	switch {
	case res.PDFloorApplied:
		res.PDNote = joinNote(res.PDNote, fmt.Sprintf("PD raised to %s floor %.2f%%", in.PDFloor.FloorSource, *in.PDFloor.FloorValue*100))
	case !in.PDFloor.Enabled:
		res.PDNote = joinNote(res.PDNote, "no PD floor applied")
	}
}

func (res *Result) resolveLGD(in Input) {
	p := in.LGDPolicy
	if p.Mode != LGDBankEstimated {
		res.LGDMode = LGDSupervisory
		res.LGDUsed = p.Supervisory
		res.LGDNote = fmt.Sprintf("supervisory LGD %.0f%%; input LGD ignored", p.Supervisory*100)
		return
	}

	lgd := coerce.NormalizeRate(in.LGD, p.Supervisory)
	if in.LGD <= 0 || math.IsNaN(in.LGD) || math.IsInf(in.LGD, 0) {
		res.LGDNote = fmt.Sprintf("LGD missing or <= 0, defaulted to supervisory %.0f%%", p.Supervisory*100)
	}
	res.LGDUsed, res.LGDFloorApplied = p.Floor.Apply(math.Min(1, lgd))
	res.LGDFloorValue = p.Floor.FloorValue
	if res.LGDFloorApplied {
		res.LGDNote = joinNote(res.LGDNote, fmt.Sprintf("LGD raised to %s floor %.0f%%", p.Floor.FloorSource, *p.Floor.FloorValue*100))
	}
}

// EffectiveRiskWeight returns RWA / EAD, or nil when EAD is not positive.
func EffectiveRiskWeight(rwa, ead float64) *float64 {
	if ead <= 0 {
		return nil
	}
	v := rwa / ead
	return &v
}

func joinNote(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
