// Package capital routes a loan exposure to the Standardized or IRB engine
// and assembles the capital result.
package capital

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/capital-cli/internal/basel"
	"github.com/sells-group/capital-cli/internal/coerce"
	"github.com/sells-group/capital-cli/internal/ead"
	"github.com/sells-group/capital-cli/internal/floors"
	"github.com/sells-group/capital-cli/internal/irb"
	"github.com/sells-group/capital-cli/internal/outputfloor"
	"github.com/sells-group/capital-cli/internal/standardized"
)

// Options holds calculator defaults applied when a request leaves a field
// unset.
type Options struct {
	DefaultRatio         float64            `yaml:"default_ratio" mapstructure:"default_ratio"`
	DefaultJurisdiction  string             `yaml:"default_jurisdiction" mapstructure:"default_jurisdiction"`
	ApplyBaselineFloors  bool               `yaml:"apply_bcbs_baseline_floors" mapstructure:"apply_bcbs_baseline_floors"`
	LargeCorporateSwitch bool               `yaml:"large_corporate_switch" mapstructure:"large_corporate_switch"`
	RevenueThresholds    map[string]float64 `yaml:"revenue_thresholds" mapstructure:"revenue_thresholds"`
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		DefaultRatio:         irb.DefaultCapitalRatio,
		DefaultJurisdiction:  string(basel.JurisdictionUS),
		LargeCorporateSwitch: true,
		RevenueThresholds: map[string]float64{
			string(basel.JurisdictionUS):  500_000_000,
			string(basel.JurisdictionCAN): 750_000_000,
			string(basel.JurisdictionEU):  500_000_000,
		},
	}
}

// Calculator computes loan capital. It holds no mutable state and is safe
// for concurrent use.
type Calculator struct {
	opts         Options
	jurisdiction basel.Jurisdiction
}

// NewCalculator creates a Calculator. Zero-valued options fall back to
// DefaultOptions.
func NewCalculator(opts Options) *Calculator {
	def := DefaultOptions()
	if opts.DefaultRatio <= 0 {
		opts.DefaultRatio = def.DefaultRatio
	}
	if opts.RevenueThresholds == nil {
		opts.RevenueThresholds = def.RevenueThresholds
	}
	j, ok := coerce.Jurisdiction(opts.DefaultJurisdiction)
	if !ok {
		j = basel.JurisdictionUS
	}
	return &Calculator{opts: opts, jurisdiction: j}
}

// Options returns the effective options.
func (c *Calculator) Options() Options {
	return c.opts
}

// Normalize coerces the loosely typed fields of l into canonical values and
// returns the notes describing any substitution.
func (c *Calculator) Normalize(l LoanExposure) (LoanExposure, []string) {
	notes := finiteInputs(&l)

	raw := string(l.Approach)
	if a, ok := coerce.LookupApproach(raw); ok {
		l.Approach = a
	} else {
		l.Approach = coerce.Approach(raw)
		notes = append(notes, fmt.Sprintf("unrecognised approach %q, using %s", raw, l.Approach.Label()))
	}

	raw = string(l.ExposureType)
	if e, ok := coerce.ExposureType(raw); ok {
		l.ExposureType = e
	} else {
		l.ExposureType = basel.ExposureOther
		if strings.TrimSpace(raw) != "" {
			notes = append(notes, fmt.Sprintf("unrecognised exposure type %q, treated as %s", raw, basel.ExposureOther.Label()))
		}
	}

	raw = string(l.RatingBucket)
	if r, ok := coerce.RatingBucket(raw); ok {
		l.RatingBucket = r
	} else {
		l.RatingBucket = basel.RatingUnrated
		if strings.TrimSpace(raw) != "" {
			notes = append(notes, fmt.Sprintf("unrecognised rating bucket %q, treated as %s", raw, basel.RatingUnrated.Label()))
		}
	}

	raw = string(l.Jurisdiction)
	if j, ok := coerce.Jurisdiction(raw); ok {
		l.Jurisdiction = j
	} else {
		l.Jurisdiction = c.jurisdiction
		if strings.TrimSpace(raw) != "" {
			notes = append(notes, fmt.Sprintf("unrecognised jurisdiction %q, using %s", raw, c.jurisdiction))
		}
	}

	l.CollateralType = coerce.CollateralType(string(l.CollateralType))
	if l.CounterpartyType != "" {
		if cp, ok := coerce.ExposureType(string(l.CounterpartyType)); ok {
			l.CounterpartyType = cp
		} else {
			l.CounterpartyType = ""
		}
	}
	return l, notes
}

// finiteInputs zeroes NaN and infinite rate and amount fields so they read
// as missing. EAD is left to exposure, which reports its own replacement.
func finiteInputs(l *LoanExposure) []string {
	fields := []struct {
		name string
		v    *float64
	}{
		{"balance", &l.Balance},
		{"interest_rate", &l.InterestRate},
		{"pd", &l.PD},
		{"lgd", &l.LGD},
		{"capital_ratio", &l.CapitalRatio},
		{"property_value", &l.PropertyValue},
		{"annual_revenue", &l.AnnualRevenue},
		{"revenue_threshold", &l.RevenueThreshold},
	}
	var notes []string
	for _, f := range fields {
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) {
			notes = append(notes, fmt.Sprintf("%s is not a finite number; treated as missing", f.name))
			*f.v = 0
		}
	}
	return notes
}

// Calculate computes capital for one loan exposure. It never fails: domain
// problems are reported through the result's Status.
func (c *Calculator) Calculate(in LoanExposure) CapitalResult {
	requested := in.Approach
	l, notes := c.Normalize(in)

	res := CapitalResult{
		ID:                     l.ID,
		Status:                 StatusOK,
		RequestedApproach:      l.Approach,
		RequestedApproachLabel: l.Approach.Label(),
		ExposureType:           l.ExposureType,
		RatingBucket:           l.RatingBucket,
		Jurisdiction:           l.Jurisdiction,
		CapitalRatio:           coerce.NormalizeRate(l.CapitalRatio, c.opts.DefaultRatio),
		Notes:                  notes,
	}
	res.EAD = c.exposure(&res, l)

	r := c.ResolveApproach(l)
	res.EffectiveApproach = r.Effective
	res.EffectiveApproachLabel = r.Effective.Label()
	res.Regime = r.Effective.Regime()
	res.Method = r.Effective.Method()
	res.BackgroundSwitch = r.Switch
	if r.Note != "" {
		res.note(r.Note)
	}

	if r.NotApplicable {
		res.Status = StatusNotApplicable
		res.Reason = r.Reason
		res.SuggestedApproach = r.Suggested
		res.SuggestedApproachLabel = r.Suggested.Label()
		zap.L().Debug("capital: approach not applicable",
			zap.String("id", l.ID),
			zap.String("requested", string(requested)),
			zap.String("reason", r.Reason),
		)
		return res
	}
	if r.Switch != nil {
		zap.L().Debug("capital: background switch applied",
			zap.String("id", l.ID),
			zap.String("trigger", r.Switch.Trigger),
			zap.Float64("annual_revenue", l.AnnualRevenue),
			zap.Float64("threshold", r.Switch.RevenueThresholdUsed),
		)
	}

	c.route(&res, r.Effective, l)

	zap.L().Debug("capital: calculated",
		zap.String("id", l.ID),
		zap.String("approach", string(res.EffectiveApproach)),
		zap.String("status", string(res.Status)),
		zap.Float64("ead", res.EAD),
		zap.Float64("rwa", res.RWA),
		zap.Bool("output_floor_binding", res.OutputFloorBinding()),
	)
	return res
}

func (c *Calculator) route(res *CapitalResult, a basel.Approach, l LoanExposure) {
	switch a.Method() {
	case basel.MethodStandardized:
		c.calcStandardized(res, a, l)
	case basel.MethodIRB:
		c.calcIRB(res, a, l)
	default:
		res.Status = StatusError
		res.Error = fmt.Sprintf("unsupported approach: %q", a)
	}
}

// exposure resolves EAD from the request or its facility block.
func (c *Calculator) exposure(res *CapitalResult, l LoanExposure) float64 {
	if l.EAD > 0 && !math.IsInf(l.EAD, 0) {
		return l.EAD
	}
	if l.Facility != nil {
		v, d := ead.Compute(*l.Facility)
		res.EADDetails = &d
		res.note("EAD derived from facility: " + d.CalcPath)
		return v
	}
	if l.EAD < 0 || math.IsNaN(l.EAD) || math.IsInf(l.EAD, 0) {
		res.note(fmt.Sprintf("invalid EAD %v replaced with 0", l.EAD))
	}
	return 0
}

func (c *Calculator) calcStandardized(res *CapitalResult, a basel.Approach, l LoanExposure) {
	rw, cre := standardized.Resolve(a.Regime(), standardizedInput(res.EAD, l))
	res.CREDetails = cre
	res.RiskWeight = &rw
	res.RiskWeightPct = Pct(rw)
	c.finish(res, res.EAD*rw)
}

func (c *Calculator) calcIRB(res *CapitalResult, a basel.Approach, l LoanExposure) {
	class, ok := l.ExposureType.IRBAssetClass()
	if !ok {
		res.Status = StatusStub
		res.Reason = fmt.Sprintf("IRB formula not implemented for %s exposures", l.ExposureType.Label())
		res.note("IRB covers corporate, bank and sovereign exposures only; use a Standardized approach")
		return
	}

	applyBaseline := c.opts.ApplyBaselineFloors
	if l.ApplyBaselineFloors != nil {
		applyBaseline = *l.ApplyBaselineFloors
	}
	regime := floors.ResolveRegime(l.Jurisdiction, applyBaseline)

	out := irb.Compute(irb.Input{
		AssetClass:     class,
		EAD:            res.EAD,
		PD:             l.PD,
		LGD:            l.LGD,
		MaturityMonths: l.MaturityMonths,
		CapitalRatio:   res.CapitalRatio,
		ScalingFactor:  irb.ScalingFactor(a.Regime()),
		PDFloor:        regime.PD(class),
		LGDPolicy:      irb.ResolveLGDPolicy(a, class, regime, l.CollateralType),
	})
	res.IRB = &out

	rwa := out.RWA
	if a.IsOutputFloored() {
		d := outputfloor.Apply(out.RWA, standardizedInput(res.EAD, l))
		res.OutputFloor = &d
		rwa = d.RWAPostFloor
	}
	c.finish(res, rwa)
}

// finish sets RWA and everything derived from it.
func (c *Calculator) finish(res *CapitalResult, rwa float64) {
	res.RWA = rwa
	res.CapitalRequired = rwa * res.CapitalRatio
	res.EffectiveRiskWeight = irb.EffectiveRiskWeight(rwa, res.EAD)
	if res.EffectiveRiskWeight != nil {
		res.EffectiveRiskWeightPct = Pct(*res.EffectiveRiskWeight)
	}
}

func standardizedInput(exposure float64, l LoanExposure) standardized.Input {
	return standardized.Input{
		ExposureType: l.ExposureType,
		Rating:       l.RatingBucket,
		Flags:        l.Flags,
		EAD:          exposure,
		CRE:          l.CREInput,
	}
}

// Pct renders a decimal weight as a one-decimal percentage.
func Pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
