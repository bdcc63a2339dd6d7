package capital

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/capital-cli/internal/basel"
	"github.com/sells-group/capital-cli/internal/ead"
	"github.com/sells-group/capital-cli/internal/irb"
	"github.com/sells-group/capital-cli/internal/outputfloor"
	"github.com/sells-group/capital-cli/internal/standardized"
)

// Sentinel errors surfaced through CapitalResult.Err.
var (
	ErrUnsupportedApproach = eris.New("capital: unsupported approach")
	ErrIRBNotImplemented   = eris.New("capital: no IRB formula for exposure type")
	ErrNotApplicable       = eris.New("capital: approach not applicable")
)

// Status is the terminal state of a calculation.
type Status string

const (
	StatusOK            Status = "ok"
	StatusStub          Status = "stub"
	StatusNotApplicable Status = "not_applicable"
	StatusError         Status = "error"
)

// LoanExposure is one loan capital request. Enumerated fields accept
// canonical identifiers or legacy labels; rates accept decimals or
// percentages.
type LoanExposure struct {
	ID                 string             `json:"id,omitempty" yaml:"id,omitempty"`
	Approach           basel.Approach     `json:"approach" yaml:"approach"`
	EAD                float64            `json:"ead" yaml:"ead"`
	Balance            float64            `json:"balance" yaml:"balance"`
	MaturityMonths     int                `json:"maturity_months" yaml:"maturity_months"`
	AmortizationMonths int                `json:"amortization_months" yaml:"amortization_months"`
	InterestRate       float64            `json:"interest_rate" yaml:"interest_rate"`
	PD                 float64            `json:"pd" yaml:"pd"`
	LGD                float64            `json:"lgd" yaml:"lgd"`
	ExposureType       basel.ExposureType `json:"exposure_type" yaml:"exposure_type"`
	RatingBucket       basel.RatingBucket `json:"rating_bucket" yaml:"rating_bucket"`
	CapitalRatio       float64            `json:"capital_ratio" yaml:"capital_ratio"`
	Jurisdiction       basel.Jurisdiction `json:"jurisdiction" yaml:"jurisdiction"`

	standardized.Flags    `yaml:",inline"`
	standardized.CREInput `yaml:",inline"`

	// ApplyBaselineFloors and LargeCorporateSwitch override the calculator
	// defaults when set.
	ApplyBaselineFloors  *bool                `json:"apply_bcbs_baseline_floors,omitempty" yaml:"apply_bcbs_baseline_floors,omitempty"`
	CollateralType       basel.CollateralType `json:"collateral_type,omitempty" yaml:"collateral_type,omitempty"`
	AnnualRevenue        float64              `json:"annual_revenue,omitempty" yaml:"annual_revenue,omitempty"`
	RevenueThreshold     float64              `json:"revenue_threshold,omitempty" yaml:"revenue_threshold,omitempty"`
	LargeCorporateSwitch *bool                `json:"large_corporate_switch,omitempty" yaml:"large_corporate_switch,omitempty"`
	ForceFoundationIRB   bool                 `json:"force_foundation_irb,omitempty" yaml:"force_foundation_irb,omitempty"`

	// Facility derives EAD when EAD is not positive.
	Facility *ead.Facility `json:"facility,omitempty" yaml:"facility,omitempty"`
}

// BackgroundSwitch records an Advanced to Foundation IRB downgrade.
type BackgroundSwitch struct {
	Enabled              bool               `json:"enabled"`
	Trigger              string             `json:"trigger"`
	FromApproach         basel.Approach     `json:"from_approach"`
	FromApproachLabel    string             `json:"from_approach_label"`
	ToApproach           basel.Approach     `json:"to_approach"`
	ToApproachLabel      string             `json:"to_approach_label"`
	AnnualRevenue        float64            `json:"annual_revenue"`
	RevenueThresholdUsed float64            `json:"revenue_threshold_used"`
	Jurisdiction         basel.Jurisdiction `json:"jurisdiction"`
}

// CapitalResult is the outcome of one loan calculation. RWA and capital are
// only meaningful when Status is StatusOK.
type CapitalResult struct {
	ID     string `json:"id,omitempty"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`

	RequestedApproach      basel.Approach     `json:"requested_approach"`
	RequestedApproachLabel string             `json:"requested_approach_label"`
	EffectiveApproach      basel.Approach     `json:"effective_approach"`
	EffectiveApproachLabel string             `json:"effective_approach_label"`
	Regime                 basel.Regime       `json:"regime"`
	Method                 basel.Method       `json:"method"`
	ExposureType           basel.ExposureType `json:"exposure_type"`
	RatingBucket           basel.RatingBucket `json:"rating_bucket"`
	Jurisdiction           basel.Jurisdiction `json:"jurisdiction"`

	EAD                    float64  `json:"ead"`
	RWA                    float64  `json:"rwa"`
	CapitalRequired        float64  `json:"capital_required"`
	CapitalRatio           float64  `json:"capital_ratio"`
	RiskWeight             *float64 `json:"risk_weight,omitempty"`
	RiskWeightPct          string   `json:"risk_weight_pct,omitempty"`
	EffectiveRiskWeight    *float64 `json:"effective_risk_weight,omitempty"`
	EffectiveRiskWeightPct string   `json:"effective_risk_weight_pct,omitempty"`

	EADDetails       *ead.Detail             `json:"ead_details,omitempty"`
	IRB              *irb.Result             `json:"irb,omitempty"`
	CREDetails       *standardized.CREDetail `json:"cre_details,omitempty"`
	OutputFloor      *outputfloor.Detail     `json:"output_floor,omitempty"`
	BackgroundSwitch *BackgroundSwitch       `json:"background_switch,omitempty"`

	SuggestedApproach      basel.Approach `json:"suggested_approach,omitempty"`
	SuggestedApproachLabel string         `json:"suggested_approach_label,omitempty"`

	Notes []string `json:"notes,omitempty"`
}

// Err converts a non-ok status into a wrapped sentinel error.
func (r CapitalResult) Err() error {
	switch r.Status {
	case StatusOK:
		return nil
	case StatusStub:
		return eris.Wrap(ErrIRBNotImplemented, r.Reason)
	case StatusNotApplicable:
		return eris.Wrap(ErrNotApplicable, r.Reason)
	default:
		return eris.Wrap(ErrUnsupportedApproach, r.Error)
	}
}

// OutputFloorBinding reports whether the output floor raised the RWA.
func (r CapitalResult) OutputFloorBinding() bool {
	return r.OutputFloor != nil && r.OutputFloor.Binding
}

func (r *CapitalResult) note(s string) {
	r.Notes = append(r.Notes, s)
}
