package capital

import (
	"fmt"
	"math"

	"github.com/sells-group/capital-cli/internal/basel"
)

// Background switch triggers.
const (
	TriggerRevenue = "revenue_threshold"
	TriggerForced  = "force_foundation_irb"
)

// Resolution is the approach a request actually runs under.
type Resolution struct {
	Requested basel.Approach
	Effective basel.Approach
	Switch    *BackgroundSwitch

	// NotApplicable is set when the requested approach is not permitted and
	// the switch is disabled. Suggested names the permitted alternative.
	NotApplicable bool
	Reason        string
	Suggested     basel.Approach

	// Note explains an input the resolver could not use.
	Note string
}

// ResolveApproach applies the large-corporate rule: corporates whose annual
// revenue exceeds the jurisdiction threshold may not use Advanced IRB. When
// the switch is enabled they are moved to Foundation IRB, otherwise the
// request is not applicable. l must already be coerced.
func (c *Calculator) ResolveApproach(l LoanExposure) Resolution {
	res := Resolution{Requested: l.Approach, Effective: l.Approach}
	if l.Approach != basel.ApproachBasel3IRBAdvanced {
		return res
	}

	revenue, known := l.AnnualRevenue, true
	if math.IsNaN(revenue) || math.IsInf(revenue, 0) {
		revenue, known = 0, false
		res.Note = "annual_revenue is not a finite number; treated as unknown"
	}

	to := basel.ApproachBasel3IRBFoundation
	record := func(trigger string, threshold float64) *BackgroundSwitch {
		return &BackgroundSwitch{
			Enabled:              true,
			Trigger:              trigger,
			FromApproach:         l.Approach,
			FromApproachLabel:    l.Approach.Label(),
			ToApproach:           to,
			ToApproachLabel:      to.Label(),
			AnnualRevenue:        revenue,
			RevenueThresholdUsed: threshold,
			Jurisdiction:         l.Jurisdiction,
		}
	}

	threshold := c.RevenueThreshold(l.Jurisdiction, l.RevenueThreshold)
	if l.ForceFoundationIRB {
		res.Effective = to
		res.Switch = record(TriggerForced, threshold)
		return res
	}

	if !known || l.ExposureType != basel.ExposureCorporate || revenue <= threshold {
		return res
	}

	enabled := c.opts.LargeCorporateSwitch
	if l.LargeCorporateSwitch != nil {
		enabled = *l.LargeCorporateSwitch
	}
	if enabled {
		res.Effective = to
		res.Switch = record(TriggerRevenue, threshold)
		return res
	}

	res.NotApplicable = true
	res.Suggested = to
	res.Reason = fmt.Sprintf(
		"Advanced IRB is not permitted for corporates with annual revenue above the %s threshold (%.0f > %.0f)",
		l.Jurisdiction, revenue, threshold)
	return res
}

// RevenueThreshold returns override when positive, else the configured
// threshold for j, else the jurisdiction default.
func (c *Calculator) RevenueThreshold(j basel.Jurisdiction, override float64) float64 {
	if override > 0 && !math.IsInf(override, 1) {
		return override
	}
	if v, ok := c.opts.RevenueThresholds[string(j)]; ok && v > 0 {
		return v
	}
	return j.DefaultRevenueThreshold()
}
