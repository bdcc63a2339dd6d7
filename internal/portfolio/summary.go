package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/capital-cli/internal/capital"
)

// Summary aggregates a portfolio run. Monetary totals are rounded to cents
// and only include results with status ok.
type Summary struct {
	Count              int                    `json:"count" yaml:"count"`
	ByStatus           map[capital.Status]int `json:"by_status" yaml:"by_status"`
	TotalEAD           decimal.Decimal        `json:"total_ead" yaml:"total_ead"`
	TotalRWA           decimal.Decimal        `json:"total_rwa" yaml:"total_rwa"`
	TotalCapital       decimal.Decimal        `json:"total_capital_required" yaml:"total_capital_required"`
	AverageRiskWeight  decimal.Decimal        `json:"average_risk_weight" yaml:"average_risk_weight"`
	OutputFloorBinding int                    `json:"output_floor_binding" yaml:"output_floor_binding"`
	BackgroundSwitches int                    `json:"background_switches" yaml:"background_switches"`
}

// Summarize totals results.
func Summarize(results []capital.CapitalResult) Summary {
	s := Summary{
		Count:    len(results),
		ByStatus: make(map[capital.Status]int),
	}

	ead, rwa, capitalReq := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range results {
		s.ByStatus[r.Status]++
		if r.BackgroundSwitch != nil {
			s.BackgroundSwitches++
		}
		if r.Status != capital.StatusOK {
			continue
		}
		if r.OutputFloorBinding() {
			s.OutputFloorBinding++
		}
		ead = ead.Add(decimal.NewFromFloat(r.EAD))
		rwa = rwa.Add(decimal.NewFromFloat(r.RWA))
		capitalReq = capitalReq.Add(decimal.NewFromFloat(r.CapitalRequired))
	}

	s.TotalEAD = ead.Round(2)
	s.TotalRWA = rwa.Round(2)
	s.TotalCapital = capitalReq.Round(2)
	if ead.IsPositive() {
		s.AverageRiskWeight = rwa.DivRound(ead, 6)
	}
	return s
}
