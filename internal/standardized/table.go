package standardized

import "github.com/sells-group/capital-cli/internal/basel"

// Row is one exposure type's risk weights across rating buckets, in
// basel.RatingBuckets() order, with the qualifying flags switched on and off.
type Row struct {
	ExposureType basel.ExposureType `json:"exposure_type"`
	Label        string             `json:"label"`
	Weights      []float64          `json:"weights"`
	Qualifying   []float64          `json:"qualifying_weights,omitempty"`
	Note         string             `json:"note,omitempty"`
}

// Table renders the risk-weight grid for a regime. Commercial real estate
// under Basel III is shown at its LTV-unknown corporate fallback.
func Table(regime basel.Regime) []Row {
	var rows []Row
	for _, e := range basel.ExposureTypes() {
		row := Row{ExposureType: e, Label: e.Label()}
		for _, r := range basel.RatingBuckets() {
			rw, _ := Resolve(regime, Input{ExposureType: e, Rating: r})
			row.Weights = append(row.Weights, rw)
		}

		switch e {
		case basel.ExposureRetail:
			row.Qualifying = qualifying(regime, e, Flags{RegulatoryRetail: true})
			row.Note = "qualifying = regulatory retail; rating ignored"
		case basel.ExposureResidentialMortgage:
			row.Qualifying = qualifying(regime, e, Flags{PrudentMortgage: true})
			row.Note = "qualifying = prudently underwritten; rating ignored"
		case basel.ExposureCommercialRealEstate:
			if regime == basel.RegimeBasel3 {
				row.Note = "LTV rule engine; shown with unknown LTV and corporate counterparty"
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func qualifying(regime basel.Regime, e basel.ExposureType, f Flags) []float64 {
	out := make([]float64, 0, len(basel.RatingBuckets()))
	for _, r := range basel.RatingBuckets() {
		rw, _ := Resolve(regime, Input{ExposureType: e, Rating: r, Flags: f})
		out = append(out, rw)
	}
	return out
}
