// Package standardized maps exposures to Standardized-approach risk weights
// under Basel II and Basel III, including the Basel III commercial real
// estate loan-to-value rules.
package standardized

import (
	"github.com/sells-group/capital-cli/internal/basel"
)

// Flags carries the qualifying-treatment flags used by the retail and
// residential mortgage rows.
type Flags struct {
	RegulatoryRetail bool `json:"is_regulatory_retail" yaml:"is_regulatory_retail"`
	PrudentMortgage  bool `json:"is_prudent_mortgage" yaml:"is_prudent_mortgage"`
}

// CREInput holds the commercial real estate fields. Only used under Basel III.
type CREInput struct {
	PropertyValue    float64            `json:"property_value" yaml:"property_value"`
	IncomeDependent  bool               `json:"property_income_dependent" yaml:"property_income_dependent"`
	CounterpartyType basel.ExposureType `json:"counterparty_type" yaml:"counterparty_type"`
}

// Input is everything the resolver needs for one exposure.
type Input struct {
	ExposureType basel.ExposureType
	Rating       basel.RatingBucket
	Flags        Flags
	EAD          float64
	CRE          CREInput
}

// rating-indexed grids in basel.RatingBuckets() order.
type grid [6]float64

var (
	sovereignGrid       = grid{0.00, 0.20, 0.50, 1.00, 1.50, 1.00}
	bankGrid            = grid{0.20, 0.50, 1.00, 1.00, 1.50, 1.00}
	corporateBasel2Grid = grid{0.20, 0.50, 1.00, 1.00, 1.50, 1.00}
	corporateBasel3Grid = grid{0.75, 0.75, 0.75, 1.00, 1.50, 1.00}
)

func (g grid) weight(r basel.RatingBucket) float64 {
	switch r.OrUnrated() {
	case basel.RatingAAAtoAA:
		return g[0]
	case basel.RatingA:
		return g[1]
	case basel.RatingBBB:
		return g[2]
	case basel.RatingBBtoB:
		return g[3]
	case basel.RatingBelowB:
		return g[4]
	default:
		return g[5]
	}
}

// Resolve returns the Standardized risk weight for in under regime. detail is
// non-nil only for Basel III commercial real estate.
func Resolve(regime basel.Regime, in Input) (float64, *CREDetail) {
	switch regime {
	case basel.RegimeBasel2:
		return basel2(in), nil
	case basel.RegimeBasel3:
		if in.ExposureType == basel.ExposureCommercialRealEstate {
			d := resolveCRE(in)
			return d.RWApplied, &d
		}
		return basel3(in), nil
	default:
		return 1.00, nil
	}
}

func basel2(in Input) float64 {
	switch in.ExposureType {
	case basel.ExposureSovereign:
		return sovereignGrid.weight(in.Rating)
	case basel.ExposureBank:
		return bankGrid.weight(in.Rating)
	case basel.ExposureCorporate:
		return corporateBasel2Grid.weight(in.Rating)
	case basel.ExposureRetail:
		return retail(in.Flags)
	case basel.ExposureResidentialMortgage:
		return mortgage(in.Flags)
	default:
		// CRE, other and unrecognised exposure types.
		return 1.00
	}
}

func basel3(in Input) float64 {
	switch in.ExposureType {
	case basel.ExposureSovereign:
		return sovereignGrid.weight(in.Rating)
	case basel.ExposureBank:
		return bankGrid.weight(in.Rating)
	case basel.ExposureCorporate:
		return corporateBasel3Grid.weight(in.Rating)
	case basel.ExposureRetail:
		return retail(in.Flags)
	case basel.ExposureResidentialMortgage:
		return mortgage(in.Flags)
	default:
		return 1.00
	}
}

func retail(f Flags) float64 {
	if f.RegulatoryRetail {
		return 0.75
	}
	return 1.00
}

func mortgage(f Flags) float64 {
	if f.PrudentMortgage {
		return 0.35
	}
	return 1.00
}
