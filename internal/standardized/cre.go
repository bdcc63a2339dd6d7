package standardized

import (
	"fmt"
	"math"

	"github.com/sells-group/capital-cli/internal/basel"
)

// LTV bucket labels reported in CREDetail.
const (
	BucketUpTo60   = "LTV<=60%"
	Bucket60To80   = "60%<LTV<=80%"
	BucketAbove80  = "LTV>80%"
	BucketAbove60  = "LTV>60%"
	BucketUnknown  = "LTV unknown"
	creAssetClass  = "commercial_real_estate"
	ltvThreshold60 = 0.60
	ltvThreshold80 = 0.80
)

// CREDetail is the audit record of a Basel III CRE risk-weight decision.
type CREDetail struct {
	AssetClass            string             `json:"asset_class"`
	IncomeDependent       bool               `json:"income_dependent"`
	CounterpartyType      basel.ExposureType `json:"counterparty_type"`
	CounterpartyTypeLabel string             `json:"counterparty_type_label"`
	CounterpartyRW        float64            `json:"counterparty_rw"`
	PropertyValue         float64            `json:"property_value"`
	EAD                   float64            `json:"ead"`
	LTV                   *float64           `json:"ltv"`
	LTVBucket             string             `json:"ltv_bucket"`
	RulePath              string             `json:"rule_path"`
	RWApplied             float64            `json:"rw_applied"`
}

// LTV returns EAD / property value, or nil when the property value is not
// positive.
func LTV(ead, propertyValue float64) *float64 {
	if propertyValue <= 0 || math.IsNaN(propertyValue) || math.IsInf(propertyValue, 0) {
		return nil
	}
	v := ead / propertyValue
	return &v
}

// propertyValue is the audit echo of v: non-finite values read as missing.
func propertyValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CounterpartyRiskWeight resolves the counterparty's own Basel III
// Standardized weight. Counterparties other than corporates and banks are
// floored at 100%.
func CounterpartyRiskWeight(cp basel.ExposureType, rating basel.RatingBucket, flags Flags) float64 {
	if cp == basel.ExposureCommercialRealEstate {
		// A property cannot be its own obligor; price it as "other".
		cp = basel.ExposureOther
	}
	rw := basel3(Input{ExposureType: cp, Rating: rating, Flags: flags})
	if cp != basel.ExposureCorporate && cp != basel.ExposureBank {
		rw = math.Max(rw, 1.00)
	}
	return rw
}

func resolveCRE(in Input) CREDetail {
	cp := in.CRE.CounterpartyType
	if !cp.Valid() {
		cp = basel.ExposureCorporate
	}
	cpRW := CounterpartyRiskWeight(cp, in.Rating, in.Flags)
	ltv := LTV(in.EAD, in.CRE.PropertyValue)

	d := CREDetail{
		AssetClass:            creAssetClass,
		IncomeDependent:       in.CRE.IncomeDependent,
		CounterpartyType:      cp,
		CounterpartyTypeLabel: cp.Label(),
		CounterpartyRW:        cpRW,
		PropertyValue:         propertyValue(in.CRE.PropertyValue),
		EAD:                   in.EAD,
		LTV:                   ltv,
	}

	if in.CRE.IncomeDependent {
		switch {
		case ltv == nil:
			d.LTVBucket, d.RWApplied = BucketUnknown, 1.10
		case *ltv <= ltvThreshold60:
			d.LTVBucket, d.RWApplied = BucketUpTo60, 0.70
		case *ltv <= ltvThreshold80:
			d.LTVBucket, d.RWApplied = Bucket60To80, 0.90
		default:
			d.LTVBucket, d.RWApplied = BucketAbove80, 1.10
		}
		d.RulePath = fmt.Sprintf("Basel III CRE > income-dependent, %s > RW %s", pathLTV(d.LTVBucket), pct(d.RWApplied))
		return d
	}

	var rule string
	switch {
	case ltv == nil:
		d.LTVBucket = BucketUnknown
		d.RWApplied = math.Max(cpRW, 1.00)
		rule = "max(counterparty RW, 100%)"
	case *ltv <= ltvThreshold60:
		d.LTVBucket = BucketUpTo60
		d.RWApplied = math.Min(0.60, cpRW)
		rule = "min(60%, counterparty RW)"
	default:
		d.LTVBucket = BucketAbove60
		d.RWApplied = cpRW
		rule = "counterparty RW"
	}
	d.RulePath = fmt.Sprintf("Basel III CRE > general, %s > %s (%s %s) > RW %s",
		pathLTV(d.LTVBucket), rule, cp.Label(), pct(cpRW), pct(d.RWApplied))
	return d
}

// pathLTV renders a bucket label with typographic comparison signs.
func pathLTV(bucket string) string {
	switch bucket {
	case BucketUpTo60:
		return "LTV≤60%"
	case Bucket60To80:
		return "60%<LTV≤80%"
	default:
		return bucket
	}
}

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
