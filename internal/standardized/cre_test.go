package standardized

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/capital-cli/internal/basel"
)

func creInput(ead, property float64, incomeDependent bool, cp basel.ExposureType, rating basel.RatingBucket) Input {
	return Input{
		ExposureType: basel.ExposureCommercialRealEstate,
		Rating:       rating,
		EAD:          ead,
		CRE: CREInput{
			PropertyValue:    property,
			IncomeDependent:  incomeDependent,
			CounterpartyType: cp,
		},
	}
}

func TestCRE_BankIncomeProducingLTV60(t *testing.T) {
	rw, d := Resolve(basel.RegimeBasel3, creInput(1_200_000, 2_000_000, true, basel.ExposureBank, basel.RatingUnrated))
	require.NotNil(t, d)

	assert.InDelta(t, 0.70, rw, 1e-12)
	assert.Equal(t, "commercial_real_estate", d.AssetClass)
	assert.True(t, d.IncomeDependent)
	assert.Equal(t, basel.ExposureBank, d.CounterpartyType)
	assert.Equal(t, "Bank", d.CounterpartyTypeLabel)
	assert.InDelta(t, 1.00, d.CounterpartyRW, 1e-12)
	require.NotNil(t, d.LTV)
	assert.InDelta(t, 0.60, *d.LTV, 1e-12)
	assert.Equal(t, BucketUpTo60, d.LTVBucket)
	assert.Contains(t, d.RulePath, "income-dependent, LTV≤60%")
	assert.InDelta(t, 0.70, d.RWApplied, 1e-12)
	assert.InDelta(t, 2_000_000, d.PropertyValue, 1e-9)
	assert.InDelta(t, 1_200_000, d.EAD, 1e-9)
}

func TestCRE_IncomeDependentBuckets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ead      float64
		property float64
		bucket   string
		want     float64
	}{
		{"ltv 50%", 500_000, 1_000_000, BucketUpTo60, 0.70},
		{"ltv 70%", 700_000, 1_000_000, Bucket60To80, 0.90},
		{"ltv 80% boundary", 800_000, 1_000_000, Bucket60To80, 0.90},
		{"ltv 95%", 950_000, 1_000_000, BucketAbove80, 1.10},
		{"ltv unknown", 950_000, 0, BucketUnknown, 1.10},
		{"negative property", 950_000, -5, BucketUnknown, 1.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rw, d := Resolve(basel.RegimeBasel3, creInput(tt.ead, tt.property, true, basel.ExposureCorporate, basel.RatingA))
			require.NotNil(t, d)
			assert.InDelta(t, tt.want, rw, 1e-12)
			assert.Equal(t, tt.bucket, d.LTVBucket)
			assert.Contains(t, d.RulePath, "income-dependent")
		})
	}
}

func TestCRE_GeneralBranch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cp       basel.ExposureType
		rating   basel.RatingBucket
		ead      float64
		property float64
		bucket   string
		cpRW     float64
		want     float64
	}{
		{"low ltv caps at 60%", basel.ExposureCorporate, basel.RatingUnrated, 500_000, 1_000_000, BucketUpTo60, 1.00, 0.60},
		{"low ltv strong bank below 60%", basel.ExposureBank, basel.RatingAAAtoAA, 500_000, 1_000_000, BucketUpTo60, 0.20, 0.20},
		{"high ltv uses counterparty", basel.ExposureCorporate, basel.RatingBelowB, 900_000, 1_000_000, BucketAbove60, 1.50, 1.50},
		{"high ltv investment grade corporate", basel.ExposureCorporate, basel.RatingBBB, 900_000, 1_000_000, BucketAbove60, 0.75, 0.75},
		{"unknown ltv floors at 100%", basel.ExposureCorporate, basel.RatingA, 900_000, 0, BucketUnknown, 0.75, 1.00},
		{"sovereign counterparty floored", basel.ExposureSovereign, basel.RatingAAAtoAA, 500_000, 1_000_000, BucketUpTo60, 1.00, 0.60},
		{"cre counterparty priced as other", basel.ExposureCommercialRealEstate, basel.RatingAAAtoAA, 900_000, 1_000_000, BucketAbove60, 1.00, 1.00},
		{"missing counterparty defaults to corporate", basel.ExposureType(""), basel.RatingBBB, 900_000, 1_000_000, BucketAbove60, 0.75, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rw, d := Resolve(basel.RegimeBasel3, creInput(tt.ead, tt.property, false, tt.cp, tt.rating))
			require.NotNil(t, d)
			assert.InDelta(t, tt.want, rw, 1e-12)
			assert.Equal(t, tt.bucket, d.LTVBucket)
			assert.InDelta(t, tt.cpRW, d.CounterpartyRW, 1e-12)
			assert.False(t, d.IncomeDependent)
			assert.Contains(t, d.RulePath, "general")
		})
	}
}

func TestCRE_GeneralMonotonicInLTV(t *testing.T) {
	for _, rating := range basel.RatingBuckets() {
		for _, cp := range []basel.ExposureType{basel.ExposureCorporate, basel.ExposureBank, basel.ExposureRetail} {
			prev := -1.0
			for ead := 0.0; ead <= 1_500_000; ead += 50_000 {
				rw, _ := Resolve(basel.RegimeBasel3, creInput(ead, 1_000_000, false, cp, rating))
				assert.GreaterOrEqual(t, rw, prev, "rating=%s cp=%s ead=%v", rating, cp, ead)
				prev = rw
			}
		}
	}
}

func TestCRE_Basel2IsFlat(t *testing.T) {
	rw, d := Resolve(basel.RegimeBasel2, creInput(1_200_000, 2_000_000, true, basel.ExposureBank, basel.RatingAAAtoAA))
	assert.InDelta(t, 1.00, rw, 1e-12)
	assert.Nil(t, d)
}

func TestLTV(t *testing.T) {
	assert.Nil(t, LTV(100, 0))
	assert.Nil(t, LTV(100, -1))
	assert.Nil(t, LTV(100, math.NaN()))
	assert.Nil(t, LTV(100, math.Inf(1)))
	v := LTV(50, 200)
	require.NotNil(t, v)
	assert.InDelta(t, 0.25, *v, 1e-15)
}

func TestCRE_NonFinitePropertyValue(t *testing.T) {
	d := resolveCRE(creInput(1_000_000, math.Inf(1), true, basel.ExposureCorporate, basel.RatingBBB))
	assert.Zero(t, d.PropertyValue)
	assert.Nil(t, d.LTV)
	assert.Equal(t, BucketUnknown, d.LTVBucket)
}
