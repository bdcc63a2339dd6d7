package capital

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/capital-cli/internal/basel"
	"github.com/sells-group/capital-cli/internal/ead"
	"github.com/sells-group/capital-cli/internal/irb"
	"github.com/sells-group/capital-cli/internal/standardized"
)

func boolPtr(v bool) *bool { return &v }

func newCalc() *Calculator {
	return NewCalculator(DefaultOptions())
}

func TestCalculate_StandardizedCorporateBBB(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:     basel.ApproachBasel3Standardized,
		EAD:          1_000_000,
		ExposureType: basel.ExposureCorporate,
		RatingBucket: basel.RatingBBB,
		CapitalRatio: 0.08,
	})

	require.Equal(t, StatusOK, res.Status)
	require.NotNil(t, res.RiskWeight)
	assert.InDelta(t, 0.75, *res.RiskWeight, 1e-12)
	assert.Equal(t, "75.0%", res.RiskWeightPct)
	assert.InDelta(t, 750_000, res.RWA, 1e-6)
	assert.InDelta(t, 60_000, res.CapitalRequired, 1e-6)
	assert.Equal(t, res.RWA*res.CapitalRatio, res.CapitalRequired)
	assert.Equal(t, basel.MethodStandardized, res.Method)
	assert.Nil(t, res.IRB)
	assert.Nil(t, res.OutputFloor)
	assert.NoError(t, res.Err())
}

func TestCalculate_UnknownRatingFallsBackToUnrated(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:     basel.ApproachBasel2Standardized,
		EAD:          500_000,
		ExposureType: basel.ExposureCorporate,
		RatingBucket: "XYZ",
	})

	require.Equal(t, StatusOK, res.Status)
	assert.Equal(t, basel.RatingUnrated, res.RatingBucket)
	assert.InDelta(t, 1.0, *res.RiskWeight, 1e-12)
	assert.InDelta(t, 500_000, res.RWA, 1e-6)
	assert.NotEmpty(t, res.Notes)
}

func TestCalculate_FoundationIRBGolden(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:       basel.ApproachBasel3IRBFoundation,
		EAD:            1_000_000,
		PD:             0.01,
		LGD:            0.75,
		MaturityMonths: 36,
		ExposureType:   basel.ExposureCorporate,
		CapitalRatio:   0.08,
	})

	require.Equal(t, StatusOK, res.Status)
	require.NotNil(t, res.IRB)
	assert.Equal(t, irb.LGDSupervisory, res.IRB.LGDMode)
	assert.InDelta(t, 0.40, res.IRB.LGDUsed, 1e-15)
	assert.InDelta(t, 0.05210907138260637, res.IRB.KBeforeMaturity, 1e-12)
	assert.InDelta(t, 0.07016031382196516, res.IRB.KAdjusted, 1e-12)
	assert.InDelta(t, 1.0, res.IRB.ScalingFactor, 1e-15)

	require.NotNil(t, res.OutputFloor)
	assert.False(t, res.OutputFloor.Binding)
	assert.InDelta(t, 725_000, res.OutputFloor.FloorRWA, 1e-6)

	assert.InDelta(t, 877003.9227745645, res.RWA, 1e-6)
	assert.InDelta(t, 70160.31382196516, res.CapitalRequired, 1e-6)
	require.NotNil(t, res.EffectiveRiskWeight)
	assert.InDelta(t, 0.8770039227745645, *res.EffectiveRiskWeight, 1e-12)
	assert.Equal(t, "87.7%", res.EffectiveRiskWeightPct)
	assert.Nil(t, res.RiskWeight)
}

func TestCalculate_OutputFloorBinding(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:       basel.ApproachBasel3IRBFoundation,
		EAD:            1_000_000,
		PD:             0.001,
		MaturityMonths: 36,
		ExposureType:   basel.ExposureCorporate,
	})

	require.Equal(t, StatusOK, res.Status)
	require.NotNil(t, res.OutputFloor)
	assert.True(t, res.OutputFloor.Binding)
	assert.True(t, res.OutputFloorBinding())
	assert.InDelta(t, 296136.1486076015, res.OutputFloor.RWAPreFloor, 1e-6)
	assert.InDelta(t, 725_000, res.RWA, 1e-6)
	assert.InDelta(t, 58_000, res.CapitalRequired, 1e-6)
	assert.InDelta(t, 0.725, *res.EffectiveRiskWeight, 1e-12)
	assert.GreaterOrEqual(t, res.RWA, 0.725*res.OutputFloor.StandardizedRWA)
}

func TestCalculate_Basel2IRBScaling(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:       basel.ApproachBasel2IRB,
		EAD:            1_000_000,
		PD:             0.01,
		LGD:            0.10,
		MaturityMonths: 36,
		ExposureType:   basel.ExposureCorporate,
	})

	require.Equal(t, StatusOK, res.Status)
	assert.InDelta(t, 0.45, res.IRB.LGDUsed, 1e-15)
	assert.InDelta(t, 1.06, res.IRB.ScalingFactor, 1e-15)
	assert.Nil(t, res.OutputFloor)
	assert.InDelta(t, 1045827.1779086681, res.RWA, 1e-6)
	assert.InDelta(t, 83666.17423269345, res.CapitalRequired, 1e-6)
}

func TestCalculate_AdvancedIRBWithCanadianFloors(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:       basel.ApproachBasel3IRBAdvanced,
		EAD:            1_000_000,
		PD:             0.0003,
		LGD:            20,
		MaturityMonths: 36,
		ExposureType:   basel.ExposureCorporate,
		Jurisdiction:   "can",
	})

	require.Equal(t, StatusOK, res.Status)
	assert.Equal(t, basel.JurisdictionCAN, res.Jurisdiction)
	require.NotNil(t, res.IRB)
	assert.Equal(t, irb.LGDBankEstimated, res.IRB.LGDMode)
	assert.True(t, res.IRB.PDFloorApplied)
	assert.True(t, res.IRB.LGDFloorApplied)
	assert.InDelta(t, 0.25, res.IRB.LGDUsed, 1e-15)
	assert.InDelta(t, 124791.19852761737, res.IRB.RWA, 1e-6)
	assert.True(t, res.OutputFloorBinding())
	assert.InDelta(t, 725_000, res.RWA, 1e-6)
}

func TestCalculate_AdvancedIRBPercentInputs(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:       basel.ApproachBasel3IRBAdvanced,
		EAD:            1_000_000,
		PD:             0.01,
		LGD:            40,
		MaturityMonths: 36,
		ExposureType:   basel.ExposureCorporate,
		CapitalRatio:   8,
	})

	require.Equal(t, StatusOK, res.Status)
	assert.InDelta(t, 0.08, res.CapitalRatio, 1e-15)
	assert.False(t, res.IRB.LGDFloorApplied)
	assert.InDelta(t, 877003.9227745645, res.RWA, 1e-6)
}

func TestCalculate_BankUnderAdvancedIRBUsesSupervisoryLGD(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:     basel.ApproachBasel3IRBAdvanced,
		EAD:          1_000_000,
		PD:           0.01,
		LGD:          0.10,
		ExposureType: basel.ExposureBank,
	})

	require.Equal(t, StatusOK, res.Status)
	assert.Equal(t, irb.LGDSupervisory, res.IRB.LGDMode)
	assert.InDelta(t, 0.45, res.IRB.LGDUsed, 1e-15)
	assert.Contains(t, res.IRB.LGDSource, "bank exposures")
}

func TestCalculate_IRBStub(t *testing.T) {
	for _, e := range []basel.ExposureType{
		basel.ExposureRetail,
		basel.ExposureResidentialMortgage,
		basel.ExposureCommercialRealEstate,
		basel.ExposureOther,
	} {
		res := newCalc().Calculate(LoanExposure{
			Approach:     basel.ApproachBasel3IRBFoundation,
			EAD:          1_000_000,
			ExposureType: e,
		})
		assert.Equal(t, StatusStub, res.Status, e)
		assert.Nil(t, res.IRB)
		assert.Nil(t, res.OutputFloor)
		assert.Zero(t, res.RWA)
		assert.NotEmpty(t, res.Reason)
		assert.True(t, eris.Is(res.Err(), ErrIRBNotImplemented))
	}
}

func TestRoute_UnsupportedApproach(t *testing.T) {
	c := newCalc()
	res := CapitalResult{Status: StatusOK}
	c.route(&res, basel.Approach("BASEL_IV_MAGIC"), LoanExposure{EAD: 1})

	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Error, "unsupported approach")
	assert.True(t, eris.Is(res.Err(), ErrUnsupportedApproach))
}

func TestCalculate_LegacyStrings(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:     "Basel III IRB",
		EAD:          1_000_000,
		PD:           0.01,
		ExposureType: "corporate",
		RatingBucket: "bbb",
	})

	assert.Equal(t, basel.ApproachBasel3IRBFoundation, res.RequestedApproach)
	assert.Equal(t, basel.ExposureCorporate, res.ExposureType)
	assert.Equal(t, basel.RatingBBB, res.RatingBucket)
	assert.Equal(t, StatusOK, res.Status)
}

func TestCalculate_UnknownApproachFallsBack(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{Approach: "quantum", EAD: 100, ExposureType: basel.ExposureOther})

	assert.Equal(t, basel.ApproachBasel2Standardized, res.EffectiveApproach)
	assert.Equal(t, StatusOK, res.Status)
	assert.InDelta(t, 100, res.RWA, 1e-9)
	assert.NotEmpty(t, res.Notes)
}

func TestCalculate_UnknownJurisdictionUsesDefault(t *testing.T) {
	opts := DefaultOptions()
	opts.DefaultJurisdiction = "CAN"
	res := NewCalculator(opts).Calculate(LoanExposure{
		Approach:     basel.ApproachBasel3IRBFoundation,
		EAD:          1_000_000,
		PD:           0.0001,
		ExposureType: basel.ExposureCorporate,
		Jurisdiction: "MX",
	})

	assert.Equal(t, basel.JurisdictionCAN, res.Jurisdiction)
	assert.True(t, res.IRB.PDFloorApplied)
	assert.NotEmpty(t, res.Notes)
}

func TestCalculate_BaselineFloorsOverride(t *testing.T) {
	l := LoanExposure{
		Approach:     basel.ApproachBasel3IRBFoundation,
		EAD:          1_000_000,
		PD:           0.0001,
		ExposureType: basel.ExposureCorporate,
		Jurisdiction: basel.JurisdictionUS,
	}
	res := newCalc().Calculate(l)
	assert.False(t, res.IRB.PDFloorApplied)

	l.ApplyBaselineFloors = boolPtr(true)
	res = newCalc().Calculate(l)
	assert.True(t, res.IRB.PDFloorApplied)
	assert.InDelta(t, 0.0005, res.IRB.PDUsed, 1e-15)

	l.Jurisdiction = basel.JurisdictionEU
	res = newCalc().Calculate(l)
	assert.False(t, res.IRB.PDFloorApplied)
}

func TestCalculate_FacilityDerivesEAD(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:     basel.ApproachBasel2Standardized,
		ExposureType: basel.ExposureCorporate,
		Facility:     &ead.Facility{LoanType: "LOC", Commitment: 1000, Balance: 600},
	})

	assert.InDelta(t, 900, res.EAD, 1e-9)
	require.NotNil(t, res.EADDetails)
	assert.Equal(t, ead.LoanTypeLOC, res.EADDetails.LoanType)
	assert.InDelta(t, 900, res.RWA, 1e-9)
}

func TestCalculate_ZeroEAD(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:     basel.ApproachBasel3IRBFoundation,
		EAD:          -50,
		PD:           0.01,
		ExposureType: basel.ExposureCorporate,
	})

	assert.Equal(t, StatusOK, res.Status)
	assert.Zero(t, res.EAD)
	assert.Zero(t, res.RWA)
	assert.Nil(t, res.EffectiveRiskWeight)
	assert.NotEmpty(t, res.Notes)
}

func TestCalculate_CRE(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:     basel.ApproachBasel3Standardized,
		EAD:          1_200_000,
		ExposureType: "Commercial Real Estate",
		CREInput: standardized.CREInput{
			PropertyValue:    2_000_000,
			IncomeDependent:  true,
			CounterpartyType: "bank",
		},
	})

	require.Equal(t, StatusOK, res.Status)
	require.NotNil(t, res.CREDetails)
	assert.Equal(t, basel.ExposureBank, res.CREDetails.CounterpartyType)
	assert.Contains(t, res.CREDetails.RulePath, "income-dependent, LTV≤60%")
	assert.InDelta(t, 0.70, *res.RiskWeight, 1e-12)
	assert.InDelta(t, 840_000, res.RWA, 1e-6)
}

func TestCalculate_OutputFloorOmitsCREDetailForCorporate(t *testing.T) {
	res := newCalc().Calculate(LoanExposure{
		Approach:     basel.ApproachBasel3IRBFoundation,
		EAD:          1_200_000,
		PD:           0.01,
		ExposureType: basel.ExposureCorporate,
	})
	require.NotNil(t, res.OutputFloor)
	assert.Nil(t, res.OutputFloor.CREDetails)
}

func TestCalculate_CapitalIdentity(t *testing.T) {
	c := newCalc()
	for _, a := range basel.Approaches() {
		for _, e := range basel.ExposureTypes() {
			for _, r := range basel.RatingBuckets() {
				res := c.Calculate(LoanExposure{
					Approach:       a,
					EAD:            321_000,
					PD:             0.02,
					LGD:            0.35,
					MaturityMonths: 48,
					ExposureType:   e,
					RatingBucket:   r,
					CapitalRatio:   0.105,
				})
				assert.GreaterOrEqual(t, res.RWA, 0.0)
				assert.Equal(t, res.RWA*res.CapitalRatio, res.CapitalRequired)
				if res.OutputFloor != nil {
					assert.GreaterOrEqual(t, res.RWA, 0.725*res.OutputFloor.StandardizedRWA)
					assert.Equal(t, res.RWA > res.OutputFloor.RWAPreFloor+1e-12, res.OutputFloor.Binding)
				}
			}
		}
	}
}
