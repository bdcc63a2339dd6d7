package irb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/capital-cli/internal/basel"
	"github.com/sells-group/capital-cli/internal/floors"
)

func TestSupervisoryLGD(t *testing.T) {
	assert.InDelta(t, 0.45, SupervisoryLGD(basel.RegimeBasel2, basel.AssetClassCorporate), 1e-15)
	assert.InDelta(t, 0.45, SupervisoryLGD(basel.RegimeBasel2, basel.AssetClassBank), 1e-15)
	assert.InDelta(t, 0.40, SupervisoryLGD(basel.RegimeBasel3, basel.AssetClassCorporate), 1e-15)
	assert.InDelta(t, 0.45, SupervisoryLGD(basel.RegimeBasel3, basel.AssetClassBank), 1e-15)
	assert.InDelta(t, 0.45, SupervisoryLGD(basel.RegimeBasel3, basel.AssetClassSovereign), 1e-15)
}

func TestResolveLGDPolicy_FoundationNeverFloored(t *testing.T) {
	for _, j := range basel.Jurisdictions() {
		for _, c := range basel.CollateralTypes() {
			for _, approach := range []basel.Approach{basel.ApproachBasel2IRB, basel.ApproachBasel3IRBFoundation} {
				r := floors.ResolveRegime(j, true)
				p := ResolveLGDPolicy(approach, basel.AssetClassCorporate, r, c)
				assert.Equal(t, LGDSupervisory, p.Mode)
				assert.False(t, p.Floor.Enabled)

				res := Compute(Input{AssetClass: basel.AssetClassCorporate, EAD: 1, PD: 0.01, LGD: 0.01, ScalingFactor: 1, LGDPolicy: p})
				assert.Equal(t, LGDSupervisory, res.LGDMode)
				assert.False(t, res.LGDFloorApplied)
				assert.Nil(t, res.LGDFloorValue)
			}
		}
	}
}

func TestResolveLGDPolicy_BankStaysSupervisory(t *testing.T) {
	r := floors.ResolveRegime(basel.JurisdictionCAN, false)
	p := ResolveLGDPolicy(basel.ApproachBasel3IRBAdvanced, basel.AssetClassBank, r, basel.CollateralFinancial)
	assert.Equal(t, LGDSupervisory, p.Mode)
	assert.InDelta(t, 0.45, p.Supervisory, 1e-15)
	assert.Contains(t, p.Source, "bank exposures")
}

func TestResolveLGDPolicy_AdvancedCorporate(t *testing.T) {
	us := floors.ResolveRegime(basel.JurisdictionUS, false)
	p := ResolveLGDPolicy(basel.ApproachBasel3IRBAdvanced, basel.AssetClassCorporate, us, basel.CollateralRealEstate)
	assert.Equal(t, LGDBankEstimated, p.Mode)
	assert.False(t, p.Floor.Enabled)

	res := Compute(Input{AssetClass: basel.AssetClassCorporate, EAD: 1, PD: 0.01, LGD: 0.05, ScalingFactor: 1, LGDPolicy: p})
	assert.InDelta(t, 0.05, res.LGDUsed, 1e-15)
	assert.False(t, res.LGDFloorApplied)

	optedIn := floors.ResolveRegime(basel.JurisdictionUS, true)
	p = ResolveLGDPolicy(basel.ApproachBasel3IRBAdvanced, basel.AssetClassCorporate, optedIn, basel.CollateralRealEstate)
	res = Compute(Input{AssetClass: basel.AssetClassCorporate, EAD: 1, PD: 0.01, LGD: 0.05, ScalingFactor: 1, LGDPolicy: p})
	assert.InDelta(t, 0.10, res.LGDUsed, 1e-15)
	assert.True(t, res.LGDFloorApplied)
}

func TestScalingFactor(t *testing.T) {
	assert.InDelta(t, 1.06, ScalingFactor(basel.RegimeBasel2), 1e-15)
	assert.InDelta(t, 1.0, ScalingFactor(basel.RegimeBasel3), 1e-15)
}
