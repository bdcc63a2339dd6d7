package ead

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		f       Facility
		want    float64
		ccf     float64
		drawn   float64
		undrawn float64
	}{
		{"term ignores undrawn", Facility{LoanType: "term", Commitment: 1000, Balance: 600}, 600, 0, 600, 400},
		{"loc default 75%", Facility{LoanType: "LOC", Commitment: 1000, Balance: 600}, 900, 0.75, 600, 400},
		{"lc full conversion", Facility{LoanType: "lc", Commitment: 1000, Balance: 200}, 1000, 1.0, 200, 800},
		{"unknown is term", Facility{LoanType: "bond", Commitment: 1000, Balance: 300}, 300, 0, 300, 700},
		{"balance above commitment clamps", Facility{LoanType: "LOC", Commitment: 1000, Balance: 1500}, 1000, 0.75, 1000, 0},
		{"negative balance clamps", Facility{LoanType: "TERM", Commitment: 1000, Balance: -5}, 0, 0, 0, 1000},
		{"utilization derives balance", Facility{LoanType: "LOC", Commitment: 1000, UtilizationPct: ptr(40)}, 850, 0.75, 400, 600},
		{"utilization ignored for term", Facility{LoanType: "TERM", Commitment: 1000, UtilizationPct: ptr(0.4)}, 0, 0, 0, 1000},
		{"scalar override", Facility{LoanType: "LOC", Commitment: 1000, Balance: 600, UndrawnCCFOverride: ptr(0.5)}, 800, 0.5, 600, 400},
		{"negative override ignored", Facility{LoanType: "LOC", Commitment: 1000, Balance: 600, UndrawnCCFOverride: ptr(-1)}, 900, 0.75, 600, 400},
		{"product override", Facility{LoanType: "LOC", Commitment: 1000, Balance: 600, ProductCCFOverrides: map[string]float64{"loc": 0.2}}, 680, 0.2, 600, 400},
		{"nan override ignored", Facility{LoanType: "LOC", Commitment: 1000, Balance: 600, UndrawnCCFOverride: ptr(math.NaN())}, 900, 0.75, 600, 400},
		{"infinite product override ignored", Facility{LoanType: "LOC", Commitment: 1000, Balance: 600, ProductCCFOverrides: map[string]float64{"LOC": math.Inf(1)}}, 900, 0.75, 600, 400},
		{"nan commitment is zero", Facility{LoanType: "LOC", Commitment: math.NaN(), Balance: 600}, 0, 0.75, 0, 0},
		{
			"scalar beats product override",
			Facility{LoanType: "LOC", Commitment: 1000, Balance: 600, UndrawnCCFOverride: ptr(1), ProductCCFOverrides: map[string]float64{"LOC": 0.2}},
			1000, 1, 600, 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, d := Compute(tt.f)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.InDelta(t, tt.want, d.EAD, 1e-9)
			assert.InDelta(t, tt.ccf, d.UndrawnCCFUsed, 1e-12)
			assert.InDelta(t, tt.drawn, d.BalanceDrawn, 1e-9)
			assert.InDelta(t, tt.undrawn, d.UndrawnCommitment, 1e-9)
			assert.Contains(t, d.CalcPath, "EAD = drawn")
			assert.NotNil(t, d.ProductCCFOverrides)

			_, err := json.Marshal(d)
			assert.NoError(t, err)
		})
	}
}

func TestParseLoanType(t *testing.T) {
	assert.Equal(t, LoanTypeLOC, ParseLoanType(" loc "))
	assert.Equal(t, LoanTypeLOC, ParseLoanType("Revolver"))
	assert.Equal(t, LoanTypeLC, ParseLoanType("LC"))
	assert.Equal(t, LoanTypeTerm, ParseLoanType(""))
	assert.Equal(t, LoanTypeTerm, ParseLoanType("mezzanine"))
}
