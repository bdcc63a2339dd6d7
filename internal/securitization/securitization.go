// Package securitization holds placeholder capital multipliers for
// securitization tranches. None of the regulatory formulas (SSFA, SEC-SA,
// SEC-ERBA, SEC-IRB) are implemented; every result says so in its notes.
package securitization

import (
	"math"
	"strings"
)

// Method identifies a securitization framework.
type Method string

const (
	MethodSSFA   Method = "SSFA"
	MethodSECSA  Method = "SEC-SA"
	MethodERBA   Method = "SEC-ERBA"
	MethodSECIRB Method = "SEC-IRB"
)

// CapitalRatio is the fixed ratio applied to placeholder RWA.
const CapitalRatio = 0.08

type placeholder struct {
	label  string
	weight float64
	notes  string
}

var placeholders = map[Method]placeholder{
	MethodSSFA:   {"SSFA (Basel II) - placeholder", 0.5, "SSFA is not implemented: requires pool loss parameters and tranche attachment/detachment points."},
	MethodSECSA:  {"SEC-SA (Basel III) - placeholder", 1.0, "SEC-SA placeholder: supervisory formula mapping not implemented."},
	MethodERBA:   {"SEC-ERBA (Basel III) - placeholder", 0.75, "SEC-ERBA placeholder: external-ratings-based mapping not implemented."},
	MethodSECIRB: {"SEC-IRB (Basel III) - placeholder", 0.6, "SEC-IRB placeholder: IRB securitization formula not implemented."},
}

// Methods lists the recognised frameworks.
func Methods() []Method {
	return []Method{MethodSSFA, MethodSECSA, MethodERBA, MethodSECIRB}
}

// ParseMethod matches free text to a framework. ok is false when nothing
// matches.
func ParseMethod(s string) (Method, bool) {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "ssfa"):
		return MethodSSFA, true
	case strings.Contains(l, "sec-sa"), strings.Contains(l, "sec sa"), l == "sa":
		return MethodSECSA, true
	case strings.Contains(l, "erba"):
		return MethodERBA, true
	case strings.Contains(l, "irb"):
		return MethodSECIRB, true
	default:
		return "", false
	}
}

// Result is a placeholder securitization capital record.
type Result struct {
	Status                string  `json:"status"`
	Error                 string  `json:"error,omitempty"`
	Method                Method  `json:"method,omitempty"`
	Approach              string  `json:"approach,omitempty"`
	TrancheRating         string  `json:"tranche_rating,omitempty"`
	CreditEnhancement     float64 `json:"credit_enhancement"`
	CreditEnhancementUsed float64 `json:"credit_enhancement_used"`
	RiskWeight            float64 `json:"risk_weight"`
	EAD                   float64 `json:"ead"`
	RWA                   float64 `json:"rwa"`
	CapitalRatio          float64 `json:"capital_ratio"`
	CapitalRequired       float64 `json:"capital_required"`
	Notes                 string  `json:"notes,omitempty"`
}

// Calculate applies the placeholder multiplier for approach. Credit
// enhancement is recorded but does not affect the result.
func Calculate(approach string, exposure float64, trancheRating string, creditEnhancement float64) Result {
	m, ok := ParseMethod(approach)
	if !ok {
		return Result{Status: "error", Error: "unknown securitization approach: " + approach}
	}
	p := placeholders[m]
	rwa := exposure * p.weight
	return Result{
		Status:                "ok",
		Method:                m,
		Approach:              p.label,
		TrancheRating:         trancheRating,
		CreditEnhancement:     creditEnhancement,
		CreditEnhancementUsed: math.Min(1, creditEnhancement/100),
		RiskWeight:            p.weight,
		EAD:                   exposure,
		RWA:                   rwa,
		CapitalRatio:          CapitalRatio,
		CapitalRequired:       rwa * CapitalRatio,
		Notes:                 p.notes,
	}
}
