// Package coerce adapts loosely-typed inputs (legacy display labels,
// free-text identifiers, percentages) onto the typed enumerations used by the
// capital engine. Nothing in the calculation core depends on this package;
// it exists for callers that still send strings.
package coerce

import (
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/capital-cli/internal/basel"
)

var (
	fold         = cases.Fold()
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
	nonBankRe    = regexp.MustCompile(`\bnon[ -]?bank`)
)

// key folds case and collapses separators so "Basel_III  IRB" and
// "basel iii irb" compare equal.
func key(s string) string {
	s = fold.String(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "\t", " ").Replace(s)
	return multiSpaceRe.ReplaceAllString(s, " ")
}

// compact strips every separator and sign, used for rating symbols.
func compact(s string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "", "+", "", "/", "", ".", "").Replace(key(s))
}

// LookupApproach resolves s to an approach. Exact identifiers match first,
// then case-insensitive identifiers and labels, then a substring heuristic.
func LookupApproach(s string) (basel.Approach, bool) {
	if a := basel.Approach(s); a.Valid() {
		return a, true
	}
	k := key(s)
	if k == "" {
		return "", false
	}
	// Older callers used a single Basel III IRB identifier.
	if k == "basel iii irb" {
		return basel.ApproachBasel3IRBFoundation, true
	}
	for _, a := range basel.Approaches() {
		if k == key(string(a)) || k == key(a.Label()) {
			return a, true
		}
	}

	switch {
	case strings.Contains(k, "basel iii") || strings.Contains(k, "basel 3"):
		switch {
		case strings.Contains(k, "standard"):
			return basel.ApproachBasel3Standardized, true
		case strings.Contains(k, "advanced") || strings.Contains(k, "a-irb") || strings.Contains(k, "airb"):
			return basel.ApproachBasel3IRBAdvanced, true
		case strings.Contains(k, "irb") || strings.Contains(k, "foundation"):
			return basel.ApproachBasel3IRBFoundation, true
		}
	case strings.Contains(k, "basel ii") || strings.Contains(k, "basel 2"):
		switch {
		case strings.Contains(k, "standard"):
			return basel.ApproachBasel2Standardized, true
		case strings.Contains(k, "irb"):
			return basel.ApproachBasel2IRB, true
		}
	}
	return "", false
}

// Approach resolves s, falling back to Basel II Standardized when the input
// is not recognised.
func Approach(s string) basel.Approach {
	if a, ok := LookupApproach(s); ok {
		return a
	}
	return basel.ApproachBasel2Standardized
}

// ExposureType resolves s to an exposure type. ok is false when nothing
// matched; the zero value is priced as "other" downstream.
func ExposureType(s string) (basel.ExposureType, bool) {
	if e := basel.ExposureType(s); e.Valid() {
		return e, true
	}
	k := key(s)
	if k == "" {
		return "", false
	}
	for _, e := range basel.ExposureTypes() {
		if k == key(string(e)) || k == key(e.Label()) {
			return e, true
		}
	}

	// Asset-class words win over "bank", which often names the lender.
	switch {
	case strings.Contains(k, "sovereign") || strings.Contains(k, "central bank"):
		return basel.ExposureSovereign, true
	case k == "cre" || (strings.Contains(k, "commercial") && strings.Contains(k, "real estate")):
		return basel.ExposureCommercialRealEstate, true
	case strings.Contains(k, "corporate"):
		return basel.ExposureCorporate, true
	case strings.Contains(k, "residential") || strings.Contains(k, "mortgage"):
		return basel.ExposureResidentialMortgage, true
	case strings.Contains(k, "retail"):
		return basel.ExposureRetail, true
	case strings.Contains(k, "bank") && !nonBankRe.MatchString(k):
		return basel.ExposureBank, true
	case strings.Contains(k, "other"):
		return basel.ExposureOther, true
	}
	return "", false
}

// RatingBucket resolves s to a rating bucket. ok is false when nothing
// matched; the zero value is priced as unrated downstream.
func RatingBucket(s string) (basel.RatingBucket, bool) {
	if r := basel.RatingBucket(s); r.Valid() {
		return r, true
	}
	k := key(s)
	if k == "" {
		return "", false
	}
	for _, r := range basel.RatingBuckets() {
		if k == key(string(r)) || k == key(r.Label()) {
			return r, true
		}
	}

	switch compact(s) {
	case "aaa", "aa", "aaatoaa", "aaaaa":
		return basel.RatingAAAtoAA, true
	case "a", "atoa":
		return basel.RatingA, true
	case "bbb", "bbbtobbb":
		return basel.RatingBBB, true
	case "bb", "b", "bbtob":
		return basel.RatingBBtoB, true
	case "belowb", "ccc", "cc", "c", "d":
		return basel.RatingBelowB, true
	case "nr", "none", "notrated":
		return basel.RatingUnrated, true
	}
	return "", false
}

// Jurisdiction resolves s to a jurisdiction code.
func Jurisdiction(s string) (basel.Jurisdiction, bool) {
	switch key(s) {
	case "us", "usa", "united states":
		return basel.JurisdictionUS, true
	case "can", "ca", "canada":
		return basel.JurisdictionCAN, true
	case "eu", "europe", "european union":
		return basel.JurisdictionEU, true
	}
	return "", false
}

// Regime resolves s to a Basel regime.
func Regime(s string) (basel.Regime, bool) {
	switch compact(s) {
	case "basel2", "baselii", "b2", "ii", "2":
		return basel.RegimeBasel2, true
	case "basel3", "baseliii", "b3", "iii", "3":
		return basel.RegimeBasel3, true
	}
	return "", false
}

// CollateralType resolves s to a collateral tag. Unrecognised input maps to
// the unsecured tag, which carries the highest LGD floor.
func CollateralType(s string) basel.CollateralType {
	k := key(s)
	if k == "" {
		return basel.CollateralNone
	}
	for _, c := range basel.CollateralTypes() {
		if c != basel.CollateralNone && (k == key(string(c)) || k == key(c.Label())) {
			return c
		}
	}

	switch {
	case strings.Contains(k, "financial") || strings.Contains(k, "cash") || strings.Contains(k, "securities"):
		return basel.CollateralFinancial
	case strings.Contains(k, "receivable"):
		return basel.CollateralReceivables
	case strings.Contains(k, "real estate") || strings.Contains(k, "property"):
		return basel.CollateralRealEstate
	case strings.Contains(k, "physical") || strings.Contains(k, "equipment") || strings.Contains(k, "inventory"):
		return basel.CollateralOtherPhysical
	case strings.Contains(k, "intangible"):
		return basel.CollateralIntangibles
	}
	return basel.CollateralNone
}

// NormalizeRate coerces a decimal-or-percentage input. Values <= 0 (or NaN)
// become def, values above 1 are read as percentages, anything else is
// returned unchanged. Both 0.45 and 45 therefore normalise to 0.45.
func NormalizeRate(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return def
	}
	if v > 1 {
		return v / 100
	}
	return v
}
