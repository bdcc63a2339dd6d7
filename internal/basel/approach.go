package basel

// Regime identifies the Basel framework generation.
type Regime string

const (
	RegimeBasel2 Regime = "basel2"
	RegimeBasel3 Regime = "basel3"
)

// Method identifies the calculation family used for credit risk.
type Method string

const (
	MethodStandardized Method = "standardized"
	MethodIRB          Method = "irb"
)

// Approach is the canonical capital approach identifier.
type Approach string

const (
	ApproachBasel2Standardized  Approach = "BASEL_II_STANDARDIZED"
	ApproachBasel2IRB           Approach = "BASEL_II_IRB"
	ApproachBasel3Standardized  Approach = "BASEL_III_STANDARDIZED"
	ApproachBasel3IRBFoundation Approach = "BASEL_III_IRB_FOUNDATION"
	ApproachBasel3IRBAdvanced   Approach = "BASEL_III_IRB_ADVANCED"
)

// approachMeta is the immutable metadata attached to an Approach.
type approachMeta struct {
	label  string
	regime Regime
	method Method
}

func lookupApproach(a Approach) (approachMeta, bool) {
	switch a {
	case ApproachBasel2Standardized:
		return approachMeta{"Basel II - Standardized", RegimeBasel2, MethodStandardized}, true
	case ApproachBasel2IRB:
		return approachMeta{"Basel II - IRB (Foundation)", RegimeBasel2, MethodIRB}, true
	case ApproachBasel3Standardized:
		return approachMeta{"Basel III - Standardized", RegimeBasel3, MethodStandardized}, true
	case ApproachBasel3IRBFoundation:
		return approachMeta{"Basel III - IRB (Foundation) + Output Floor", RegimeBasel3, MethodIRB}, true
	case ApproachBasel3IRBAdvanced:
		return approachMeta{"Basel III - IRB (Advanced) + Output Floor", RegimeBasel3, MethodIRB}, true
	default:
		return approachMeta{}, false
	}
}

// Approaches returns every supported approach in display order.
func Approaches() []Approach {
	return []Approach{
		ApproachBasel2Standardized,
		ApproachBasel2IRB,
		ApproachBasel3Standardized,
		ApproachBasel3IRBFoundation,
		ApproachBasel3IRBAdvanced,
	}
}

// Valid reports whether a is a known approach.
func (a Approach) Valid() bool {
	_, ok := lookupApproach(a)
	return ok
}

// Label returns the display label, or the raw identifier when unknown.
func (a Approach) Label() string {
	if m, ok := lookupApproach(a); ok {
		return m.label
	}
	return string(a)
}

// Regime returns the Basel regime, or "" when unknown.
func (a Approach) Regime() Regime {
	m, _ := lookupApproach(a)
	return m.regime
}

// Method returns the calculation method, or "" when unknown.
func (a Approach) Method() Method {
	m, _ := lookupApproach(a)
	return m.method
}

// IsAdvancedIRB reports whether the approach lets the bank supply its own LGD.
func (a Approach) IsAdvancedIRB() bool {
	return a == ApproachBasel3IRBAdvanced
}

// IsOutputFloored reports whether the Basel III output floor applies.
func (a Approach) IsOutputFloored() bool {
	return a.Regime() == RegimeBasel3 && a.Method() == MethodIRB
}

// String implements fmt.Stringer.
func (a Approach) String() string { return string(a) }
