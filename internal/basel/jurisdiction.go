package basel

// Jurisdiction selects the national implementation of the IRB input floors
// and the large-corporate revenue threshold.
type Jurisdiction string

const (
	JurisdictionUS  Jurisdiction = "US"
	JurisdictionCAN Jurisdiction = "CAN"
	JurisdictionEU  Jurisdiction = "EU"
)

// Jurisdictions returns every supported jurisdiction.
func Jurisdictions() []Jurisdiction {
	return []Jurisdiction{JurisdictionUS, JurisdictionCAN, JurisdictionEU}
}

// Valid reports whether j is a supported jurisdiction.
func (j Jurisdiction) Valid() bool {
	switch j {
	case JurisdictionUS, JurisdictionCAN, JurisdictionEU:
		return true
	default:
		return false
	}
}

// DefaultRevenueThreshold returns the consolidated annual revenue above which
// a corporate borrower is not eligible for Advanced IRB.
func (j Jurisdiction) DefaultRevenueThreshold() float64 {
	if j == JurisdictionCAN {
		return 750_000_000
	}
	return 500_000_000
}

// CollateralType tags the collateral securing an exposure. It selects the
// secured LGD floor under Advanced IRB.
type CollateralType string

const (
	CollateralNone          CollateralType = ""
	CollateralFinancial     CollateralType = "financial"
	CollateralReceivables   CollateralType = "receivables"
	CollateralRealEstate    CollateralType = "real_estate"
	CollateralOtherPhysical CollateralType = "other_physical"
	CollateralIntangibles   CollateralType = "intangibles"
)

// CollateralTypes returns every collateral type including the unsecured tag.
func CollateralTypes() []CollateralType {
	return []CollateralType{
		CollateralNone,
		CollateralFinancial,
		CollateralReceivables,
		CollateralRealEstate,
		CollateralOtherPhysical,
		CollateralIntangibles,
	}
}

// Label returns the display label.
func (c CollateralType) Label() string {
	switch c {
	case CollateralFinancial:
		return "Financial collateral"
	case CollateralReceivables:
		return "Receivables"
	case CollateralRealEstate:
		return "Real estate collateral"
	case CollateralOtherPhysical:
		return "Other physical collateral"
	case CollateralIntangibles:
		return "Intangibles"
	default:
		return "Unsecured / None"
	}
}
