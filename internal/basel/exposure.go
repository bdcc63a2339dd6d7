package basel

// ExposureType is the regulatory asset class of a loan exposure.
type ExposureType string

const (
	ExposureCorporate            ExposureType = "CORPORATE"
	ExposureRetail               ExposureType = "RETAIL"
	ExposureResidentialMortgage  ExposureType = "RESIDENTIAL_MORTGAGE"
	ExposureCommercialRealEstate ExposureType = "COMMERCIAL_REAL_ESTATE"
	ExposureSovereign            ExposureType = "SOVEREIGN_CENTRAL_BANK"
	ExposureBank                 ExposureType = "BANK"
	ExposureOther                ExposureType = "OTHER"
)

// ExposureTypes returns every exposure type in display order.
func ExposureTypes() []ExposureType {
	return []ExposureType{
		ExposureCorporate,
		ExposureRetail,
		ExposureResidentialMortgage,
		ExposureCommercialRealEstate,
		ExposureSovereign,
		ExposureBank,
		ExposureOther,
	}
}

// Label returns the display label, or the raw identifier when unknown.
func (e ExposureType) Label() string {
	switch e {
	case ExposureCorporate:
		return "Corporate"
	case ExposureRetail:
		return "Retail"
	case ExposureResidentialMortgage:
		return "Residential Mortgage"
	case ExposureCommercialRealEstate:
		return "Commercial Real Estate"
	case ExposureSovereign:
		return "Sovereign / Central Bank"
	case ExposureBank:
		return "Bank"
	case ExposureOther:
		return "Other"
	default:
		return string(e)
	}
}

// Valid reports whether e is a known exposure type.
func (e ExposureType) Valid() bool {
	for _, known := range ExposureTypes() {
		if e == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (e ExposureType) String() string { return string(e) }

// AssetClass is the internal IRB asset-class key. Only corporate, bank and
// sovereign exposures have an ASRF implementation.
type AssetClass string

const (
	AssetClassCorporate AssetClass = "corporate"
	AssetClassBank      AssetClass = "bank"
	AssetClassSovereign AssetClass = "sovereign"
)

// IRBAssetClass maps an exposure type to its IRB asset class. ok is false
// for exposure types without an IRB implementation.
func (e ExposureType) IRBAssetClass() (AssetClass, bool) {
	switch e {
	case ExposureCorporate:
		return AssetClassCorporate, true
	case ExposureBank:
		return AssetClassBank, true
	case ExposureSovereign:
		return AssetClassSovereign, true
	default:
		return "", false
	}
}
