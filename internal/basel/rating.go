package basel

// RatingBucket is an external credit assessment bucket, ordered from the
// best credit quality to unrated.
type RatingBucket string

const (
	RatingAAAtoAA RatingBucket = "AAA_AA"
	RatingA       RatingBucket = "A"
	RatingBBB     RatingBucket = "BBB"
	RatingBBtoB   RatingBucket = "BB_B"
	RatingBelowB  RatingBucket = "BELOW_B"
	RatingUnrated RatingBucket = "UNRATED"
)

// RatingBuckets returns every rating bucket in credit-quality order.
func RatingBuckets() []RatingBucket {
	return []RatingBucket{RatingAAAtoAA, RatingA, RatingBBB, RatingBBtoB, RatingBelowB, RatingUnrated}
}

// Label returns the display label, or the raw identifier when unknown.
func (r RatingBucket) Label() string {
	switch r {
	case RatingAAAtoAA:
		return "AAA to AA-"
	case RatingA:
		return "A+ to A-"
	case RatingBBB:
		return "BBB+ to BBB-"
	case RatingBBtoB:
		return "BB+ to B-"
	case RatingBelowB:
		return "Below B-"
	case RatingUnrated:
		return "Unrated"
	default:
		return string(r)
	}
}

// Valid reports whether r is a known rating bucket.
func (r RatingBucket) Valid() bool {
	for _, known := range RatingBuckets() {
		if r == known {
			return true
		}
	}
	return false
}

// InvestmentGrade reports whether the bucket is BBB- or better.
func (r RatingBucket) InvestmentGrade() bool {
	switch r {
	case RatingAAAtoAA, RatingA, RatingBBB:
		return true
	default:
		return false
	}
}

// OrUnrated returns r, or RatingUnrated when r is not a known bucket.
func (r RatingBucket) OrUnrated() RatingBucket {
	if r.Valid() {
		return r
	}
	return RatingUnrated
}

// String implements fmt.Stringer.
func (r RatingBucket) String() string { return string(r) }
