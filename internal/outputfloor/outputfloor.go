// Package outputfloor reconciles Basel III IRB RWA against 72.5% of the
// Standardized RWA for the same exposure.
package outputfloor

import (
	"math"

	"github.com/sells-group/capital-cli/internal/basel"
	"github.com/sells-group/capital-cli/internal/standardized"
)

// Factor is the fully phased-in Basel III output floor.
const Factor = 0.725

const epsilon = 1e-12

// Detail records the floor computation.
type Detail struct {
	Factor                 float64                 `json:"floor_factor"`
	StandardizedRiskWeight float64                 `json:"standardized_risk_weight"`
	StandardizedRWA        float64                 `json:"standardized_rwa"`
	FloorRWA               float64                 `json:"floor_rwa"`
	RWAPreFloor            float64                 `json:"rwa_pre_floor"`
	RWAPostFloor           float64                 `json:"rwa_post_floor"`
	Binding                bool                    `json:"binding"`
	CREDetails             *standardized.CREDetail `json:"cre_details,omitempty"`
}

// Apply floors irbRWA at Factor times the Basel III Standardized RWA of sa.
// sa.EAD must carry the exposure's EAD.
func Apply(irbRWA float64, sa standardized.Input) Detail {
	rw, cre := standardized.Resolve(basel.RegimeBasel3, sa)
	saRWA := sa.EAD * rw
	floor := Factor * saRWA
	post := math.Max(irbRWA, floor)

	return Detail{
		Factor:                 Factor,
		StandardizedRiskWeight: rw,
		StandardizedRWA:        saRWA,
		FloorRWA:               floor,
		RWAPreFloor:            irbRWA,
		RWAPostFloor:           post,
		Binding:                post > irbRWA+epsilon,
		CREDetails:             cre,
	}
}
