package models

// StrengthStatus buckets a Shad Bala percentage.
type StrengthStatus string

const (
	StatusVeryStrong StrengthStatus = "Very Strong"
	StatusStrong     StrengthStatus = "Strong"
	StatusModerate   StrengthStatus = "Moderate"
	StatusWeak       StrengthStatus = "Weak"
	StatusVeryWeak   StrengthStatus = "Very Weak"
)

// StatusFor maps a percentage onto the five strength bands.
func StatusFor(pct float64) StrengthStatus {
	switch {
	case pct >= 80:
		return StatusVeryStrong
	case pct >= 60:
		return StatusStrong
	case pct >= 40:
		return StatusModerate
	case pct >= 20:
		return StatusWeak
	default:
		return StatusVeryWeak
	}
}

// StrengthBreakdown is the six-fold strength of a classical planet.
// Each component is in [0,15]; Total in [0,60].
type StrengthBreakdown struct {
	Planet     Planet         `json:"planet"`
	Sthana     float64        `json:"sthana_bala"`
	Dig        float64        `json:"dig_bala"`
	Kala       float64        `json:"kala_bala"`
	Chesta     float64        `json:"chesta_bala"`
	Naisargika float64        `json:"naisargika_bala"`
	Drishti    float64        `json:"drishti_bala"`
	Total      float64        `json:"total"`
	Percentage float64        `json:"percentage"`
	Status     StrengthStatus `json:"status"`
}

// HouseLordStrength attributes a lord's strength to the house it rules.
type HouseLordStrength struct {
	House      int            `json:"house"`
	Sign       int            `json:"sign"`
	Lord       Planet         `json:"lord"`
	Percentage float64        `json:"percentage"`
	Status     StrengthStatus `json:"status"`
}
