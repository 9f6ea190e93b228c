package models

// VargaPosition is a planet's sign inside a divisional chart.
type VargaPosition struct {
	Planet   Planet `json:"planet"`
	Sign     int    `json:"sign"`
	SignName string `json:"sign_name"`
}

// DivisionalChart is one varga derived from natal longitudes.
type DivisionalChart struct {
	ID            string          `json:"id"` // e.g. "D9"
	Name          string          `json:"name"`
	Division      int             `json:"division"`
	AscendantSign int             `json:"ascendant_sign"`
	Positions     []VargaPosition `json:"positions"` // indexed by Planet
}

// SignOf returns the divisional sign of p.
func (d DivisionalChart) SignOf(p Planet) int {
	return d.Positions[p].Sign
}
