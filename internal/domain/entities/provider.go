package entities

// Provider represents a single medical provider loaded from the catalog.
// Instances are owned by the catalog cache and must be treated as read-only
// by every consumer; a ranking pass never mutates them.
type Provider struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Specialty    string   `json:"specialty"`
	ZipCode      string   `json:"zip_code"`
	Insurances   []string `json:"insurances"`
	Rating       float64  `json:"rating"`
	Distance     float64  `json:"distance"`
	Availability string   `json:"availability_date"`
}

// AcceptsInsurance reports whether the provider accepts the named payer.
func (p *Provider) AcceptsInsurance(name string) bool {
	for _, ins := range p.Insurances {
		if ins == name {
			return true
		}
	}
	return false
}

// RankedMatch is one entry of a ranking result. Score orders the entries and
// is not part of the API response payload.
type RankedMatch struct {
	Name          string  `json:"name"`
	Specialty     string  `json:"specialty"`
	Distance      float64 `json:"distance"`
	Availability  string  `json:"availability"`
	RankingReason string  `json:"ranking_reason"`
	Score         float64 `json:"-"`
}
