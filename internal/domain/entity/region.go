package entity

// RegionDeclaration is one region supplied by the host: a titled group of
// sub-region ids rendered and selected as a single unit.
type RegionDeclaration struct {
	Title          string        `json:"title"`
	SubRegionIDs   []string      `json:"regionIds"`
	PrimaryColor   string        `json:"primaryColor"`
	SecondaryColor string        `json:"secondaryColor"`
	ScoutingHome   *ScoutingHome `json:"scoutingHome,omitempty"`
}

// ScoutingHome is the optional meeting place of the group owning a region
type ScoutingHome struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}
