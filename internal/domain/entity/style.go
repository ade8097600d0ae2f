package entity

// Style is applied as a whole to every member of a rendered group
type Style struct {
	StrokeColor string  `json:"strokeColor"`
	FillColor   string  `json:"fillColor"`
	Weight      float64 `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
}
