package entities

// RecommendationItem is one IFS model recommendation for a district.
type RecommendationItem struct {
	Model       string `json:"ifs_model"`
	Zone        string `json:"agro_climatic_zone"`
	Description string `json:"description"`
}

// RecommendationResponse is the assembled recommendation payload for one
// request. The location fields are only set when the district was resolved by
// geocoding free-text input.
type RecommendationResponse struct {
	InputDistrict    string               `json:"input_district,omitempty"`
	MatchedDistrict  string               `json:"matched_district"`
	MatchScore       int                  `json:"match_score"`
	Recommendations  []RecommendationItem `json:"recommendations"`
	InputLocation    string               `json:"input_location,omitempty"`
	GeocodedDistrict string               `json:"geocoded_district,omitempty"`
	GeocodeAddress   map[string]string    `json:"geocode_address,omitempty"`
}
