package entities

import (
	"encoding/json"
	"time"
)

// AnalysisRecord is one persisted analysis: request inputs plus whichever of
// the two branch results succeeded. Exactly one record is written per analyze
// call once both branches settle.
type AnalysisRecord struct {
	ID           string          `json:"id" db:"id"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	Location     string          `json:"location,omitempty" db:"location"`
	District     string          `json:"district,omitempty" db:"district"`
	Crop         string          `json:"crop,omitempty" db:"crop"`
	SoilType     string          `json:"soil_type,omitempty" db:"soil_type"`
	DiseaseResult json.RawMessage `json:"disease_result,omitempty" db:"disease_result"`
	IFSResult     json.RawMessage `json:"ifs_result,omitempty" db:"ifs_result"`
	ErrorMessage  string          `json:"error_message,omitempty" db:"error_message"`
}

// AnalysisSummary is the flattened history listing shape.
type AnalysisSummary struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	Location          string    `json:"location,omitempty"`
	District          string    `json:"district,omitempty"`
	Crop              string    `json:"crop,omitempty"`
	SoilType          string    `json:"soil_type,omitempty"`
	DiseaseClass      string    `json:"disease_class,omitempty"`
	DiseaseConfidence *float64  `json:"disease_confidence,omitempty"`
	MatchedDistrict   string    `json:"ifs_matched_district,omitempty"`
}
