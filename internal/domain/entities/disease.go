package entities

// DiseasePrediction is one class/confidence pair from the classifier.
type DiseasePrediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// DiseaseResult is the classifier output for one leaf image. Confidence is a
// fraction in [0,1] and Top holds at most the three best predictions sorted
// descending by confidence.
type DiseaseResult struct {
	Class      string              `json:"class"`
	Confidence float64             `json:"confidence"`
	Top        []DiseasePrediction `json:"top"`
}
