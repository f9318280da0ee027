package out

// Prediction is the output of a trained classification model for one text.
type Prediction struct {
	// Label is the predicted class: 1 for productive, 0 for unproductive.
	Label int
	// Probabilities holds the class probability distribution, indexed by label.
	Probabilities []float64
}

// MaxProbability returns the highest class probability, or 0 when the
// distribution is empty.
func (p Prediction) MaxProbability() float64 {
	max := 0.0
	for _, prob := range p.Probabilities {
		if prob > max {
			max = prob
		}
	}
	return max
}

// Model defines the outbound port for a trained text classification model.
// Implementations must be safe for concurrent use: the artifact is loaded once
// at startup and only read afterwards.
type Model interface {
	// Predict classifies pre-processed clean text.
	Predict(cleanText string) (Prediction, error)
}
