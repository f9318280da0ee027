// Package model loads a serialized logistic-regression artifact and exposes
// it as the classification model port. The artifact is a JSON export of a
// trained bag-of-words model: vocabulary, per-term coefficients and an
// intercept.
package model

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"mailtriage/core/port/out"
	"mailtriage/pkg/logger"
)

// artifact mirrors the on-disk model file.
type artifact struct {
	Classes      []int          `json:"classes"`
	Vocabulary   map[string]int `json:"vocabulary"`
	Coefficients []float64      `json:"coefficients"`
	Intercept    float64        `json:"intercept"`
}

// LogisticModel scores normalized text with a linear model over term counts.
type LogisticModel struct {
	vocabulary   map[string]int
	coefficients []float64
	intercept    float64
}

// Load reads the model artifact at path. A missing file is not an error:
// it returns (nil, nil) and the caller runs without a model.
func Load(path string) (*LogisticModel, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.WithField("path", path).Warn("Model artifact not found, classification falls back to heuristics")
			return nil, nil
		}
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if len(art.Vocabulary) == 0 {
		return nil, fmt.Errorf("model artifact has empty vocabulary")
	}
	if len(art.Coefficients) < len(art.Vocabulary) {
		return nil, fmt.Errorf("model artifact has %d coefficients for %d terms", len(art.Coefficients), len(art.Vocabulary))
	}

	logger.WithField("terms", len(art.Vocabulary)).Info("Classification model loaded")

	return &LogisticModel{
		vocabulary:   art.Vocabulary,
		coefficients: art.Coefficients,
		intercept:    art.Intercept,
	}, nil
}

// Predict computes the positive-class probability for already-normalized text.
func (m *LogisticModel) Predict(cleanText string) (out.Prediction, error) {
	z := m.intercept
	for _, term := range strings.Fields(cleanText) {
		if idx, ok := m.vocabulary[term]; ok {
			z += m.coefficients[idx]
		}
	}

	p := sigmoid(z)
	label := 0
	if p >= 0.5 {
		label = 1
	}

	return out.Prediction{
		Label:         label,
		Probabilities: []float64{1 - p, p},
	}, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
