package ml

import (
	"errors"
	"fmt"
	"math"
)

type LogisticRegression struct {
	Coef      []float64
	Intercept float64
}

func (lr *LogisticRegression) PredictProba(features []float64) (float64, error) {
	if len(lr.Coef) == 0 {
		return 0, errors.New("model has no coefficients")
	}
	if len(features) != len(lr.Coef) {
		return 0, fmt.Errorf("expected %d features, got %d", len(lr.Coef), len(features))
	}
	z := lr.Intercept
	for i, x := range features {
		z += lr.Coef[i] * x
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	ez := math.Exp(z)
	return ez / (1 + ez)
}
