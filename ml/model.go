package ml

// ModelID names a classifier artifact.
type ModelID string

const (
	Model24h ModelID = "logreg_24h"
	Model72h ModelID = "gb_72h"
)

// Classifier is an already-fitted binary probabilistic classifier.
// PredictProba returns the probability of the positive (pain present) class.
type Classifier interface {
	PredictProba(features []float64) (float64, error)
}

// ModelProvider hands out loaded classifiers by id and scores vectors with them.
type ModelProvider interface {
	Get(id ModelID) (Classifier, error)
	Predict(model Classifier, vector FeatureVector) (float64, error)
}
