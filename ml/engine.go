package ml

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Horizon binds a prediction time point to its model and feature schema.
type Horizon struct {
	Hours  int
	Model  ModelID
	Schema Schema
}

func Horizons() []Horizon {
	return []Horizon{
		{Hours: 24, Model: Model24h, Schema: Schema24h()},
		{Hours: 72, Model: Model72h, Schema: Schema72h()},
	}
}

type PredictionResult struct {
	HorizonHours int     `json:"horizon_hours"`
	Probability  float64 `json:"probability"`
}

type Prediction struct {
	Pain24h PredictionResult `json:"pain_24h"`
	Pain72h PredictionResult `json:"pain_72h"`
}

func (p Prediction) Results() []PredictionResult {
	return []PredictionResult{p.Pain24h, p.Pain72h}
}

// PredictionError is a per-request failure while assembling or scoring a
// feature vector. Field or Model names where it originated.
type PredictionError struct {
	Horizon int
	Field   Field
	Model   ModelID
	Err     error
}

func (e *PredictionError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("predict %dh: field %s: %v", e.Horizon, e.Field, e.Err)
	case e.Model != "":
		return fmt.Sprintf("predict %dh: model %s: %v", e.Horizon, e.Model, e.Err)
	default:
		return fmt.Sprintf("predict %dh: %v", e.Horizon, e.Err)
	}
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

type Predictor interface {
	Predict(obs ClinicalObservation) (Prediction, error)
}

// Engine runs the 24h and 72h models over one observation.
type Engine struct {
	models ModelProvider
	logger *zap.Logger
}

func NewEngine(models ModelProvider, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{models: models, logger: logger}
}

// Predict returns both horizons or an error; never one without the other.
func (e *Engine) Predict(obs ClinicalObservation) (Prediction, error) {
	horizons := Horizons()
	pain24, err := e.score(horizons[0], obs)
	if err != nil {
		return Prediction{}, err
	}
	pain72, err := e.score(horizons[1], obs)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{Pain24h: pain24, Pain72h: pain72}, nil
}

func (e *Engine) score(h Horizon, obs ClinicalObservation) (PredictionResult, error) {
	vector, err := BuildFor(h.Schema, obs)
	if err != nil {
		perr := &PredictionError{Horizon: h.Hours, Err: err}
		var invalid *InvalidValueError
		if errors.As(err, &invalid) {
			perr.Field = invalid.Field
		}
		return PredictionResult{}, perr
	}

	model, err := e.models.Get(h.Model)
	if err != nil {
		var loadErr *ModelLoadError
		if errors.As(err, &loadErr) {
			return PredictionResult{}, err
		}
		return PredictionResult{}, &PredictionError{Horizon: h.Hours, Model: h.Model, Err: err}
	}

	probability, err := e.models.Predict(model, vector)
	if err != nil {
		e.logger.Warn("model scoring failed", zap.String("model", string(h.Model)), zap.Error(err))
		return PredictionResult{}, &PredictionError{Horizon: h.Hours, Model: h.Model, Err: err}
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return PredictionResult{}, &PredictionError{
			Horizon: h.Hours,
			Model:   h.Model,
			Err:     fmt.Errorf("probability %v outside [0,1]", probability),
		}
	}
	return PredictionResult{HorizonHours: h.Hours, Probability: probability}, nil
}
