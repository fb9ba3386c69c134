package ml

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ModelLoadError means an artifact could not be turned into a classifier.
// It is fatal: a registry that returned it serves no model at all.
type ModelLoadError struct {
	Model ModelID
	Err   error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Model, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// Registry loads every configured model once and shares the instances
// read-only for the rest of its lifetime.
type Registry struct {
	source   ArtifactSource
	horizons []Horizon
	logger   *zap.Logger

	once   sync.Once
	models map[ModelID]Classifier
	err    error

	stale       atomic.Bool
	staleReason atomic.Value
}

func NewRegistry(source ArtifactSource, horizons []Horizon, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		source:   source,
		horizons: horizons,
		logger:   logger,
	}
}

// NewStaticRegistry returns a registry serving already-built classifiers.
func NewStaticRegistry(models map[ModelID]Classifier) *Registry {
	r := &Registry{logger: zap.NewNop(), models: make(map[ModelID]Classifier, len(models))}
	for id, model := range models {
		r.models[id] = model
	}
	r.once.Do(func() {})
	return r
}

// Load reads all artifacts. Concurrent callers block until the single load
// finishes and all observe its outcome.
func (r *Registry) Load() error {
	r.once.Do(r.loadAll)
	return r.err
}

func (r *Registry) loadAll() {
	start := time.Now()
	models := make(map[ModelID]Classifier, len(r.horizons))
	for _, h := range r.horizons {
		if _, ok := models[h.Model]; ok {
			continue
		}
		if r.source == nil {
			r.err = &ModelLoadError{Model: h.Model, Err: fmt.Errorf("no artifact source configured")}
			break
		}
		payload, err := r.source.ReadArtifact(h.Model)
		if err != nil {
			r.err = &ModelLoadError{Model: h.Model, Err: err}
			break
		}
		model, err := LoadModel(payload, h.Schema)
		if err != nil {
			r.err = &ModelLoadError{Model: h.Model, Err: err}
			break
		}
		models[h.Model] = model
		r.logger.Debug("model loaded", zap.String("model", string(h.Model)), zap.Int("bytes", len(payload)))
	}
	if r.err != nil {
		r.logger.Error("model registry unavailable", zap.Error(r.err))
		return
	}
	r.models = models
	r.logger.Info("models loaded", zap.Int("count", len(models)), zap.Duration("elapsed", time.Since(start)))
}

func (r *Registry) Get(id ModelID) (Classifier, error) {
	if err := r.Load(); err != nil {
		return nil, err
	}
	model, ok := r.models[id]
	if !ok {
		return nil, &ModelLoadError{Model: id, Err: fmt.Errorf("model not registered")}
	}
	return model, nil
}

// Predict scores vector with model. Column order is the caller's contract.
func (r *Registry) Predict(model Classifier, vector FeatureVector) (float64, error) {
	return model.PredictProba(vector.Values)
}

// Ready reports the load outcome, triggering the load if it has not run yet.
func (r *Registry) Ready() error {
	return r.Load()
}

// MarkStale records that an artifact changed on storage after load. Loaded
// models keep serving; a restart picks the new artifact up.
func (r *Registry) MarkStale(reason string) {
	r.staleReason.Store(reason)
	if !r.stale.Swap(true) {
		r.logger.Warn("model artifact changed after load, restart to apply", zap.String("reason", reason))
	}
}

func (r *Registry) Stale() (bool, string) {
	if !r.stale.Load() {
		return false, ""
	}
	reason, _ := r.staleReason.Load().(string)
	return true, reason
}
