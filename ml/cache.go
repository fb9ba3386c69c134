package ml

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedPredictor memoizes predictions per observation. Models are immutable
// after load, so a cached prediction equals a fresh one. Failures are not
// cached.
type CachedPredictor struct {
	next  Predictor
	cache *lru.Cache[ClinicalObservation, Prediction]
}

// NewCachedPredictor wraps next with an LRU of size entries. A non-positive
// size returns next unchanged.
func NewCachedPredictor(next Predictor, size int) (Predictor, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New[ClinicalObservation, Prediction](size)
	if err != nil {
		return nil, err
	}
	return &CachedPredictor{next: next, cache: cache}, nil
}

func (c *CachedPredictor) Predict(obs ClinicalObservation) (Prediction, error) {
	if prediction, ok := c.cache.Get(obs); ok {
		return prediction, nil
	}
	prediction, err := c.next.Predict(obs)
	if err != nil {
		return Prediction{}, err
	}
	c.cache.Add(obs, prediction)
	return prediction, nil
}

func (c *CachedPredictor) Len() int {
	return c.cache.Len()
}
