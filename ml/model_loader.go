package ml

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

const (
	KindLogisticRegression = "logistic_regression"
	KindGradientBoosting   = "gradient_boosting"

	ArtifactVersion = 1
)

// Artifact is the serialized form of a fitted classifier.
type Artifact struct {
	Kind         string       `json:"kind"`
	Version      int          `json:"version"`
	NFeatures    int          `json:"n_features"`
	FeatureNames []string     `json:"feature_names,omitempty"`
	Coef         []float64    `json:"coef,omitempty"`
	Intercept    float64      `json:"intercept,omitempty"`
	LearningRate float64      `json:"learning_rate,omitempty"`
	InitScore    float64      `json:"init_score,omitempty"`
	Trees        [][]TreeNode `json:"trees,omitempty"`
}

// LoadModel decodes an artifact payload and checks it against the schema the
// caller will score it with.
func LoadModel(payload []byte, schema Schema) (Classifier, error) {
	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if artifact.Version != ArtifactVersion {
		return nil, fmt.Errorf("unsupported artifact version %d", artifact.Version)
	}
	if artifact.NFeatures != schema.Len() {
		return nil, fmt.Errorf("artifact expects %d features, schema %s has %d", artifact.NFeatures, schema.Name, schema.Len())
	}
	if len(artifact.FeatureNames) > 0 {
		expected := schema.ColumnNames()
		if len(artifact.FeatureNames) != len(expected) {
			return nil, fmt.Errorf("artifact lists %d feature names, expected %d", len(artifact.FeatureNames), len(expected))
		}
		for i, name := range artifact.FeatureNames {
			if name != expected[i] {
				return nil, fmt.Errorf("feature %d is %q, expected %q", i, name, expected[i])
			}
		}
	}

	switch artifact.Kind {
	case KindLogisticRegression:
		if len(artifact.Coef) != artifact.NFeatures {
			return nil, fmt.Errorf("expected %d coefficients, got %d", artifact.NFeatures, len(artifact.Coef))
		}
		if !finite(artifact.Intercept) || !finite(artifact.Coef...) {
			return nil, errors.New("non-finite coefficient")
		}
		return &LogisticRegression{
			Coef:      append([]float64(nil), artifact.Coef...),
			Intercept: artifact.Intercept,
		}, nil
	case KindGradientBoosting:
		if len(artifact.Trees) == 0 {
			return nil, errors.New("gradient boosting artifact has no trees")
		}
		if artifact.LearningRate <= 0 || !finite(artifact.LearningRate, artifact.InitScore) {
			return nil, fmt.Errorf("invalid learning rate %v", artifact.LearningRate)
		}
		trees := make([]*RegressionTree, len(artifact.Trees))
		for i, nodes := range artifact.Trees {
			tree, err := NewRegressionTree(nodes, artifact.NFeatures)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
			trees[i] = tree
		}
		return &GradientBoosting{
			InitScore:    artifact.InitScore,
			LearningRate: artifact.LearningRate,
			Trees:        trees,
			FeatureCount: artifact.NFeatures,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported model kind %q", artifact.Kind)
	}
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ArtifactSource reads serialized artifacts by model id.
type ArtifactSource interface {
	ReadArtifact(id ModelID) ([]byte, error)
}

// FileSource reads one JSON file per model.
type FileSource struct {
	Dir   string
	Files map[ModelID]string
}

func (s FileSource) Path(id ModelID) string {
	name, ok := s.Files[id]
	if !ok {
		name = string(id) + ".json"
	}
	if filepath.IsAbs(name) || s.Dir == "" {
		return name
	}
	return filepath.Join(s.Dir, name)
}

func (s FileSource) ReadArtifact(id ModelID) ([]byte, error) {
	return os.ReadFile(s.Path(id))
}
