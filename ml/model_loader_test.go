package ml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	payload, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return payload
}

func TestLoadLogisticRegression(t *testing.T) {
	model, err := LoadModel(readFixture(t, "logreg_24h.json"), Schema24h())
	require.NoError(t, err)
	require.IsType(t, &LogisticRegression{}, model)

	p, err := model.PredictProba([]float64{1, 1, 0, 0, 32})
	require.NoError(t, err)
	assert.InDelta(t, 0.314320, p, 1e-6)
}

func TestLoadGradientBoosting(t *testing.T) {
	model, err := LoadModel(readFixture(t, "gb_72h.json"), Schema72h())
	require.NoError(t, err)
	require.IsType(t, &GradientBoosting{}, model)

	p, err := model.PredictProba([]float64{1, 1, 0, 32})
	require.NoError(t, err)
	assert.InDelta(t, 0.356635, p, 1e-6)

	p, err = model.PredictProba([]float64{0, 0, 1, 50})
	require.NoError(t, err)
	assert.InDelta(t, 0.401312, p, 1e-6)
}

func TestLoadModelRejectsSchemaMismatch(t *testing.T) {
	_, err := LoadModel(readFixture(t, "logreg_24h.json"), Schema72h())
	assert.Error(t, err)

	_, err = LoadModel(readFixture(t, "gb_72h.json"), Schema24h())
	assert.Error(t, err)
}

func TestLoadModelRejectsMalformedArtifacts(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"kind":`,
		"unknown kind":   `{"kind":"svm","version":1,"n_features":5}`,
		"bad version":    `{"kind":"logistic_regression","version":2,"n_features":5,"coef":[1,1,1,1,1]}`,
		"short coef":     `{"kind":"logistic_regression","version":1,"n_features":5,"coef":[1,1]}`,
		"feature names":  `{"kind":"logistic_regression","version":1,"n_features":5,"feature_names":["Idade","Sexo","AINES","Fotobiomodulação","Redução oclusal"],"coef":[1,1,1,1,1]}`,
		"no trees":       `{"kind":"gradient_boosting","version":1,"n_features":5,"learning_rate":0.1}`,
		"zero rate":      `{"kind":"gradient_boosting","version":1,"n_features":5,"learning_rate":0,"trees":[[{"is_leaf":true,"value":1}]]}`,
		"backward child": `{"kind":"gradient_boosting","version":1,"n_features":5,"learning_rate":0.1,"trees":[[{"feature_idx":0,"threshold":0.5,"left_child":0,"right_child":1},{"is_leaf":true}]]}`,
		"bad feature":    `{"kind":"gradient_boosting","version":1,"n_features":5,"learning_rate":0.1,"trees":[[{"feature_idx":7,"threshold":0.5,"left_child":1,"right_child":2},{"is_leaf":true},{"is_leaf":true}]]}`,
	}
	for name, payload := range cases {
		_, err := LoadModel([]byte(payload), Schema24h())
		assert.Error(t, err, name)
	}
}

func TestLogisticRegressionChecksLength(t *testing.T) {
	lr := &LogisticRegression{Coef: []float64{1, 2}}
	_, err := lr.PredictProba([]float64{1})
	assert.Error(t, err)
}

func TestSigmoidStaysInRange(t *testing.T) {
	for _, z := range []float64{-1000, -30, -1, 0, 1, 30, 1000} {
		p := sigmoid(z)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
	assert.Equal(t, 0.5, sigmoid(0))
}

func TestFileSourcePath(t *testing.T) {
	src := FileSource{Dir: "models", Files: map[ModelID]string{Model24h: "custom.json"}}
	assert.Equal(t, filepath.Join("models", "custom.json"), src.Path(Model24h))
	assert.Equal(t, filepath.Join("models", "gb_72h.json"), src.Path(Model72h))

	abs := FileSource{Dir: "models", Files: map[ModelID]string{Model24h: "/opt/m.json"}}
	assert.Equal(t, "/opt/m.json", abs.Path(Model24h))
}
