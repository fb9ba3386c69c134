package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("..", "ml", "testdata"))
	require.NoError(t, err)
	return dir
}

func TestPredictCommand(t *testing.T) {
	cfg := writeConfig(t, fmt.Sprintf("models:\n  dir: %s\nlog:\n  level: error\n", fixtureDir(t)))

	out, err := run(t, "predict", "--config", cfg,
		"--age", "32", "--sex", "Female", "--occlusal-reduction", "Yes",
		"--photobiomodulation", "Yes", "--nsaid-use", "No")
	require.NoError(t, err)
	assert.Contains(t, out, "There is a 31% probability of pain at 24 hours.")
	assert.Contains(t, out, "There is a 36% probability of pain at 72 hours.")
}

func TestPredictCommandPortuguese(t *testing.T) {
	cfg := writeConfig(t, fmt.Sprintf("models:\n  dir: %s\nlog:\n  level: error\nlocale: pt-BR\n", fixtureDir(t)))

	out, err := run(t, "predict", "--config", cfg,
		"--age", "50", "--sex", "Masculino", "--occlusal-reduction", "Não",
		"--photobiomodulation", "Não", "--nsaid-use", "Sim")
	require.NoError(t, err)
	assert.Contains(t, out, "Existe a probabilidade de 38% de presença de dor em 24 horas.")
	assert.Contains(t, out, "Existe a probabilidade de 40% de presença de dor em 72 horas.")
}

func TestPredictCommandRejectsInvalidSex(t *testing.T) {
	cfg := writeConfig(t, fmt.Sprintf("models:\n  dir: %s\nlog:\n  level: error\n", fixtureDir(t)))

	_, err := run(t, "predict", "--config", cfg, "--sex", "Other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sex")
}

func TestPredictCommandMissingArtifact(t *testing.T) {
	cfg := writeConfig(t, fmt.Sprintf("models:\n  dir: %s\nlog:\n  level: error\n", t.TempDir()))

	_, err := run(t, "predict", "--config", cfg, "--age", "40", "--sex", "Male",
		"--occlusal-reduction", "No", "--photobiomodulation", "No", "--nsaid-use", "No")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load model")
}

func TestArtifactsImportAndList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "artifacts.db")
	cfg := writeConfig(t, fmt.Sprintf("models:\n  source: sqlite\ndatabase:\n  path: %s\nlog:\n  level: error\n", dbPath))

	out, err := run(t, "artifacts", "list", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "No artifacts stored.")

	out, err = run(t, "artifacts", "import", "--config", cfg, "logreg_24h", filepath.Join(fixtureDir(t), "logreg_24h.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "stored logreg_24h revision 1")

	_, err = run(t, "artifacts", "import", "--config", cfg, "gb_72h", filepath.Join(fixtureDir(t), "logreg_24h.json"))
	assert.Error(t, err)

	_, err = run(t, "artifacts", "import", "--config", cfg, "gb_72h", filepath.Join(fixtureDir(t), "gb_72h.json"))
	require.NoError(t, err)

	out, err = run(t, "artifacts", "list", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "gb_72h")
	assert.Contains(t, out, "logreg_24h")

	out, err = run(t, "predict", "--config", cfg, "--age", "32", "--sex", "Female",
		"--occlusal-reduction", "Yes", "--photobiomodulation", "Yes", "--nsaid-use", "No")
	require.NoError(t, err)
	assert.Contains(t, out, "31%")
}
