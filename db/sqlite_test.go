package db

import (
	"os"
	"path/filepath"
	"testing"

	"painpredict/ml"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	payload, err := os.ReadFile(filepath.Join("..", "ml", "testdata", name))
	require.NoError(t, err)
	return payload
}

func openStore(t *testing.T) *ArtifactStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "artifacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestArtifactStorePutAndRead(t *testing.T) {
	store := openStore(t)
	payload := fixture(t, "logreg_24h.json")

	info, err := store.Put(ml.Model24h, payload)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Version)
	assert.Equal(t, len(payload), info.Size)

	got, err := store.ReadArtifact(ml.Model24h)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	info, err = store.Put(ml.Model24h, payload)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Version)
}

func TestArtifactStoreMissing(t *testing.T) {
	store := openStore(t)
	_, err := store.ReadArtifact(ml.Model72h)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestArtifactStoreRejectsInvalidPayload(t *testing.T) {
	store := openStore(t)

	_, err := store.Put(ml.Model72h, fixture(t, "logreg_24h.json"))
	assert.Error(t, err)

	_, err = store.Put(ml.ModelID("svm_48h"), fixture(t, "logreg_24h.json"))
	assert.Error(t, err)

	infos, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestArtifactStoreList(t *testing.T) {
	store := openStore(t)
	_, err := store.Put(ml.Model24h, fixture(t, "logreg_24h.json"))
	require.NoError(t, err)
	_, err = store.Put(ml.Model72h, fixture(t, "gb_72h.json"))
	require.NoError(t, err)
	_, err = store.Put(ml.Model72h, fixture(t, "gb_72h.json"))
	require.NoError(t, err)

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, ml.Model72h, infos[0].ModelID)
	assert.Equal(t, 2, infos[0].Version)
	assert.Equal(t, ml.Model24h, infos[1].ModelID)
	assert.Equal(t, 1, infos[1].Version)
}

func TestArtifactStoreFeedsRegistry(t *testing.T) {
	store := openStore(t)
	_, err := store.Put(ml.Model24h, fixture(t, "logreg_24h.json"))
	require.NoError(t, err)
	_, err = store.Put(ml.Model72h, fixture(t, "gb_72h.json"))
	require.NoError(t, err)

	registry := ml.NewRegistry(store, ml.Horizons(), nil)
	require.NoError(t, registry.Ready())

	obs, err := ml.NewObservation(ml.ObservationInput{
		Age: 32, Sex: "Female", OcclusalReduction: "Yes", Photobiomodulation: "Yes", NSAIDUse: "No",
	})
	require.NoError(t, err)
	prediction, err := ml.NewEngine(registry, nil).Predict(obs)
	require.NoError(t, err)
	assert.InDelta(t, 0.314320, prediction.Pain24h.Probability, 1e-6)
}
