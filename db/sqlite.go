package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"painpredict/ml"

	_ "github.com/mattn/go-sqlite3"
)

// ErrArtifactNotFound is returned when no artifact is stored for a model id.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore keeps serialized model artifacts in SQLite. It satisfies
// ml.ArtifactSource.
type ArtifactStore struct {
	database *sql.DB
}

// ArtifactInfo describes a stored artifact without its payload.
type ArtifactInfo struct {
	ModelID    ml.ModelID `json:"model_id"`
	Version    int        `json:"version"`
	Size       int        `json:"size"`
	ImportedAt time.Time  `json:"imported_at"`
}

// Open opens (and creates if needed) the SQLite database at path.
func Open(path string) (*ArtifactStore, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS model_artifacts (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        model_id TEXT NOT NULL,
        version INTEGER NOT NULL,
        payload BLOB NOT NULL,
        imported_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_model_artifacts_model ON model_artifacts(model_id, id);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &ArtifactStore{database: database}, nil
}

func (s *ArtifactStore) Close() error {
	return s.database.Close()
}

// Put stores a new revision of the artifact for id. The payload is validated
// against the schema of the horizon served by id before it is written.
func (s *ArtifactStore) Put(id ml.ModelID, payload []byte) (ArtifactInfo, error) {
	schema, ok := schemaFor(id)
	if !ok {
		return ArtifactInfo{}, fmt.Errorf("unknown model %s", id)
	}
	if _, err := ml.LoadModel(payload, schema); err != nil {
		return ArtifactInfo{}, fmt.Errorf("validate artifact %s: %w", id, err)
	}

	tx, err := s.database.Begin()
	if err != nil {
		return ArtifactInfo{}, err
	}
	var version int
	err = tx.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM model_artifacts WHERE model_id = ?`, string(id)).Scan(&version)
	if err != nil {
		tx.Rollback()
		return ArtifactInfo{}, err
	}
	version++
	now := time.Now().UTC()
	_, err = tx.Exec(`
        INSERT INTO model_artifacts (model_id, version, payload, imported_at)
        VALUES (?, ?, ?, ?)`,
		string(id), version, payload, now)
	if err != nil {
		tx.Rollback()
		return ArtifactInfo{}, err
	}
	if err := tx.Commit(); err != nil {
		return ArtifactInfo{}, err
	}
	return ArtifactInfo{ModelID: id, Version: version, Size: len(payload), ImportedAt: now}, nil
}

// ReadArtifact returns the latest payload stored for id.
func (s *ArtifactStore) ReadArtifact(id ml.ModelID) ([]byte, error) {
	var payload []byte
	err := s.database.QueryRow(`
        SELECT payload FROM model_artifacts
        WHERE model_id = ?
        ORDER BY version DESC
        LIMIT 1`, string(id)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrArtifactNotFound)
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// List returns the latest revision of every stored model.
func (s *ArtifactStore) List() ([]ArtifactInfo, error) {
	rows, err := s.database.Query(`
        SELECT a.model_id, a.version, LENGTH(a.payload), a.imported_at
        FROM model_artifacts a
        WHERE a.version = (SELECT MAX(version) FROM model_artifacts b WHERE b.model_id = a.model_id)
        ORDER BY a.model_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	infos := make([]ArtifactInfo, 0)
	for rows.Next() {
		var info ArtifactInfo
		var id string
		if err := rows.Scan(&id, &info.Version, &info.Size, &info.ImportedAt); err != nil {
			return nil, err
		}
		info.ModelID = ml.ModelID(id)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func schemaFor(id ml.ModelID) (ml.Schema, bool) {
	for _, h := range ml.Horizons() {
		if h.Model == id {
			return h.Schema, true
		}
	}
	return ml.Schema{}, false
}
