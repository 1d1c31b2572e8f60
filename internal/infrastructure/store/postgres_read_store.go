package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// PostgresReadStore persists read models as JSON documents keyed by
// (collection, id). Each collection maps to a concrete read model type
// through the registry supplied at construction, so Get can hand back
// typed values the way the in-memory store does.
type PostgresReadStore struct {
	db       *sql.DB
	registry map[string]func() any // collection -> new instance
}

func NewPostgresReadStore(db *sql.DB, registry map[string]func() any) *PostgresReadStore {
	return &PostgresReadStore{
		db:       db,
		registry: registry,
	}
}

// EnsureSchema creates the read model table if it does not exist
func (rs *PostgresReadStore) EnsureSchema(ctx context.Context) error {
	_, err := rs.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS read_models (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (collection, id)
		)`,
	)
	return err
}

// Set stores a read model
func (rs *PostgresReadStore) Set(collection, id string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[ReadStore] Failed to marshal %s/%s: %v", collection, id, err)
		return
	}

	_, err = rs.db.Exec(
		`INSERT INTO read_models (collection, id, data, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (collection, id)
		 DO UPDATE SET data = $3, updated_at = $4`,
		collection, id, jsonData, time.Now(),
	)
	if err != nil {
		log.Printf("[ReadStore] Failed to set %s/%s: %v", collection, id, err)
	}
}

// Get retrieves a read model by id
func (rs *PostgresReadStore) Get(collection, id string) (any, bool) {
	var jsonData []byte
	err := rs.db.QueryRow(
		"SELECT data FROM read_models WHERE collection = $1 AND id = $2",
		collection, id,
	).Scan(&jsonData)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		log.Printf("[ReadStore] Failed to get %s/%s: %v", collection, id, err)
		return nil, false
	}

	model, ok := rs.unmarshal(collection, jsonData)
	return model, ok
}

// GetAll retrieves all items in a collection
func (rs *PostgresReadStore) GetAll(collection string) []any {
	rows, err := rs.db.Query(
		"SELECT data FROM read_models WHERE collection = $1 ORDER BY updated_at ASC",
		collection,
	)
	if err != nil {
		log.Printf("[ReadStore] Failed to list %s: %v", collection, err)
		return nil
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var jsonData []byte
		if err := rows.Scan(&jsonData); err != nil {
			continue
		}
		if model, ok := rs.unmarshal(collection, jsonData); ok {
			items = append(items, model)
		}
	}
	return items
}

// Delete removes a read model
func (rs *PostgresReadStore) Delete(collection, id string) {
	_, err := rs.db.Exec(
		"DELETE FROM read_models WHERE collection = $1 AND id = $2",
		collection, id,
	)
	if err != nil {
		log.Printf("[ReadStore] Failed to delete %s/%s: %v", collection, id, err)
	}
}

// Update modifies a read model using an update function. The read and the
// write are not transactional; the single projector consumer is the only
// writer, so last-write-wins is acceptable here.
func (rs *PostgresReadStore) Update(collection, id string, updateFn func(current any) any) bool {
	current, ok := rs.Get(collection, id)
	if !ok {
		return false
	}
	rs.Set(collection, id, updateFn(current))
	return true
}

func (rs *PostgresReadStore) unmarshal(collection string, jsonData []byte) (any, bool) {
	newModel, ok := rs.registry[collection]
	if !ok {
		log.Printf("[ReadStore] No registered model for collection %s", collection)
		return nil, false
	}
	model := newModel()
	if err := json.Unmarshal(jsonData, model); err != nil {
		log.Printf("[ReadStore] Failed to unmarshal %s: %v", collection, err)
		return nil, false
	}
	return model, true
}
