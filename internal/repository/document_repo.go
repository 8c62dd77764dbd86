package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"studydesk/internal/database"
)

// DocumentRepository stores the per-user JSON collections. Each user owns
// at most one row per document name.
type DocumentRepository struct {
	db *database.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *database.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Get retrieves the raw JSON value of a document, or nil when the user has
// no document under that name
func (r *DocumentRepository) Get(userID int64, name string) (json.RawMessage, error) {
	var value []byte
	query := `SELECT value FROM documents WHERE user_id = ? AND name = ?`
	err := r.db.QueryRow(query, userID, name).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", name, err)
	}

	return value, nil
}

// Save inserts or replaces a document
func (r *DocumentRepository) Save(userID int64, name string, value json.RawMessage) error {
	query := r.db.Dialect.UpsertDocumentQuery()
	_, err := r.db.Exec(query, userID, name, []byte(value))
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", name, err)
	}
	return nil
}
