package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"studydesk/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string          `json:"version"`
	ExportedAt   time.Time       `json:"exported_at"`
	DatabaseType string          `json:"database_type"`
	Settings     []SettingBackup `json:"settings"`
	Users        []UserBackup    `json:"users"`
}

// SettingBackup represents one app setting for backup
type SettingBackup struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UserBackup represents a user record for backup, with the user's JSON
// documents embedded. Passwords travel as bcrypt hashes, never plaintext.
type UserBackup struct {
	ID            int64            `json:"id"`
	Email         string           `json:"email"`
	DisplayName   string           `json:"display_name"`
	PasswordHash  string           `json:"password_hash"`
	OAuthProvider string           `json:"oauth_provider"`
	OAuthSubject  string           `json:"oauth_subject"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Documents     []DocumentBackup `json:"documents"`
}

// DocumentBackup represents one JSON collection of a user
type DocumentBackup struct {
	Name      string          `json:"name"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter writes a complete backup as indented JSON
func (s *BackupService) ExportToWriter(w io.Writer) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportSettings(backup); err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}
	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	documents := 0
	for _, u := range backup.Users {
		documents += len(u.Documents)
	}
	log.Printf("Exported: %d users, %d documents, %d settings",
		len(backup.Users), documents, len(backup.Settings))

	return nil
}

// Import restores a database from a backup file. With clearExisting the
// current users and settings are wiped first.
func (s *BackupService) Import(inputPath string, clearExisting bool) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file, clearExisting)
}

// ImportFromReader restores a database from a backup stream. The whole
// restore runs in one transaction: a conflicting or broken backup leaves
// the database untouched.
func (s *BackupService) ImportFromReader(reader io.Reader, clearExisting bool) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if clearExisting {
		if err := s.clearAll(tx); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	if err := s.importSettings(tx, backup.Settings); err != nil {
		return fmt.Errorf("failed to import settings: %w", err)
	}
	if err := s.importUsers(tx, backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	documents := 0
	for _, u := range backup.Users {
		documents += len(u.Documents)
	}
	log.Printf("Imported: %d users, %d documents, %d settings",
		len(backup.Users), documents, len(backup.Settings))
	log.Println("Database import completed successfully")

	return nil
}

func (s *BackupService) exportSettings(backup *BackupData) error {
	query := "SELECT key, value FROM settings ORDER BY key"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var setting SettingBackup
		if err := rows.Scan(&setting.Key, &setting.Value); err != nil {
			return err
		}
		backup.Settings = append(backup.Settings, setting)
	}
	return rows.Err()
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, email, display_name, password_hash, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at, updated_at FROM users ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.OAuthProvider, &u.OAuthSubject, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range backup.Users {
		if err := s.exportDocuments(&backup.Users[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) exportDocuments(u *UserBackup) error {
	query := "SELECT name, value, updated_at FROM documents WHERE user_id = ? ORDER BY name"
	rows, err := s.db.Query(query, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var doc DocumentBackup
		var value []byte
		if err := rows.Scan(&doc.Name, &value, &doc.UpdatedAt); err != nil {
			return err
		}
		if json.Valid(value) {
			doc.Value = value
		} else {
			// Corrupt rows survive the round trip as a JSON string so the
			// backup document itself stays parseable
			quoted, err := json.Marshal(string(value))
			if err != nil {
				return err
			}
			doc.Value = quoted
		}
		u.Documents = append(u.Documents, doc)
	}
	return rows.Err()
}

func (s *BackupService) clearAll(tx *database.Tx) error {
	// Children first; not every deployment has cascading deletes enabled
	tables := []string{"documents", "sessions", "password_reset_tokens", "users", "settings"}
	for _, table := range tables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (s *BackupService) importSettings(tx *database.Tx, settings []SettingBackup) error {
	query := s.db.Dialect.UpsertSettingQuery()
	for _, setting := range settings {
		if _, err := tx.Exec(query, setting.Key, setting.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importUsers(tx *database.Tx, users []UserBackup) error {
	userQuery := `
		INSERT INTO users (id, email, display_name, password_hash, oauth_provider, oauth_subject, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	docQuery := s.db.Dialect.UpsertDocumentQuery()

	for _, u := range users {
		_, err := tx.Exec(userQuery, u.ID, u.Email, u.DisplayName, u.PasswordHash,
			nullIfEmpty(u.OAuthProvider), nullIfEmpty(u.OAuthSubject), u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}

		for _, doc := range u.Documents {
			if _, err := tx.Exec(docQuery, u.ID, doc.Name, []byte(doc.Value)); err != nil {
				return fmt.Errorf("user %s document %s: %w", u.Email, doc.Name, err)
			}
		}
	}
	return nil
}

// nullIfEmpty maps empty strings to SQL NULL for nullable columns
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
