package repository

import (
	"studydesk/internal/database"
)

type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by key
func (r *SettingsRepository) GetSetting(key string) (string, error) {
	var value string
	query := `SELECT value FROM settings WHERE key = ?`
	err := r.db.QueryRow(query, key).Scan(&value)
	return value, err
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(key, value string) error {
	query := r.db.Dialect.UpsertSettingQuery()
	_, err := r.db.Exec(query, key, value)
	return err
}

// IsRegistrationOpen checks whether new accounts may be created
func (r *SettingsRepository) IsRegistrationOpen() bool {
	value, err := r.GetSetting("registration_open")
	if err != nil {
		return true // Default to open registration
	}
	return value != "false"
}

// SetRegistrationOpen enables or disables account creation
func (r *SettingsRepository) SetRegistrationOpen(open bool) error {
	value := "true"
	if !open {
		value = "false"
	}
	return r.SetSetting("registration_open", value)
}
