package models

import (
	"encoding/json"
	"time"
)

// Names of the JSON collections stored per user.
const (
	DocumentDecks   = "flashcard-decks"
	DocumentGPA     = "gpa-data"
	DocumentPlanner = "planner-data"
)

// Document is one JSON collection owned by a user
type Document struct {
	UserID    int64
	Name      string
	Value     json.RawMessage
	UpdatedAt time.Time
}
