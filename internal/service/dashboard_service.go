package service

import (
	"strings"
	"time"

	"studydesk/internal/gpa"
	"studydesk/internal/models"
	"studydesk/internal/repository"
)

// DashboardService derives the landing-page aggregates from the three
// per-user collections on request
type DashboardService struct {
	decks   *repository.DeckStore
	gpa     *repository.GPAStore
	planner *repository.PlannerStore
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(decks *repository.DeckStore, gpaStore *repository.GPAStore, planner *repository.PlannerStore) *DashboardService {
	return &DashboardService{decks: decks, gpa: gpaStore, planner: planner}
}

// DashboardSummary is the aggregate data behind the tool tiles
type DashboardSummary struct {
	DeckCount     int     `json:"deckCount"`
	CardCount     int     `json:"cardCount"`
	MasteredCount int     `json:"masteredCount"`
	CurrentGPA    float64 `json:"currentGPA"`
	HasTarget     bool    `json:"hasTarget"`
	TasksDueToday int     `json:"tasksDueToday"`
	TasksOverdue  int     `json:"tasksOverdue"`
	TasksOpen     int     `json:"tasksOpen"`
}

// Summary builds the dashboard aggregates for a user
func (s *DashboardService) Summary(userID int64) (*DashboardSummary, error) {
	decks, err := s.decks.Load(userID)
	if err != nil {
		return nil, err
	}
	gpaData, err := s.gpa.Load(userID)
	if err != nil {
		return nil, err
	}
	plannerData, err := s.planner.Load(userID)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	return summarize(decks, gpaData, plannerData, today), nil
}

// summarize derives the dashboard figures. Task dates are YYYY-MM-DD, so
// string comparison against today orders them correctly.
func summarize(decks []models.Deck, gpaData models.GPAData, plannerData models.PlannerData, today string) *DashboardSummary {
	summary := &DashboardSummary{
		DeckCount:  len(decks),
		CurrentGPA: gpa.ComputeCurrentGPA(gpaData.Courses, gpa.Scale(gpaData.Scale)),
		HasTarget:  strings.TrimSpace(gpaData.TargetGPA) != "",
	}

	for _, deck := range decks {
		summary.CardCount += len(deck.Cards)
		summary.MasteredCount += deck.MasteredCount()
	}

	for _, task := range plannerData.Tasks {
		if task.Completed {
			continue
		}
		summary.TasksOpen++
		switch {
		case task.Date == today:
			summary.TasksDueToday++
		case task.Date < today:
			summary.TasksOverdue++
		}
	}

	return summary
}
