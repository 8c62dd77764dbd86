package service

import (
	"strings"
	"testing"

	"studydesk/internal/models"
)

func TestParseImportLines(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		wantRecords []importRecord
		wantSkipped int
	}{
		{
			name:        "empty payload",
			payload:     "",
			wantRecords: nil,
			wantSkipped: 0,
		},
		{
			name:    "well formed lines",
			payload: "Q1,A1\nQ2,A2",
			wantRecords: []importRecord{
				{front: "Q1", back: "A1"},
				{front: "Q2", back: "A2"},
			},
			wantSkipped: 0,
		},
		{
			name:    "malformed line dropped",
			payload: "Q1,A1\nBadLineNoComma\nQ2,A2",
			wantRecords: []importRecord{
				{front: "Q1", back: "A1"},
				{front: "Q2", back: "A2"},
			},
			wantSkipped: 1,
		},
		{
			name:    "splits on first comma only",
			payload: "What is 1,2,3?,a counting sequence",
			wantRecords: []importRecord{
				{front: "What is 1", back: "2,3?,a counting sequence"},
			},
			wantSkipped: 0,
		},
		{
			name:        "missing front dropped",
			payload:     ",only a back",
			wantRecords: nil,
			wantSkipped: 1,
		},
		{
			name:        "missing back dropped",
			payload:     "only a front,",
			wantRecords: nil,
			wantSkipped: 1,
		},
		{
			name:    "blank lines ignored",
			payload: "\nQ1,A1\n\n\nQ2,A2\n",
			wantRecords: []importRecord{
				{front: "Q1", back: "A1"},
				{front: "Q2", back: "A2"},
			},
			wantSkipped: 0,
		},
		{
			name:    "windows line endings",
			payload: "Q1,A1\r\nQ2,A2\r\n",
			wantRecords: []importRecord{
				{front: "Q1", back: "A1"},
				{front: "Q2", back: "A2"},
			},
			wantSkipped: 0,
		},
		{
			name:    "surrounding whitespace trimmed",
			payload: "  Q1  ,  A1  ",
			wantRecords: []importRecord{
				{front: "Q1", back: "A1"},
			},
			wantSkipped: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, skipped := parseImportLines(tt.payload)
			if skipped != tt.wantSkipped {
				t.Errorf("skipped = %d, want %d", skipped, tt.wantSkipped)
			}
			if len(records) != len(tt.wantRecords) {
				t.Fatalf("got %d records, want %d", len(records), len(tt.wantRecords))
			}
			for i, rec := range records {
				if rec != tt.wantRecords[i] {
					t.Errorf("record %d: got %+v, want %+v", i, rec, tt.wantRecords[i])
				}
			}
		})
	}
}

func TestBuildStudySheet(t *testing.T) {
	deck := &models.Deck{
		Name: "Biology",
		Cards: []models.Flashcard{
			{ID: "c1", Front: "Powerhouse of the cell", Back: "Mitochondria"},
			{ID: "c2", Front: "Basic unit of life", Back: "The cell"},
		},
	}

	sheet := buildStudySheet(deck)

	if !strings.Contains(sheet, "Biology") {
		t.Error("Sheet is missing the deck name")
	}
	for _, card := range deck.Cards {
		if strings.Count(sheet, card.Front) != 1 {
			t.Errorf("Front %q should appear exactly once", card.Front)
		}
		if strings.Count(sheet, card.Back) != 1 {
			t.Errorf("Back %q should appear exactly once", card.Back)
		}
	}

	// Cards must appear in deck order
	first := strings.Index(sheet, "Powerhouse of the cell")
	second := strings.Index(sheet, "Basic unit of life")
	if first < 0 || second < 0 || first > second {
		t.Error("Cards are out of deck order in the sheet")
	}
}

func TestDeckCRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "decks@example.com")

	created, err := env.deckSvc.CreateDeck(user.ID, "Chemistry")
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateDeck returned empty ID")
	}

	decks, err := env.deckSvc.ListDecks(user.ID)
	if err != nil {
		t.Fatalf("ListDecks failed: %v", err)
	}
	// Starter deck plus the new one
	if len(decks) != 2 {
		t.Fatalf("Expected 2 decks, got %d", len(decks))
	}

	renamed, err := env.deckSvc.RenameDeck(user.ID, created.ID, "Organic Chemistry")
	if err != nil {
		t.Fatalf("RenameDeck failed: %v", err)
	}
	if renamed.Name != "Organic Chemistry" {
		t.Errorf("Expected renamed deck, got %q", renamed.Name)
	}

	if _, err := env.deckSvc.CreateDeck(user.ID, "   "); err == nil {
		t.Error("Expected blank deck name to be rejected")
	}

	if err := env.deckSvc.DeleteDeck(user.ID, created.ID); err != nil {
		t.Fatalf("DeleteDeck failed: %v", err)
	}
	if _, err := env.deckSvc.GetDeck(user.ID, created.ID); err != ErrDeckNotFound {
		t.Errorf("Expected ErrDeckNotFound after delete, got %v", err)
	}
	if err := env.deckSvc.DeleteDeck(user.ID, "missing"); err != ErrDeckNotFound {
		t.Errorf("Expected ErrDeckNotFound for unknown deck, got %v", err)
	}
}

func TestCardCRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "cards@example.com")

	deck, err := env.deckSvc.CreateDeck(user.ID, "Physics")
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}

	card, err := env.deckSvc.AddCard(user.ID, deck.ID, "Unit of force", "Newton")
	if err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	updated, err := env.deckSvc.UpdateCard(user.ID, deck.ID, card.ID, "Unit of force", "The newton (N)", true)
	if err != nil {
		t.Fatalf("UpdateCard failed: %v", err)
	}
	if !updated.Mastered || updated.Back != "The newton (N)" {
		t.Errorf("Unexpected card after update: %+v", updated)
	}

	got, err := env.deckSvc.GetDeck(user.ID, deck.ID)
	if err != nil {
		t.Fatalf("GetDeck failed: %v", err)
	}
	if got.MasteredCount() != 1 {
		t.Errorf("Expected 1 mastered card, got %d", got.MasteredCount())
	}

	if _, err := env.deckSvc.UpdateCard(user.ID, deck.ID, "missing", "f", "b", false); err != ErrCardNotFound {
		t.Errorf("Expected ErrCardNotFound, got %v", err)
	}

	if err := env.deckSvc.DeleteCard(user.ID, deck.ID, card.ID); err != nil {
		t.Fatalf("DeleteCard failed: %v", err)
	}
	got, _ = env.deckSvc.GetDeck(user.ID, deck.ID)
	if len(got.Cards) != 0 {
		t.Errorf("Expected empty deck after card delete, got %d cards", len(got.Cards))
	}
}

func TestImportCards(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "import@example.com")

	deck, err := env.deckSvc.CreateDeck(user.ID, "Vocabulary")
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	if _, err := env.deckSvc.AddCard(user.ID, deck.ID, "existing", "card"); err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	result, err := env.deckSvc.ImportCards(user.ID, deck.ID, "Q1,A1\nBadLineNoComma\nQ2,A2")
	if err != nil {
		t.Fatalf("ImportCards failed: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 1 {
		t.Errorf("Expected 2 imported / 1 skipped, got %d / %d", result.Imported, result.Skipped)
	}

	got, err := env.deckSvc.GetDeck(user.ID, deck.ID)
	if err != nil {
		t.Fatalf("GetDeck failed: %v", err)
	}
	if len(got.Cards) != 3 {
		t.Fatalf("Expected 3 cards after import, got %d", len(got.Cards))
	}
	// Imported cards append in input order after existing cards
	if got.Cards[1].Front != "Q1" || got.Cards[2].Front != "Q2" {
		t.Errorf("Imported cards out of order: %+v", got.Cards)
	}
	for _, card := range got.Cards {
		if card.ID == "" {
			t.Error("Imported card is missing an ID")
		}
	}
}

func TestExportDeck(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "export@example.com")

	deck, err := env.deckSvc.CreateDeck(user.ID, "History")
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	if _, err := env.deckSvc.ImportCards(user.ID, deck.ID, "When was 1066?,Battle of Hastings\nFirst Roman emperor,Augustus"); err != nil {
		t.Fatalf("ImportCards failed: %v", err)
	}

	export, err := env.deckSvc.ExportDeck(user.ID, deck.ID)
	if err != nil {
		t.Fatalf("ExportDeck failed: %v", err)
	}
	if export.DeckName != "History" || len(export.Cards) != 2 {
		t.Errorf("Unexpected export document: %+v", export)
	}
	if export.Cards[0].Front != "When was 1066?" {
		t.Errorf("Export cards out of deck order: %+v", export.Cards)
	}

	sheet, err := env.deckSvc.ExportDeckText(user.ID, deck.ID)
	if err != nil {
		t.Fatalf("ExportDeckText failed: %v", err)
	}
	if !strings.Contains(sheet, "Battle of Hastings") || !strings.Contains(sheet, "Augustus") {
		t.Error("Text export is missing card content")
	}
}

func TestShareRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "share@example.com")

	decks, err := env.deckSvc.ListDecks(user.ID)
	if err != nil {
		t.Fatalf("ListDecks failed: %v", err)
	}
	starter := decks[0]

	token, err := env.deckSvc.ShareDeck(user.ID, starter.ID)
	if err != nil {
		t.Fatalf("ShareDeck failed: %v", err)
	}
	if token == "" {
		t.Fatal("ShareDeck returned empty token")
	}

	shared, err := env.deckSvc.SharedDeck(token)
	if err != nil {
		t.Fatalf("SharedDeck failed: %v", err)
	}
	if shared.ID != starter.ID || len(shared.Cards) != len(starter.Cards) {
		t.Errorf("Shared deck does not match source: %+v", shared)
	}

	if _, err := env.deckSvc.SharedDeck("not-a-token"); err != ErrDeckNotFound {
		t.Errorf("Expected ErrDeckNotFound for garbage token, got %v", err)
	}

	if _, err := env.deckSvc.ShareDeck(user.ID, "missing"); err != ErrDeckNotFound {
		t.Errorf("Expected ErrDeckNotFound for unknown deck, got %v", err)
	}
}
