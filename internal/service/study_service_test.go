package service

import (
	"math/rand"
	"sort"
	"testing"

	"studydesk/internal/models"
	"studydesk/internal/study"
)

// studyDeck creates a deck with a known set of cards and returns it
func studyDeck(t *testing.T, env *testEnv, userID int64) *models.Deck {
	t.Helper()

	deck, err := env.deckSvc.CreateDeck(userID, "Latin")
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	for _, pair := range [][2]string{{"aqua", "water"}, {"ignis", "fire"}, {"terra", "earth"}, {"ventus", "wind"}} {
		if _, err := env.deckSvc.AddCard(userID, deck.ID, pair[0], pair[1]); err != nil {
			t.Fatalf("AddCard failed: %v", err)
		}
	}

	full, err := env.deckSvc.GetDeck(userID, deck.ID)
	if err != nil {
		t.Fatalf("GetDeck failed: %v", err)
	}
	return full
}

func stateIDs(state *StudyState) []string {
	ids := make([]string, len(state.Cards))
	for i, card := range state.Cards {
		ids[i] = card.ID
	}
	return ids
}

func TestStudyFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "study@example.com")
	deck := studyDeck(t, env, user.ID)

	state, err := env.studySvc.Start(user.ID, deck.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if state.Index != 0 || state.Flipped || len(state.Cards) != 4 {
		t.Fatalf("Unexpected initial state: %+v", state)
	}
	if state.DeckName != "Latin" {
		t.Errorf("Expected deck name in state, got %q", state.DeckName)
	}

	state, err = env.studySvc.Flip(user.ID)
	if err != nil {
		t.Fatalf("Flip failed: %v", err)
	}
	if !state.Flipped {
		t.Error("Expected flipped state")
	}

	// Moving to another card lands on its front side
	state, err = env.studySvc.Advance(user.ID, study.Next)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if state.Index != 1 || state.Flipped {
		t.Errorf("Unexpected state after next: %+v", state)
	}

	state, err = env.studySvc.Advance(user.ID, study.Prev)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if state.Index != 0 {
		t.Errorf("Expected index 0 after prev, got %d", state.Index)
	}

	// Prev at the first card stays put
	state, _ = env.studySvc.Advance(user.ID, study.Prev)
	if state.Index != 0 {
		t.Errorf("Expected boundary clamp at 0, got %d", state.Index)
	}
}

func TestMarkMasteredWritesThrough(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "mastery@example.com")
	deck := studyDeck(t, env, user.ID)

	if _, err := env.studySvc.Start(user.ID, deck.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	state, err := env.studySvc.MarkMastered(user.ID, true)
	if err != nil {
		t.Fatalf("MarkMastered failed: %v", err)
	}
	if state.MasteredCount != 1 {
		t.Errorf("Expected 1 mastered in session, got %d", state.MasteredCount)
	}

	// The owning deck reflects the change without closing the session
	stored, err := env.deckSvc.GetDeck(user.ID, deck.ID)
	if err != nil {
		t.Fatalf("GetDeck failed: %v", err)
	}
	if stored.MasteredCount() != 1 {
		t.Errorf("Expected write-through to the deck, mastered = %d", stored.MasteredCount())
	}
	if !stored.Cards[0].Mastered {
		t.Error("Expected the first card to be mastered in the stored deck")
	}
}

func TestShuffleStaysInSession(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "shuffle@example.com")
	deck := studyDeck(t, env, user.ID)

	env.studySvc.rng = rand.New(rand.NewSource(7))
	if _, err := env.studySvc.Start(user.ID, deck.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	state, err := env.studySvc.Shuffle(user.ID)
	if err != nil {
		t.Fatalf("Shuffle failed: %v", err)
	}
	if state.Index != 0 || state.Flipped {
		t.Errorf("Shuffle should rewind to the first card: %+v", state)
	}

	// The shuffle is a permutation: same IDs, nothing lost or duplicated
	want := make([]string, len(deck.Cards))
	for i, card := range deck.Cards {
		want[i] = card.ID
	}
	got := stateIDs(state)
	sortedWant := append([]string(nil), want...)
	sortedGot := append([]string(nil), got...)
	sort.Strings(sortedWant)
	sort.Strings(sortedGot)
	for i := range sortedWant {
		if sortedGot[i] != sortedWant[i] {
			t.Fatalf("Shuffle changed the card set: got %v, want %v", got, want)
		}
	}

	// Marking mastery writes flags through, but never the shuffled order
	if _, err := env.studySvc.MarkMastered(user.ID, true); err != nil {
		t.Fatalf("MarkMastered failed: %v", err)
	}
	stored, err := env.deckSvc.GetDeck(user.ID, deck.ID)
	if err != nil {
		t.Fatalf("GetDeck failed: %v", err)
	}
	for i, card := range stored.Cards {
		if card.ID != want[i] {
			t.Fatalf("Deck order changed by shuffle: got %v at %d, want %v", card.ID, i, want[i])
		}
	}
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "seed@example.com")
	deck := studyDeck(t, env, user.ID)

	runShuffle := func(seed int64) []string {
		svc := NewStudyService(env.decks)
		svc.rng = rand.New(rand.NewSource(seed))
		if _, err := svc.Start(user.ID, deck.ID); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		state, err := svc.Shuffle(user.ID)
		if err != nil {
			t.Fatalf("Shuffle failed: %v", err)
		}
		return stateIDs(state)
	}

	first := runShuffle(42)
	second := runShuffle(42)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Same seed produced different orders: %v vs %v", first, second)
		}
	}
}

func TestResetRestoresOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "reset@example.com")
	deck := studyDeck(t, env, user.ID)

	if _, err := env.studySvc.Start(user.ID, deck.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.studySvc.Shuffle(user.ID); err != nil {
		t.Fatalf("Shuffle failed: %v", err)
	}
	if _, err := env.studySvc.MarkMastered(user.ID, true); err != nil {
		t.Fatalf("MarkMastered failed: %v", err)
	}

	state, err := env.studySvc.Reset(user.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	// Original order is back, mastery earned so far is kept
	for i, card := range state.Cards {
		if card.ID != deck.Cards[i].ID {
			t.Fatalf("Reset did not restore deck order: %v at %d", card.ID, i)
		}
	}
	if state.MasteredCount != 1 {
		t.Errorf("Reset should keep mastery, got %d", state.MasteredCount)
	}
	if state.Index != 0 || state.Flipped {
		t.Errorf("Reset should rewind and unflip: %+v", state)
	}
}

func TestCloseCommitsAndDiscards(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "close@example.com")
	deck := studyDeck(t, env, user.ID)

	if _, err := env.studySvc.Start(user.ID, deck.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.studySvc.MarkMastered(user.ID, true); err != nil {
		t.Fatalf("MarkMastered failed: %v", err)
	}

	if err := env.studySvc.Close(user.ID); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := env.studySvc.State(user.ID); err != ErrNoActiveSession {
		t.Errorf("Expected no session after close, got %v", err)
	}
	if err := env.studySvc.Close(user.ID); err != ErrNoActiveSession {
		t.Errorf("Expected ErrNoActiveSession on double close, got %v", err)
	}

	stored, err := env.deckSvc.GetDeck(user.ID, deck.ID)
	if err != nil {
		t.Fatalf("GetDeck failed: %v", err)
	}
	if stored.MasteredCount() != 1 {
		t.Errorf("Progress lost on close: mastered = %d", stored.MasteredCount())
	}
}

func TestStartReplacesPriorSession(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "replace@example.com")
	first := studyDeck(t, env, user.ID)

	second, err := env.deckSvc.CreateDeck(user.ID, "Greek")
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	if _, err := env.deckSvc.AddCard(user.ID, second.ID, "hydor", "water"); err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	if _, err := env.studySvc.Start(user.ID, first.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.studySvc.MarkMastered(user.ID, true); err != nil {
		t.Fatalf("MarkMastered failed: %v", err)
	}

	state, err := env.studySvc.Start(user.ID, second.ID)
	if err != nil {
		t.Fatalf("Second Start failed: %v", err)
	}
	if state.DeckID != second.ID {
		t.Errorf("Expected active session on the new deck, got %s", state.DeckID)
	}

	// Progress from the replaced session was committed on the way out
	stored, err := env.deckSvc.GetDeck(user.ID, first.ID)
	if err != nil {
		t.Fatalf("GetDeck failed: %v", err)
	}
	if stored.MasteredCount() != 1 {
		t.Errorf("Replaced session progress lost: mastered = %d", stored.MasteredCount())
	}
}

func TestStudyErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "errors@example.com")

	if _, err := env.studySvc.State(user.ID); err != ErrNoActiveSession {
		t.Errorf("Expected ErrNoActiveSession, got %v", err)
	}
	if _, err := env.studySvc.Flip(user.ID); err != ErrNoActiveSession {
		t.Errorf("Expected ErrNoActiveSession, got %v", err)
	}
	if _, err := env.studySvc.Start(user.ID, "missing"); err != ErrDeckNotFound {
		t.Errorf("Expected ErrDeckNotFound, got %v", err)
	}

	empty, err := env.deckSvc.CreateDeck(user.ID, "Empty")
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	if _, err := env.studySvc.Start(user.ID, empty.ID); err != ErrEmptyDeck {
		t.Errorf("Expected ErrEmptyDeck, got %v", err)
	}
}
