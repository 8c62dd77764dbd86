package models

// Flashcard is a single two-sided study card
type Flashcard struct {
	ID       string `json:"id"`
	Front    string `json:"front"`
	Back     string `json:"back"`
	Mastered bool   `json:"mastered"`
}

// Deck is a named ordered collection of flashcards. The card order is the
// deck's order: new and imported cards append to the end.
type Deck struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Cards []Flashcard `json:"cards"`
}

// MasteredCount returns the number of cards marked mastered
func (d *Deck) MasteredCount() int {
	count := 0
	for _, card := range d.Cards {
		if card.Mastered {
			count++
		}
	}
	return count
}

// CardIndex returns the position of the card with the given ID, or -1
func (d *Deck) CardIndex(cardID string) int {
	for i, card := range d.Cards {
		if card.ID == cardID {
			return i
		}
	}
	return -1
}
