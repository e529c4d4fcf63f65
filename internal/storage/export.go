package storage

import (
	"encoding/json"
	"fmt"

	"codeberg.org/snonux/lexirecall/internal/card"
)

// ExportData is the interchange format for full-store export and import.
type ExportData struct {
	Decks   []card.Deck     `json:"decks"`
	Words   []card.WordCard `json:"words"`
	Stories []card.Story    `json:"stories"`
}

// Export serializes the full store as a single JSON object.
func (s *ContentStore) Export() ([]byte, error) {
	data := ExportData{
		Decks:   s.Decks(),
		Words:   s.Words(),
		Stories: s.Stories(),
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return out, nil
}

// Import validates payload and destructively replaces all three
// collections. Legacy decks carrying embedded cards are upgraded on the
// fly: the cards are extracted into the words collection (deduplicated by
// ID, first occurrence wins) and the deck is rewritten to ID references.
// Nothing is applied when validation fails.
func (s *ContentStore) Import(payload []byte) error {
	// Reject non-object payloads (arrays decode into json.RawMessage
	// maps just fine otherwise).
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil {
		return fmt.Errorf("invalid import file: expected a JSON object: %w", err)
	}

	var data ExportData
	if err := json.Unmarshal(payload, &data); err != nil {
		return fmt.Errorf("invalid import file: %w", err)
	}

	words := make([]card.WordCard, 0, len(data.Words))
	seen := make(map[string]bool, len(data.Words))
	for _, w := range data.Words {
		w = card.MigrateWord(w)
		if w.ID == "" || seen[w.ID] {
			continue
		}
		seen[w.ID] = true
		words = append(words, w)
	}

	decks := make([]card.Deck, 0, len(data.Decks))
	for _, d := range data.Decks {
		d = card.MigrateDeck(d)
		// Lift legacy embedded cards into the shared word store.
		for _, c := range d.Cards {
			c = card.MigrateWord(c)
			if c.ID == "" || seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			words = append(words, c)
		}
		d.Cards = nil
		decks = append(decks, d)
	}

	stories := make([]card.Story, 0, len(data.Stories))
	for _, st := range data.Stories {
		stories = append(stories, card.MigrateStory(st))
	}

	if err := s.SaveWords(words); err != nil {
		return err
	}
	if err := s.SaveDecks(decks); err != nil {
		return err
	}
	return s.SaveStories(stories)
}
