package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"codeberg.org/snonux/lexirecall/internal/card"
)

// Storage keys for the persisted collections and recovery slots.
const (
	KeyWords      = "words"
	KeyDecks      = "decks"
	KeyStories    = "stories"
	KeyCheckpoint = "generation_checkpoint"
	KeyDeckDraft  = "deck_edit_draft"
	KeyWordsDraft = "words_edit_draft"
)

// ContentStore persists the Words, Decks and Stories collections on a
// Backend. Reads fail soft: a corrupt collection is logged and treated as
// empty. Saves overwrite the whole collection; callers read, modify and
// write back.
type ContentStore struct {
	backend Backend
}

// NewContentStore creates a content store on the given backend
func NewContentStore(backend Backend) *ContentStore {
	return &ContentStore{backend: backend}
}

// Backend returns the underlying key-value backend
func (s *ContentStore) Backend() Backend {
	return s.backend
}

// Words returns all stored word cards, migrated to the current schema.
func (s *ContentStore) Words() []card.WordCard {
	var words []card.WordCard
	if !s.load(KeyWords, &words) {
		return []card.WordCard{}
	}
	for i, w := range words {
		words[i] = card.MigrateWord(w)
	}
	return words
}

// SaveWords overwrites the words collection
func (s *ContentStore) SaveWords(words []card.WordCard) error {
	return s.save(KeyWords, words)
}

// Decks returns all stored decks, migrated to the current schema.
func (s *ContentStore) Decks() []card.Deck {
	var decks []card.Deck
	if !s.load(KeyDecks, &decks) {
		return []card.Deck{}
	}
	for i, d := range decks {
		decks[i] = card.MigrateDeck(d)
	}
	return decks
}

// SaveDecks overwrites the decks collection
func (s *ContentStore) SaveDecks(decks []card.Deck) error {
	return s.save(KeyDecks, decks)
}

// Stories returns all stored stories, migrated to the current schema.
func (s *ContentStore) Stories() []card.Story {
	var stories []card.Story
	if !s.load(KeyStories, &stories) {
		return []card.Story{}
	}
	for i, st := range stories {
		stories[i] = card.MigrateStory(st)
	}
	return stories
}

// SaveStories overwrites the stories collection
func (s *ContentStore) SaveStories(stories []card.Story) error {
	return s.save(KeyStories, stories)
}

// DeckByID returns the deck with the given ID
func (s *ContentStore) DeckByID(id string) (card.Deck, bool) {
	for _, d := range s.Decks() {
		if d.ID == id {
			return d, true
		}
	}
	return card.Deck{}, false
}

// WordByID returns the word card with the given ID
func (s *ContentStore) WordByID(id string) (card.WordCard, bool) {
	for _, w := range s.Words() {
		if w.ID == id {
			return w, true
		}
	}
	return card.WordCard{}, false
}

// ResolveDeck returns the word cards behind a deck's membership list in
// membership order. IDs that no longer resolve in the word store are
// filtered out rather than reported as errors.
func (s *ContentStore) ResolveDeck(deck card.Deck) []card.WordCard {
	byID := make(map[string]card.WordCard)
	for _, w := range s.Words() {
		byID[w.ID] = w
	}

	cards := make([]card.WordCard, 0, len(deck.WordIDs))
	for _, id := range deck.WordIDs {
		if w, ok := byID[id]; ok {
			cards = append(cards, w)
		}
	}
	return cards
}

// UpsertWords merges cards into the words collection by ID. Existing
// records are replaced, new ones appended in order.
func (s *ContentStore) UpsertWords(cards []card.WordCard) error {
	words := s.Words()
	index := make(map[string]int, len(words))
	for i, w := range words {
		index[w.ID] = i
	}

	for _, c := range cards {
		if i, ok := index[c.ID]; ok {
			words[i] = c
		} else {
			index[c.ID] = len(words)
			words = append(words, c)
		}
	}
	return s.SaveWords(words)
}

// DeleteWord removes a word card and filters its ID from every deck's
// membership list. Decks themselves are never deleted, even when their
// membership becomes empty.
func (s *ContentStore) DeleteWord(id string) error {
	words := s.Words()
	kept := make([]card.WordCard, 0, len(words))
	for _, w := range words {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	if err := s.SaveWords(kept); err != nil {
		return err
	}

	decks := s.Decks()
	for i, d := range decks {
		ids := make([]string, 0, len(d.WordIDs))
		for _, wid := range d.WordIDs {
			if wid != id {
				ids = append(ids, wid)
			}
		}
		decks[i].WordIDs = ids
	}
	return s.SaveDecks(decks)
}

// DeleteDeck removes a deck and cascades to every story referencing it.
// The underlying word cards are left untouched; they may be shared with
// other decks or used independently.
func (s *ContentStore) DeleteDeck(id string) error {
	decks := s.Decks()
	kept := make([]card.Deck, 0, len(decks))
	for _, d := range decks {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if err := s.SaveDecks(kept); err != nil {
		return err
	}

	stories := s.Stories()
	keptStories := make([]card.Story, 0, len(stories))
	for _, st := range stories {
		if st.DeckID != id {
			keptStories = append(keptStories, st)
		}
	}
	return s.SaveStories(keptStories)
}

// DeleteStory removes a single story
func (s *ContentStore) DeleteStory(id string) error {
	stories := s.Stories()
	kept := make([]card.Story, 0, len(stories))
	for _, st := range stories {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	return s.SaveStories(kept)
}

// load reads and parses a collection. Returns false when the key is
// absent or unreadable; parse errors are logged and reported as absent so
// callers see an empty collection instead of a hard failure.
func (s *ContentStore) load(key string, target any) bool {
	data, ok, err := s.backend.Get(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: corrupt %s collection, treating as empty: %v\n", key, err)
		return false
	}
	return true
}

func (s *ContentStore) save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.backend.Set(key, data)
}
