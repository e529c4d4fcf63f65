package storage

import (
	"reflect"
	"testing"

	"codeberg.org/snonux/lexirecall/internal/card"
)

func TestExportImport_RoundTrip(t *testing.T) {
	store := newTestStore()

	store.SaveWords([]card.WordCard{
		{ID: "w1", Word: "ябълка", Synonyms: []string{"плод"}},
		{ID: "w2", Word: "котка"},
	})
	store.SaveDecks([]card.Deck{
		{ID: "d1", Title: "Basics", WordIDs: []string{"w1", "w2"}},
	})
	store.SaveStories([]card.Story{
		{ID: "s1", DeckID: "d1", Title: "A tale", Words: []string{"ябълка"}},
	})

	wantWords := store.Words()
	wantDecks := store.Decks()
	wantStories := store.Stories()

	payload, err := store.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	other := newTestStore()
	if err := other.Import(payload); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if !reflect.DeepEqual(other.Words(), wantWords) {
		t.Errorf("Words differ after round trip:\ngot  %+v\nwant %+v", other.Words(), wantWords)
	}
	if !reflect.DeepEqual(other.Decks(), wantDecks) {
		t.Errorf("Decks differ after round trip:\ngot  %+v\nwant %+v", other.Decks(), wantDecks)
	}
	if !reflect.DeepEqual(other.Stories(), wantStories) {
		t.Errorf("Stories differ after round trip:\ngot  %+v\nwant %+v", other.Stories(), wantStories)
	}
}

func TestImport_LegacyEmbeddedCards(t *testing.T) {
	store := newTestStore()

	payload := `{
		"decks": [
			{"id": "d1", "title": "Legacy", "cards": [
				{"id": "w1", "word": "котка"},
				{"id": "w2", "word": "куче"},
				{"id": "w1", "word": "котка (duplicate)"}
			]}
		],
		"words": [],
		"stories": []
	}`

	if err := store.Import([]byte(payload)); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	words := store.Words()
	if len(words) != 2 {
		t.Fatalf("Expected 2 extracted words, got %d", len(words))
	}
	// First occurrence wins on duplicate IDs
	if words[0].Word != "котка" {
		t.Errorf("Expected first occurrence 'котка', got '%s'", words[0].Word)
	}

	decks := store.Decks()
	if len(decks) != 1 {
		t.Fatalf("Expected 1 deck, got %d", len(decks))
	}
	if decks[0].Cards != nil {
		t.Error("Embedded cards should be cleared after import upgrade")
	}
	if len(decks[0].WordIDs) != 2 {
		t.Errorf("Expected 2 membership IDs, got %v", decks[0].WordIDs)
	}
}

func TestImport_WordsTakePrecedenceOverEmbedded(t *testing.T) {
	store := newTestStore()

	payload := `{
		"decks": [
			{"id": "d1", "cards": [{"id": "w1", "word": "stale copy"}]}
		],
		"words": [{"id": "w1", "word": "котка"}],
		"stories": []
	}`

	if err := store.Import([]byte(payload)); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	words := store.Words()
	if len(words) != 1 {
		t.Fatalf("Expected 1 word, got %d", len(words))
	}
	if words[0].Word != "котка" {
		t.Errorf("Words collection entry should win, got '%s'", words[0].Word)
	}
}

func TestImport_RejectsMalformedPayload(t *testing.T) {
	store := newTestStore()
	store.SaveWords([]card.WordCard{{ID: "w1", Word: "вода"}})

	for _, payload := range []string{
		`[1, 2, 3]`,
		`"just a string"`,
		`{broken`,
	} {
		if err := store.Import([]byte(payload)); err == nil {
			t.Errorf("Expected error for payload %q", payload)
		}
	}

	// Existing state untouched after failed imports
	if words := store.Words(); len(words) != 1 || words[0].Word != "вода" {
		t.Errorf("Store mutated by failed import: %v", words)
	}
}

func TestImport_CurrentFormatUpgradeIsNoop(t *testing.T) {
	store := newTestStore()
	store.SaveWords([]card.WordCard{{ID: "w1", Word: "хляб"}})
	store.SaveDecks([]card.Deck{{ID: "d1", WordIDs: []string{"w1"}}})

	payload, err := store.Export()
	if err != nil {
		t.Fatal(err)
	}

	before := store.Decks()
	if err := store.Import(payload); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if !reflect.DeepEqual(store.Decks(), before) {
		t.Error("Re-importing current-format export changed the decks")
	}
}
