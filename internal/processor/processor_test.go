package processor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"codeberg.org/snonux/lexirecall/internal/card"
	"codeberg.org/snonux/lexirecall/internal/cli"
	"codeberg.org/snonux/lexirecall/internal/storage"
	"codeberg.org/snonux/lexirecall/internal/testutil"
)

func newTestProcessor() (*Processor, *storage.ContentStore, *testutil.MockGenerationClient) {
	flags := cli.NewFlags()
	store := storage.NewContentStore(storage.NewMemoryBackend())
	client := &testutil.MockGenerationClient{Errors: map[string]error{}}
	speech := &testutil.MockSpeechProvider{Errors: map[string]error{}}
	return NewProcessorWithDeps(flags, store, client, speech), store, client
}

func TestCreateDeck(t *testing.T) {
	p, store, _ := newTestProcessor()

	deck, err := p.CreateDeck(context.Background(), "Basics", []string{"ябълка", "котка"})
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}

	if deck.ID == "" || deck.Title != "Basics" {
		t.Errorf("Unexpected deck: %+v", deck)
	}
	if len(deck.WordIDs) != 2 {
		t.Fatalf("Expected 2 word references, got %d", len(deck.WordIDs))
	}

	if got := len(store.Words()); got != 2 {
		t.Errorf("Expected 2 stored words, got %d", got)
	}
	if got := len(store.Decks()); got != 1 {
		t.Errorf("Expected 1 stored deck, got %d", got)
	}

	// The word-list draft must be gone after a successful create
	if _, ok, _ := store.Backend().Get(storage.KeyWordsDraft); ok {
		t.Error("Word list draft should be cleared after success")
	}
}

func TestCreateDeck_NoWords(t *testing.T) {
	p, _, _ := newTestProcessor()

	if _, err := p.CreateDeck(context.Background(), "Empty", nil); err == nil {
		t.Error("Expected error for deck without words and without draft")
	}
}

func TestCreateDeck_RecoversWordListDraft(t *testing.T) {
	p, store, client := newTestProcessor()

	client.Errors["котка"] = fmt.Errorf("model overloaded")
	if _, err := p.CreateDeck(context.Background(), "Basics", []string{"ябълка", "котка"}); err == nil {
		t.Fatal("Expected first attempt to fail")
	}

	// The interrupted input survives as a draft
	if _, ok, _ := store.Backend().Get(storage.KeyWordsDraft); !ok {
		t.Fatal("Expected word list draft after failure")
	}

	delete(client.Errors, "котка")
	deck, err := p.CreateDeck(context.Background(), "Basics", nil)
	if err != nil {
		t.Fatalf("Recovery attempt failed: %v", err)
	}
	if len(deck.WordIDs) != 2 {
		t.Errorf("Expected recovered deck with 2 words, got %d", len(deck.WordIDs))
	}
}

func TestAddWordsToDeck(t *testing.T) {
	p, store, _ := newTestProcessor()

	deck, err := p.CreateDeck(context.Background(), "Basics", []string{"ябълка"})
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}

	if err := p.AddWordsToDeck(context.Background(), deck.ID, []string{"котка"}); err != nil {
		t.Fatalf("AddWordsToDeck failed: %v", err)
	}

	updated, _ := store.DeckByID(deck.ID)
	if len(updated.WordIDs) != 2 {
		t.Errorf("Expected 2 word references, got %d", len(updated.WordIDs))
	}
}

func TestAddWordsToDeck_UnknownDeck(t *testing.T) {
	p, _, _ := newTestProcessor()

	if err := p.AddWordsToDeck(context.Background(), "missing", []string{"котка"}); err == nil {
		t.Error("Expected error for unknown deck")
	}
}

func TestRemoveWordFromDeck(t *testing.T) {
	p, store, _ := newTestProcessor()

	deck, err := p.CreateDeck(context.Background(), "Basics", []string{"ябълка", "котка"})
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	removeID := deck.WordIDs[0]

	if err := p.RemoveWordFromDeck(deck.ID, removeID); err != nil {
		t.Fatalf("RemoveWordFromDeck failed: %v", err)
	}

	updated, _ := store.DeckByID(deck.ID)
	if len(updated.WordIDs) != 1 {
		t.Errorf("Expected 1 word reference, got %d", len(updated.WordIDs))
	}

	// The word record itself stays available for reuse
	if _, ok := store.WordByID(removeID); !ok {
		t.Error("Removed word should still exist in the store")
	}
}

func TestRemoveWordFromDeck_NotMember(t *testing.T) {
	p, _, _ := newTestProcessor()

	deck, err := p.CreateDeck(context.Background(), "Basics", []string{"ябълка"})
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}

	if err := p.RemoveWordFromDeck(deck.ID, "not-there"); err == nil {
		t.Error("Expected error for non-member word")
	}
}

func TestRenameDeck(t *testing.T) {
	p, store, _ := newTestProcessor()

	deck, err := p.CreateDeck(context.Background(), "Basics", []string{"ябълка"})
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}

	if err := p.RenameDeck(deck.ID, "Essentials"); err != nil {
		t.Fatalf("RenameDeck failed: %v", err)
	}

	updated, _ := store.DeckByID(deck.ID)
	if updated.Title != "Essentials" {
		t.Errorf("Expected title 'Essentials', got '%s'", updated.Title)
	}
}

func TestDeleteDeck_CascadesStories(t *testing.T) {
	p, store, _ := newTestProcessor()

	deck, err := p.CreateDeck(context.Background(), "Basics", []string{"ябълка"})
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	if _, err := p.GenerateStory(context.Background(), deck.ID, "Приказка", "", ""); err != nil {
		t.Fatalf("GenerateStory failed: %v", err)
	}

	if err := p.DeleteDeck(deck.ID); err != nil {
		t.Fatalf("DeleteDeck failed: %v", err)
	}

	if got := len(store.Stories()); got != 0 {
		t.Errorf("Expected stories to be deleted with the deck, got %d", got)
	}
	if got := len(store.Words()); got != 1 {
		t.Errorf("Words must survive deck deletion, got %d", got)
	}
}

func TestRegenWord_KeepsIdentity(t *testing.T) {
	p, store, client := newTestProcessor()

	if err := p.AddWords(context.Background(), []string{"ябълка"}); err != nil {
		t.Fatalf("AddWords failed: %v", err)
	}
	old := store.Words()[0]

	replacement := testutil.SampleWordCard("ябълка", "bg", "en")
	replacement.Definitions[0].Translation = "apple v2"
	client.Cards = map[string]card.WordCard{"ябълка": replacement}

	if err := p.RegenWord(context.Background(), old.ID); err != nil {
		t.Fatalf("RegenWord failed: %v", err)
	}

	fresh, ok := store.WordByID(old.ID)
	if !ok {
		t.Fatal("Regenerated word should keep its ID")
	}
	if fresh.Definitions[0].Translation != "apple v2" {
		t.Errorf("Expected regenerated content, got %q", fresh.Definitions[0].Translation)
	}
	if !fresh.CreatedAt.Equal(old.CreatedAt) {
		t.Error("Regenerated word should keep its creation time")
	}
}

func TestRegenWord_KeepsAudio(t *testing.T) {
	p, store, client := newTestProcessor()

	seeded := testutil.StoredWordCard("w1", "ябълка", "bg", "en")
	seeded.Audio = "T0xE"
	if err := store.SaveWords([]card.WordCard{seeded}); err != nil {
		t.Fatalf("SaveWords failed: %v", err)
	}

	replacement := testutil.SampleWordCard("ябълка", "bg", "en")
	replacement.Definitions[0].Translation = "apple v2"
	client.Cards = map[string]card.WordCard{"ябълка": replacement}

	if err := p.RegenWord(context.Background(), "w1"); err != nil {
		t.Fatalf("RegenWord failed: %v", err)
	}

	fresh, _ := store.WordByID("w1")
	if fresh.Audio != "T0xE" {
		t.Errorf("Regeneration must keep audio, got %q want %q", fresh.Audio, "T0xE")
	}
	if fresh.Definitions[0].Translation != "apple v2" {
		t.Errorf("Expected regenerated content, got %q", fresh.Definitions[0].Translation)
	}
}

func TestRegenWord_FillsMissingAudio(t *testing.T) {
	p, store, _ := newTestProcessor()

	seeded := testutil.StoredWordCard("w1", "ябълка", "bg", "en")
	if err := store.SaveWords([]card.WordCard{seeded}); err != nil {
		t.Fatalf("SaveWords failed: %v", err)
	}

	if err := p.RegenWord(context.Background(), "w1"); err != nil {
		t.Fatalf("RegenWord failed: %v", err)
	}

	fresh, _ := store.WordByID("w1")
	if fresh.Audio == "" {
		t.Error("Expected audio to be synthesized for a word without any")
	}
}

func TestDeleteWord_RemovesMembership(t *testing.T) {
	p, store, _ := newTestProcessor()

	deck, err := p.CreateDeck(context.Background(), "Basics", []string{"ябълка", "котка"})
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}

	if err := p.DeleteWord(deck.WordIDs[0]); err != nil {
		t.Fatalf("DeleteWord failed: %v", err)
	}

	updated, _ := store.DeckByID(deck.ID)
	if len(updated.WordIDs) != 1 {
		t.Errorf("Expected membership to shrink, got %v", updated.WordIDs)
	}
}

func TestWordsFromPrompt(t *testing.T) {
	p, _, client := newTestProcessor()
	client.WordLists = map[string][]string{"fruit": {"ябълка", "круша"}}

	words, err := p.WordsFromPrompt(context.Background(), "fruit", "")
	if err != nil {
		t.Fatalf("WordsFromPrompt failed: %v", err)
	}
	if len(words) != 2 {
		t.Errorf("Expected 2 words, got %v", words)
	}
}

func TestStudyDeck(t *testing.T) {
	p, _, _ := newTestProcessor()

	deck, err := p.CreateDeck(context.Background(), "Basics", []string{"ябълка", "котка"})
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}

	// First card known, second missed once then known.
	input := strings.NewReader("\ny\n\nn\n\ny\n")
	var out strings.Builder

	result, err := p.StudyDeck(deck.ID, input, &out)
	if err != nil {
		t.Fatalf("StudyDeck failed: %v", err)
	}

	if result.Cards != 2 {
		t.Errorf("Expected 2 cards, got %d", result.Cards)
	}
	if result.Passes != 3 {
		t.Errorf("Expected 3 reveals, got %d", result.Passes)
	}
	if result.Missed != 1 {
		t.Errorf("Expected 1 missed card, got %d", result.Missed)
	}
	if !strings.Contains(out.String(), "Studying 'Basics'") {
		t.Errorf("Missing session header in output:\n%s", out.String())
	}
}

func TestStudyDeck_EmptyDeck(t *testing.T) {
	p, store, _ := newTestProcessor()
	if err := store.SaveDecks([]card.Deck{{ID: "d1", Title: "Empty"}}); err != nil {
		t.Fatalf("SaveDecks failed: %v", err)
	}

	if _, err := p.StudyDeck("d1", strings.NewReader(""), &strings.Builder{}); err == nil {
		t.Error("Expected error for empty deck")
	}
}
