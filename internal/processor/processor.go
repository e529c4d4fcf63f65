package processor

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/lexirecall/internal"
	"codeberg.org/snonux/lexirecall/internal/audio"
	"codeberg.org/snonux/lexirecall/internal/card"
	"codeberg.org/snonux/lexirecall/internal/cli"
	"codeberg.org/snonux/lexirecall/internal/draft"
	"codeberg.org/snonux/lexirecall/internal/gemini"
	"codeberg.org/snonux/lexirecall/internal/generator"
	"codeberg.org/snonux/lexirecall/internal/storage"
)

// Processor handles the main deck and word management logic
type Processor struct {
	flags  *cli.Flags
	store  *storage.ContentStore
	client generator.GenerationClient
	gen    *generator.Generator
}

// NewProcessor creates a processor wired to the local content store and
// the Gemini generation client.
func NewProcessor(ctx context.Context, flags *cli.Flags) (*Processor, error) {
	backend, err := storage.NewFileBackend(flags.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open content store: %w", err)
	}
	store := storage.NewContentStore(backend)

	// Local-only commands work without an API key; generation fails
	// lazily when actually needed.
	var client generator.GenerationClient
	if key := cli.GetGeminiKey(); key != "" {
		c, err := gemini.NewClient(ctx, key, gemini.WithVoice(flags.GeminiVoice))
		if err != nil {
			return nil, err
		}
		client = c
	}

	var speech generator.SpeechProvider
	if !flags.SkipAudio {
		provider, err := audio.NewProvider(ctx, audioConfig(flags))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: audio provider unavailable, continuing without audio: %v\n", err)
		} else {
			speech = provider
		}
	}

	return newProcessor(flags, store, client, speech), nil
}

// NewProcessorWithDeps creates a processor with explicit dependencies
func NewProcessorWithDeps(flags *cli.Flags, store *storage.ContentStore, client generator.GenerationClient, speech generator.SpeechProvider) *Processor {
	return newProcessor(flags, store, client, speech)
}

func newProcessor(flags *cli.Flags, store *storage.ContentStore, client generator.GenerationClient, speech generator.SpeechProvider) *Processor {
	gen := generator.New(store, client, speech)
	gen.Progress = func(status string) {
		fmt.Printf("  %s\n", status)
	}
	return &Processor{
		flags:  flags,
		store:  store,
		client: client,
		gen:    gen,
	}
}

// audioConfig builds the TTS provider configuration from flags and the
// config file, flags winning.
func audioConfig(flags *cli.Flags) *audio.Config {
	config := audio.DefaultProviderConfig()
	config.Provider = flags.AudioProvider
	config.TargetLang = flags.TargetLang
	config.GeminiKey = cli.GetGeminiKey()
	config.GeminiVoice = flags.GeminiVoice
	config.OpenAIKey = cli.GetOpenAIKey()
	config.OpenAIModel = flags.OpenAIModel
	config.OpenAISpeed = flags.OpenAISpeed
	config.OpenAIInstruction = flags.OpenAIInstruction

	if flags.OpenAIVoice != "" {
		config.OpenAIVoice = flags.OpenAIVoice
	} else if viper.IsSet("audio.openai_voice") {
		config.OpenAIVoice = viper.GetString("audio.openai_voice")
	}

	return config
}

// CreateDeck generates cards for the given words and saves a new deck
// referencing them. When words is empty, a recoverable word-list draft
// for the same title is used if present.
func (p *Processor) CreateDeck(ctx context.Context, title string, words []string) (card.Deck, error) {
	wordsSlot := p.wordsDraftSlot()

	if len(words) == 0 {
		recovered, ok := wordsSlot.Load([]string{title})
		if !ok {
			return card.Deck{}, fmt.Errorf("no words given for deck '%s'", title)
		}
		fmt.Printf("Recovered word list draft for '%s' (%d words)\n", title, len(recovered))
		words = recovered
	}

	// Keep the input recoverable while generation may still fail.
	wordsSlot.Save([]string{title}, words)
	wordsSlot.Flush()

	fmt.Printf("\nGenerating deck '%s' (%d words)\n", title, len(words))
	cards, err := p.gen.Generate(ctx, words, p.flags.TargetLang, p.flags.NativeLang)
	if err != nil {
		return card.Deck{}, err
	}

	if err := p.store.UpsertWords(cards); err != nil {
		return card.Deck{}, fmt.Errorf("failed to save words: %w", err)
	}

	deck := card.Deck{
		ID:         internal.NewID(title),
		Title:      title,
		CreatedAt:  time.Now().UTC(),
		TargetLang: p.flags.TargetLang,
		NativeLang: p.flags.NativeLang,
		WordIDs:    wordIDs(cards),
	}

	decks := append(p.store.Decks(), deck)
	if err := p.store.SaveDecks(decks); err != nil {
		return card.Deck{}, fmt.Errorf("failed to save deck: %w", err)
	}

	wordsSlot.Clear()
	fmt.Printf("\nCreated deck '%s' with %d cards\n", title, len(cards))
	return deck, nil
}

// AddWordsToDeck generates cards for new words and appends them to an
// existing deck.
func (p *Processor) AddWordsToDeck(ctx context.Context, deckID string, words []string) error {
	deck, ok := p.store.DeckByID(deckID)
	if !ok {
		return fmt.Errorf("deck '%s' not found", deckID)
	}

	deckSlot := p.deckDraftSlot()
	deckSlot.Save([]string{deck.ID}, deckDraftState{Title: deck.Title, AddWords: words})
	deckSlot.Flush()

	cards, err := p.gen.Generate(ctx, words, deck.TargetLang, deck.NativeLang)
	if err != nil {
		return err
	}

	if err := p.store.UpsertWords(cards); err != nil {
		return fmt.Errorf("failed to save words: %w", err)
	}

	deck.WordIDs = append(deck.WordIDs, wordIDs(cards)...)
	deck = card.MigrateDeck(deck)
	if err := p.saveDeck(deck); err != nil {
		return err
	}

	deckSlot.Clear()
	fmt.Printf("\nAdded %d cards to deck '%s'\n", len(cards), deck.Title)
	return nil
}

// RemoveWordFromDeck removes a word reference from a deck. The word
// record itself stays in the store.
func (p *Processor) RemoveWordFromDeck(deckID, wordID string) error {
	deck, ok := p.store.DeckByID(deckID)
	if !ok {
		return fmt.Errorf("deck '%s' not found", deckID)
	}

	kept := make([]string, 0, len(deck.WordIDs))
	for _, id := range deck.WordIDs {
		if id != wordID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(deck.WordIDs) {
		return fmt.Errorf("word '%s' is not in deck '%s'", wordID, deck.Title)
	}

	deck.WordIDs = kept
	return p.saveDeck(deck)
}

// RenameDeck changes a deck title
func (p *Processor) RenameDeck(deckID, title string) error {
	deck, ok := p.store.DeckByID(deckID)
	if !ok {
		return fmt.Errorf("deck '%s' not found", deckID)
	}

	deck.Title = title
	return p.saveDeck(deck)
}

// DeleteDeck removes a deck and its dependent stories
func (p *Processor) DeleteDeck(deckID string) error {
	deck, ok := p.store.DeckByID(deckID)
	if !ok {
		return fmt.Errorf("deck '%s' not found", deckID)
	}

	if err := p.store.DeleteDeck(deckID); err != nil {
		return err
	}
	fmt.Printf("Deleted deck '%s'\n", deck.Title)
	return nil
}

// AddWords generates standalone word cards outside any deck
func (p *Processor) AddWords(ctx context.Context, words []string) error {
	cards, err := p.gen.Generate(ctx, words, p.flags.TargetLang, p.flags.NativeLang)
	if err != nil {
		return err
	}
	if err := p.store.UpsertWords(cards); err != nil {
		return fmt.Errorf("failed to save words: %w", err)
	}
	fmt.Printf("\nSaved %d word cards\n", len(cards))
	return nil
}

// DeleteWord removes a word record and its deck memberships
func (p *Processor) DeleteWord(wordID string) error {
	w, ok := p.store.WordByID(wordID)
	if !ok {
		return fmt.Errorf("word '%s' not found", wordID)
	}

	if err := p.store.DeleteWord(wordID); err != nil {
		return err
	}
	fmt.Printf("Deleted word '%s'\n", w.Word)
	return nil
}

// RegenWord regenerates the content of a stored word, keeping its
// identity, deck memberships and existing audio. A word without audio
// gets it synthesized; audio failures are non-fatal.
func (p *Processor) RegenWord(ctx context.Context, wordID string) error {
	old, ok := p.store.WordByID(wordID)
	if !ok {
		return fmt.Errorf("word '%s' not found", wordID)
	}

	if p.client == nil {
		return generator.ErrNoClient
	}

	fmt.Printf("  Regenerating '%s'...\n", old.Word)
	fresh, err := p.client.GenerateFlashcardData(ctx, old.Word, old.TargetLang, old.NativeLang)
	if err != nil {
		return fmt.Errorf("failed to regenerate '%s': %w", old.Word, err)
	}

	fresh.ID = old.ID
	fresh.CreatedAt = old.CreatedAt
	fresh.Audio = old.Audio

	if speech := p.gen.Speech(); speech != nil && old.Audio == "" {
		fmt.Printf("  Generating audio for '%s'...\n", old.Word)
		if data, err := speech.GenerateSpeech(ctx, old.Word); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: audio generation for '%s' failed: %v\n", old.Word, err)
		} else {
			fresh.Audio = encodeAudio(data)
		}
	}

	return p.store.UpsertWords([]card.WordCard{fresh})
}

// WordsFromPrompt asks the generation client for a word list matching a
// free-form prompt, optionally grounded on an image file.
func (p *Processor) WordsFromPrompt(ctx context.Context, prompt, imagePath string) ([]string, error) {
	if p.client == nil {
		return nil, generator.ErrNoClient
	}

	var image []byte
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		image = data
	}

	words, err := p.client.GenerateWordList(ctx, prompt, image, p.flags.TargetLang, p.flags.NativeLang)
	if err != nil {
		return nil, fmt.Errorf("failed to generate word list: %w", err)
	}
	return words, nil
}

// GenerateStory writes a practice story for a deck
func (p *Processor) GenerateStory(ctx context.Context, deckID, title, userPrompt, imagePath string) (card.Story, error) {
	var image []byte
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return card.Story{}, fmt.Errorf("failed to read image: %w", err)
		}
		image = data
	}

	story, err := p.gen.GenerateStory(ctx, deckID, title, userPrompt, image)
	if err != nil {
		return card.Story{}, err
	}
	fmt.Printf("\nCreated story '%s' (%d words)\n", story.Title, len(story.Words))
	return story, nil
}

// DeleteStory removes a story
func (p *Processor) DeleteStory(storyID string) error {
	return p.store.DeleteStory(storyID)
}

// Store exposes the underlying content store for listing commands
func (p *Processor) Store() *storage.ContentStore {
	return p.store
}

// deckDraftState is the recoverable state of an in-progress deck edit
type deckDraftState struct {
	Title     string   `json:"title"`
	AddWords  []string `json:"addWords"`
	RemoveIDs []string `json:"removeIds,omitempty"`
}

func (p *Processor) deckDraftSlot() *draft.Slot[deckDraftState] {
	return draft.NewSlot[deckDraftState](p.store.Backend(), storage.KeyDeckDraft)
}

func (p *Processor) wordsDraftSlot() *draft.Slot[[]string] {
	return draft.NewSlot[[]string](p.store.Backend(), storage.KeyWordsDraft)
}

func (p *Processor) saveDeck(deck card.Deck) error {
	decks := p.store.Decks()
	for i := range decks {
		if decks[i].ID == deck.ID {
			decks[i] = deck
		}
	}
	if err := p.store.SaveDecks(decks); err != nil {
		return fmt.Errorf("failed to save deck: %w", err)
	}
	return nil
}

func encodeAudio(pcm []byte) string {
	return base64.StdEncoding.EncodeToString(pcm)
}

func wordIDs(cards []card.WordCard) []string {
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}
