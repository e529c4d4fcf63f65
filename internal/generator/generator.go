package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"codeberg.org/snonux/lexirecall/internal"
	"codeberg.org/snonux/lexirecall/internal/card"
	"codeberg.org/snonux/lexirecall/internal/storage"
)

// GenerationClient is the remote AI capability the generator depends on.
// Implementations make exactly one attempt per call and report failures
// as errors; the generator's checkpoint is the retry mechanism.
type GenerationClient interface {
	GenerateWordList(ctx context.Context, prompt string, image []byte, targetLang, nativeLang string) ([]string, error)
	GenerateFlashcardData(ctx context.Context, word, targetLang, nativeLang string) (card.WordCard, error)
	GenerateStory(ctx context.Context, title string, words []string, userPrompt string, image []byte, targetLang, nativeLang string) (string, error)
}

// ErrNoClient is returned when an operation needs the remote generation
// client but none is configured.
var ErrNoClient = errors.New("generation requires a Gemini API key (set GEMINI_API_KEY)")

// SpeechProvider synthesizes pronunciation audio. Speech failures are
// never fatal to card generation.
type SpeechProvider interface {
	GenerateSpeech(ctx context.Context, text string) ([]byte, error)
}

// Generator turns requested word lists into full flashcard records. It
// reuses already-stored word data where possible, checkpoints progress
// after every completed word, and resumes an interrupted batch when
// invoked again with the same word set. Words are processed strictly one
// at a time in request order.
type Generator struct {
	store  *storage.ContentStore
	client GenerationClient
	speech SpeechProvider // may be nil to skip audio

	// Progress receives a human-readable status line before each remote
	// call, skip or reuse. Best-effort instrumentation only.
	Progress func(status string)
}

// New creates a batch generator. speech may be nil to skip audio
// generation entirely.
func New(store *storage.ContentStore, client GenerationClient, speech SpeechProvider) *Generator {
	return &Generator{
		store:  store,
		client: client,
		speech: speech,
	}
}

// Speech returns the configured speech provider, nil when audio is off
func (g *Generator) Speech() SpeechProvider {
	return g.speech
}

func (g *Generator) progress(format string, args ...any) {
	if g.Progress != nil {
		g.Progress(fmt.Sprintf(format, args...))
	}
}

// Generate produces a WordCard for every distinct normalized word in
// requested, in first-occurrence order. Already-stored word data is
// reused under a fresh identity rather than regenerated. On failure the
// error propagates immediately and the checkpoint keeps the completed
// prefix; invoking again with the same word set resumes after it.
func (g *Generator) Generate(ctx context.Context, requested []string, targetLang, nativeLang string) ([]card.WordCard, error) {
	words := normalizeWords(requested)
	if len(words) == 0 {
		return []card.WordCard{}, nil
	}

	backend := g.store.Backend()

	completed := []card.WordCard{}
	done := make(map[string]bool)
	if cp, ok := loadCheckpoint(backend); ok {
		if sameWordSet(cp.Requested, words) {
			completed = cp.Completed
			for _, c := range cp.Completed {
				done[strings.ToLower(strings.TrimSpace(c.Word))] = true
			}
		} else {
			// Different batch; the stale checkpoint is useless.
			clearCheckpoint(backend)
		}
	}

	known := g.knownWords()

	for _, w := range words {
		if done[w] {
			g.progress("✓ Skipping '%s' - already generated", w)
			continue
		}

		var c card.WordCard
		if k, ok := known[w]; ok {
			g.progress("✓ Found '%s' locally", w)
			// Reused content, fresh identity.
			c = k
			c.ID = internal.NewID(w)
			c.CreatedAt = time.Now().UTC()
		} else {
			if g.client == nil {
				return nil, ErrNoClient
			}
			g.progress("Generating '%s'...", w)
			generated, err := g.client.GenerateFlashcardData(ctx, w, targetLang, nativeLang)
			if err != nil {
				return nil, fmt.Errorf("failed to generate '%s': %w", w, err)
			}
			c = generated
			c.ID = internal.NewID(w)
			c.CreatedAt = time.Now().UTC()

			if g.speech != nil {
				g.progress("Generating audio for '%s'...", w)
				if data, err := g.speech.GenerateSpeech(ctx, w); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: audio generation for '%s' failed: %v\n", w, err)
				} else {
					c.Audio = base64.StdEncoding.EncodeToString(data)
				}
			}
		}

		completed = append(completed, c)
		done[w] = true
		known[w] = c
		saveCheckpoint(backend, Checkpoint{Requested: words, Completed: completed})
	}

	clearCheckpoint(backend)
	return completed, nil
}

// knownWords builds the reuse lookup keyed by normalized word text. The
// independent Words collection is scanned first, then legacy embedded
// deck cards; first occurrence wins, so Words entries take precedence.
func (g *Generator) knownWords() map[string]card.WordCard {
	known := make(map[string]card.WordCard)

	for _, w := range g.store.Words() {
		key := strings.ToLower(strings.TrimSpace(w.Word))
		if key == "" {
			continue
		}
		if _, ok := known[key]; !ok {
			known[key] = w
		}
	}

	for _, d := range g.store.Decks() {
		for _, c := range d.Cards {
			key := strings.ToLower(strings.TrimSpace(c.Word))
			if key == "" {
				continue
			}
			if _, ok := known[key]; !ok {
				known[key] = c
			}
		}
	}

	return known
}

// normalizeWords lowercases, trims and deduplicates the requested words,
// preserving insertion order, first occurrence wins.
func normalizeWords(requested []string) []string {
	seen := make(map[string]bool, len(requested))
	out := make([]string, 0, len(requested))
	for _, w := range requested {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
