package testutil

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/snonux/lexirecall/internal/card"
)

// MockGenerationClient mocks the generative AI client
type MockGenerationClient struct {
	WordLists map[string][]string
	Cards     map[string]card.WordCard
	Stories   map[string]string
	Errors    map[string]error
	Calls     []string
}

// GenerateWordList mocks word list extraction from a prompt
func (m *MockGenerationClient) GenerateWordList(ctx context.Context, prompt string, image []byte, targetLang, nativeLang string) ([]string, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("WordList: %s", prompt))

	if err, ok := m.Errors[prompt]; ok {
		return nil, err
	}

	if words, ok := m.WordLists[prompt]; ok {
		return words, nil
	}

	// Default response: split the prompt into words
	return strings.Fields(strings.ToLower(prompt)), nil
}

// GenerateFlashcardData mocks flashcard content generation
func (m *MockGenerationClient) GenerateFlashcardData(ctx context.Context, word, targetLang, nativeLang string) (card.WordCard, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("Flashcard: %s", word))

	if err, ok := m.Errors[word]; ok {
		return card.WordCard{}, err
	}

	if c, ok := m.Cards[word]; ok {
		return c, nil
	}

	// Default response
	return SampleWordCard(word, targetLang, nativeLang), nil
}

// GenerateStory mocks story generation
func (m *MockGenerationClient) GenerateStory(ctx context.Context, title string, words []string, userPrompt string, image []byte, targetLang, nativeLang string) (string, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("Story: %s (%d words)", title, len(words)))

	if err, ok := m.Errors[title]; ok {
		return "", err
	}

	if story, ok := m.Stories[title]; ok {
		return story, nil
	}

	// Default response
	return fmt.Sprintf("A story about **%s**.", strings.Join(words, "**, **")), nil
}

// MockSpeechProvider mocks pronunciation audio synthesis
type MockSpeechProvider struct {
	Audio  []byte
	Errors map[string]error
	Calls  []string
}

// GenerateSpeech mocks TTS synthesis
func (m *MockSpeechProvider) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("Speech: %s", text))

	if err, ok := m.Errors[text]; ok {
		return nil, err
	}

	if m.Audio != nil {
		return m.Audio, nil
	}

	// Default mock PCM samples
	return []byte{0x00, 0x01, 0x00, 0x02}, nil
}

// Name returns the mock provider name
func (m *MockSpeechProvider) Name() string { return "mock" }

// IsAvailable always reports the mock as usable
func (m *MockSpeechProvider) IsAvailable() error { return nil }

// SampleWordCard builds a plausible generated card for a word, without an
// ID so callers exercise identity assignment themselves.
func SampleWordCard(word, targetLang, nativeLang string) card.WordCard {
	return card.WordCard{
		Word:       word,
		TargetLang: targetLang,
		NativeLang: nativeLang,
		Phonetics: card.Phonetics{
			IPA:        fmt.Sprintf("/%s/", word),
			Simplified: word,
		},
		PartOfSpeech: card.PartOfSpeech{
			Type:        "noun",
			Description: "a common noun",
		},
		Definitions: []card.Definition{
			{
				Definition:         fmt.Sprintf("meaning of %s", word),
				Translation:        fmt.Sprintf("translation of %s", word),
				Example:            fmt.Sprintf("An example with %s.", word),
				ExampleTranslation: fmt.Sprintf("A translated example with %s.", word),
			},
		},
		Collocations: []string{word + " phrase"},
		Synonyms:     []string{},
		Antonyms:     []string{},
		WordFamily:   []card.WordFamilyEntry{},
		Mnemonics: []card.Mnemonic{
			{Type: "visual", Text: "picture it", Translation: "представи си го"},
			{Type: "story", Text: "remember the tale", Translation: "спомни си приказката"},
		},
		CreatedAt: time.Now().UTC(),
	}
}

// StoredWordCard is SampleWordCard with an identity, for seeding stores
func StoredWordCard(id, word, targetLang, nativeLang string) card.WordCard {
	c := SampleWordCard(word, targetLang, nativeLang)
	c.ID = id
	return c
}
