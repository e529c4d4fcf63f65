package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"codeberg.org/snonux/lexirecall/internal/card"
)

const (
	textModel = "gemini-2.5-flash"
	ttsModel  = "gemini-2.5-flash-preview-tts"

	// SpeechSampleRate is the fixed sample rate of generated speech:
	// single-channel 16-bit PCM at 24000 Hz.
	SpeechSampleRate = 24000
)

// Client talks to the Gemini API for all content generation: word lists,
// flashcard data, speech and stories. Every call is a single attempt; a
// circuit breaker fails fast after repeated upstream failures but never
// retries on its own.
type Client struct {
	apiKey  string
	client  *genai.Client
	breaker *gobreaker.CircuitBreaker
	voice   string
}

// Option configures a Client
type Option func(*Client)

// WithVoice sets the prebuilt voice used for speech generation
func WithVoice(voice string) Option {
	return func(c *Client) {
		c.voice = voice
	}
}

// NewClient creates a Gemini generation client
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		apiKey:  apiKey,
		client:  genaiClient,
		voice:   "Kore",
		breaker: newBreaker(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// newBreaker builds the circuit breaker shared by all generation calls.
// It trips open after 5 consecutive upstream failures and never retries.
func newBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "gemini",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// generate runs one GenerateContent call through the circuit breaker
func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	resp, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.Models.GenerateContent(ctx, model, contents, config)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*genai.GenerateContentResponse), nil
}

// userContents builds the request contents from a text prompt and an
// optional image attachment.
func userContents(prompt string, image []byte) []*genai.Content {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if len(image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(image, http.DetectContentType(image)))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// GenerateWordList produces candidate vocabulary words for a topic prompt
// and optional image. Words come back lowercased and trimmed; an empty
// slice means no result.
func (c *Client) GenerateWordList(ctx context.Context, prompt string, image []byte, targetLang, nativeLang string) ([]string, error) {
	fullPrompt := fmt.Sprintf(
		"Suggest vocabulary words in %s (learner's native language: %s) for the following topic. "+
			"Return only the words themselves, no explanations.\n\nTopic: %s",
		targetLang, nativeLang, prompt)

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		Temperature: genai.Ptr[float32](0.7),
	}

	resp, err := c.generate(ctx, textModel, userContents(fullPrompt, image), config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	var raw []string
	if err := json.Unmarshal([]byte(resp.Text()), &raw); err != nil {
		return nil, fmt.Errorf("unexpected word list response: %w", err)
	}

	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	return words, nil
}

// GenerateFlashcardData produces a fully populated WordCard for a single
// word, minus identity and audio. The response is constrained by a JSON
// schema so every structural field comes back filled.
func (c *Client) GenerateFlashcardData(ctx context.Context, word, targetLang, nativeLang string) (card.WordCard, error) {
	prompt := fmt.Sprintf(
		"Create flashcard data for the %s word '%s' for a learner whose native language is %s. "+
			"Include phonetic transcriptions (IPA and a simplified reading), the part of speech, "+
			"at least one definition with a translated example sentence, common collocations, "+
			"synonyms, antonyms, the word family, and 2-3 mnemonics (each with a %s text and a %s translation).",
		targetLang, word, nativeLang, targetLang, nativeLang)

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   flashcardSchema(),
		Temperature:      genai.Ptr[float32](0.3),
	}

	resp, err := c.generate(ctx, textModel, userContents(prompt, nil), config)
	if err != nil {
		return card.WordCard{}, fmt.Errorf("Gemini API error: %w", err)
	}

	var w card.WordCard
	if err := json.Unmarshal([]byte(resp.Text()), &w); err != nil {
		return card.WordCard{}, fmt.Errorf("unexpected flashcard response: %w", err)
	}
	if len(w.Definitions) == 0 {
		return card.WordCard{}, fmt.Errorf("flashcard response for '%s' has no definitions", word)
	}

	w.ID = ""
	w.Audio = ""
	w.Word = word
	w.TargetLang = targetLang
	w.NativeLang = nativeLang
	return card.MigrateWord(w), nil
}

// GenerateSpeech synthesizes pronunciation audio for text. The returned
// bytes are raw single-channel 16-bit PCM at SpeechSampleRate.
func (c *Client) GenerateSpeech(ctx context.Context, text, lang string) ([]byte, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.voice},
			},
		},
	}

	prompt := fmt.Sprintf("Pronounce this %s text slowly and clearly: %s", lang, preprocessSpeechText(text))
	resp, err := c.generate(ctx, ttsModel, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("Gemini TTS API error: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("no audio data in TTS response")
}

// GenerateStory produces a short narrative using the supplied words. Each
// supplied word appears wrapped in the fixed **word** bold markup.
func (c *Client) GenerateStory(ctx context.Context, title string, words []string, userPrompt string, image []byte, targetLang, nativeLang string) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("no words to build a story from")
	}

	prompt := fmt.Sprintf(
		"Write a short illustrative story in %s titled '%s' for a learner whose native language is %s. "+
			"Use every one of these words and wrap each occurrence in double asterisks, like **%s**: %s.",
		targetLang, title, nativeLang, words[0], strings.Join(words, ", "))
	if userPrompt != "" {
		prompt += "\n\nAdditional instructions: " + userPrompt
	}

	resp, err := c.generate(ctx, textModel, userContents(prompt, image), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.9),
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return "", fmt.Errorf("empty story response")
	}
	return content, nil
}

// preprocessSpeechText strips punctuation that should not be pronounced
func preprocessSpeechText(text string) string {
	cleaned := strings.TrimSpace(text)
	for _, punct := range []string{"!", "?", ".", ",", ";", ":", "\"", "'", "(", ")", "[", "]", "{", "}", "-", "—", "–"} {
		cleaned = strings.ReplaceAll(cleaned, punct, "")
	}
	return strings.TrimSpace(cleaned)
}
