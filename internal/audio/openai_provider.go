package audio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider on OpenAI TTS. The response format
// is PCM, which OpenAI emits as single-channel 16-bit samples at 24000 Hz,
// matching the framing the Gemini provider produces.
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
	}, nil
}

// GenerateSpeech synthesizes pronunciation audio using OpenAI TTS
func (p *OpenAIProvider) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          preprocessText(text),
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: openai.SpeechResponseFormatPcm,
	}

	// Voice instructions are only supported by the gpt-4o-mini TTS models
	if p.config.OpenAIInstruction != "" && strings.HasPrefix(p.config.OpenAIModel, "gpt-4o-mini") {
		req.Instructions = p.config.OpenAIInstruction
	}

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	data, err := io.ReadAll(response)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received from OpenAI")
	}
	return data, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the OpenAI API is accessible
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// preprocessText strips punctuation that should not be pronounced
func preprocessText(text string) string {
	cleaned := strings.TrimSpace(text)
	for _, punct := range []string{"!", "?", ".", ",", ";", ":", "\"", "'", "(", ")", "[", "]", "{", "}", "-", "—", "–"} {
		cleaned = strings.ReplaceAll(cleaned, punct, "")
	}
	return strings.TrimSpace(cleaned)
}
