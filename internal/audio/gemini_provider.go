package audio

import (
	"context"
	"fmt"

	"codeberg.org/snonux/lexirecall/internal/gemini"
)

// GeminiProvider implements Provider on the Gemini TTS capability. Output
// is raw single-channel 16-bit PCM at gemini.SpeechSampleRate.
type GeminiProvider struct {
	client *gemini.Client
	config *Config
}

// NewGeminiProvider creates a new Gemini TTS provider
func NewGeminiProvider(ctx context.Context, config *Config) (Provider, error) {
	client, err := gemini.NewClient(ctx, config.GeminiKey, gemini.WithVoice(config.GeminiVoice))
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{client: client, config: config}, nil
}

// GenerateSpeech synthesizes pronunciation audio via Gemini TTS
func (p *GeminiProvider) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	data, err := p.client.GenerateSpeech(ctx, text, p.config.TargetLang)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received from Gemini")
	}
	return data, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks if the Gemini API is accessible
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}
