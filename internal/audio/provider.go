package audio

import (
	"context"
	"fmt"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateSpeech synthesizes pronunciation audio for text and returns
	// the raw audio bytes
	GenerateSpeech(ctx context.Context, text string) ([]byte, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider   string // Provider name: "gemini" or "openai"
	TargetLang string // Language code of the spoken text

	// Gemini-specific settings
	GeminiKey   string
	GeminiVoice string // "Kore", "Puck", "Charon", ...

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:    "gemini",
		GeminiVoice: "Kore",
		OpenAIModel: "gpt-4o-mini-tts",
		OpenAIVoice: "alloy",
		OpenAISpeed: 0.9,
	}
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(ctx context.Context, config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch config.Provider {
	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiProvider(ctx, config)

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateSpeech tries the primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	data, err := p.primary.GenerateSpeech(ctx, text)
	if err != nil {
		fmt.Printf("Primary provider (%s) failed: %v. Falling back to %s\n",
			p.primary.Name(), err, p.fallback.Name())
		return p.fallback.GenerateSpeech(ctx, text)
	}
	return data, nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
