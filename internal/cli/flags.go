package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	StateDir   string
	TargetLang string
	NativeLang string
	SkipAudio  bool

	// Word input flags
	WordsFile string
	Prompt    string
	ImageFile string

	// Export flags
	AnkiCSV bool
	Output  string

	// Audio provider flags
	AudioProvider string
	GeminiVoice   string

	// OpenAI TTS flags
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		TargetLang:    "bg",
		NativeLang:    "en",
		AudioProvider: "gemini",
		GeminiVoice:   "Kore",
		OpenAIModel:   "gpt-4o-mini-tts",
		OpenAISpeed:   0.9,
	}
}
