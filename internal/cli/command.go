package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/lexirecall/internal"
	"codeberg.org/snonux/lexirecall/internal/storage"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lexirecall",
		Short: "AI Vocabulary Flashcard Studio",
		Long: `lexirecall builds and studies vocabulary flashcard decks.

Card content, pronunciation audio and practice stories are generated
with Gemini; everything is stored locally and can be exported to Anki.

Examples:
  lexirecall deck create "Food" --words "ябълка,котка"
  lexirecall deck create "Market" --prompt "words for shopping at a market"
  lexirecall study <deck-id>
  lexirecall anki <deck-id>`,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.lexirecall.yaml)")
	cmd.PersistentFlags().StringVar(&flags.StateDir, "state-dir", storage.DefaultStateDir(), "Directory holding the local content store")
	cmd.PersistentFlags().StringVar(&flags.TargetLang, "target-lang", flags.TargetLang, "Language being studied (BCP 47 code)")
	cmd.PersistentFlags().StringVar(&flags.NativeLang, "native-lang", flags.NativeLang, "Language translations are written in")
	cmd.PersistentFlags().BoolVar(&flags.SkipAudio, "skip-audio", false, "Skip pronunciation audio generation")

	// Audio provider flags
	cmd.PersistentFlags().StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "TTS provider: gemini or openai")
	cmd.PersistentFlags().StringVar(&flags.GeminiVoice, "gemini-voice", flags.GeminiVoice, "Gemini TTS voice (e.g. Kore, Puck, Zephyr)")
	cmd.PersistentFlags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.PersistentFlags().StringVar(&flags.OpenAIVoice, "openai-voice", "", "OpenAI voice: alloy, ash, coral, echo, nova, shimmer (default: alloy)")
	cmd.PersistentFlags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")
	cmd.PersistentFlags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts (e.g. 'speak slowly and clearly')")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("store.state_dir", cmd.PersistentFlags().Lookup("state-dir"))
	viper.BindPFlag("languages.target", cmd.PersistentFlags().Lookup("target-lang"))
	viper.BindPFlag("languages.native", cmd.PersistentFlags().Lookup("native-lang"))
	viper.BindPFlag("audio.provider", cmd.PersistentFlags().Lookup("audio-provider"))
	viper.BindPFlag("audio.gemini_voice", cmd.PersistentFlags().Lookup("gemini-voice"))
	viper.BindPFlag("audio.openai_model", cmd.PersistentFlags().Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", cmd.PersistentFlags().Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_speed", cmd.PersistentFlags().Lookup("openai-speed"))
	viper.BindPFlag("audio.openai_instruction", cmd.PersistentFlags().Lookup("openai-instruction"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".lexirecall" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lexirecall")
	}

	// Environment variables
	viper.SetEnvPrefix("LEXIRECALL")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("gemini.api_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("audio.openai_key")
}
