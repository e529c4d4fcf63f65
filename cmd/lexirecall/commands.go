package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/lexirecall/internal/batch"
	"codeberg.org/snonux/lexirecall/internal/cli"
	"codeberg.org/snonux/lexirecall/internal/processor"
)

// collectWords resolves the deck word input from --words, --batch or a
// generated --prompt word list, in that order of precedence.
func collectWords(cmd *cobra.Command, flags *cli.Flags, proc *processor.Processor, words string) ([]string, error) {
	if words != "" {
		return batch.ParseWords(words), nil
	}
	if flags.WordsFile != "" {
		return batch.ReadWordFile(flags.WordsFile)
	}
	if flags.Prompt != "" {
		fmt.Println("Generating word list...")
		return proc.WordsFromPrompt(cmd.Context(), flags.Prompt, flags.ImageFile)
	}
	return nil, nil
}

func newDeckCommand(flags *cli.Flags) *cobra.Command {
	deckCmd := &cobra.Command{
		Use:   "deck",
		Short: "Manage flashcard decks",
	}

	var words string

	createCmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a deck and generate cards for its words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			input, err := collectWords(cmd, flags, proc, words)
			if err != nil {
				return err
			}
			deck, err := proc.CreateDeck(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			fmt.Printf("Deck ID: %s\n", deck.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&words, "words", "", "Comma-separated word list")
	createCmd.Flags().StringVar(&flags.WordsFile, "batch", "", "Read words from file (one per line, optional '= hint' suffix)")
	createCmd.Flags().StringVar(&flags.Prompt, "prompt", "", "Generate the word list from a topic prompt")
	createCmd.Flags().StringVar(&flags.ImageFile, "image", "", "Image file to ground the word list prompt on")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			proc.PrintDecks(os.Stdout)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <deck-id>",
		Short: "Show a deck with its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return proc.PrintDeck(os.Stdout, args[0])
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <deck-id> <words...>",
		Short: "Generate cards for new words and add them to a deck",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return proc.AddWordsToDeck(cmd.Context(), args[0], args[1:])
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <deck-id> <word-id>",
		Short: "Remove a word from a deck (the word itself is kept)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return proc.RemoveWordFromDeck(args[0], args[1])
		},
	}

	renameCmd := &cobra.Command{
		Use:   "rename <deck-id> <title>",
		Short: "Rename a deck",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return proc.RenameDeck(args[0], args[1])
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <deck-id>",
		Short: "Delete a deck and its stories (words are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return proc.DeleteDeck(args[0])
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit <deck-id>",
		Short: "Edit a deck interactively (unsaved edits are kept as a draft)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return proc.EditDeck(cmd.Context(), args[0], os.Stdin, os.Stdout)
		},
	}

	deckCmd.AddCommand(createCmd, listCmd, showCmd, addCmd, removeCmd, renameCmd, deleteCmd, editCmd)
	return deckCmd
}

func newWordCommand(flags *cli.Flags) *cobra.Command {
	wordCmd := &cobra.Command{
		Use:   "word",
		Short: "Manage standalone word cards",
	}

	addCmd := &cobra.Command{
		Use:   "add [words...]",
		Short: "Generate cards for words without putting them in a deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			words := args
			if flags.WordsFile != "" {
				fromFile, err := batch.ReadWordFile(flags.WordsFile)
				if err != nil {
					return err
				}
				words = append(words, fromFile...)
			}
			if len(words) == 0 {
				return fmt.Errorf("no words given")
			}
			return proc.AddWords(cmd.Context(), words)
		},
	}
	addCmd.Flags().StringVar(&flags.WordsFile, "batch", "", "Read words from file (one per line, optional '= hint' suffix)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all stored words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			proc.PrintWords(os.Stdout)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <word-id>",
		Short: "Delete a word and remove it from all decks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return proc.DeleteWord(args[0])
		},
	}

	regenCmd := &cobra.Command{
		Use:   "regen <word-id>",
		Short: "Regenerate a word's card content and audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return proc.RegenWord(cmd.Context(), args[0])
		},
	}

	wordCmd.AddCommand(addCmd, listCmd, deleteCmd, regenCmd)
	return wordCmd
}

func newStoryCommand(flags *cli.Flags) *cobra.Command {
	storyCmd := &cobra.Command{
		Use:   "story",
		Short: "Manage practice stories",
	}

	var title string

	generateCmd := &cobra.Command{
		Use:   "generate <deck-id>",
		Short: "Generate a story using the words of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			story, err := proc.GenerateStory(cmd.Context(), args[0], title, flags.Prompt, flags.ImageFile)
			if err != nil {
				return err
			}
			fmt.Printf("Story ID: %s\n", story.ID)
			return nil
		},
	}
	generateCmd.Flags().StringVar(&title, "title", "", "Story title (default is the deck title)")
	generateCmd.Flags().StringVar(&flags.Prompt, "prompt", "", "Extra instructions for the story")
	generateCmd.Flags().StringVar(&flags.ImageFile, "image", "", "Image file to inspire the story")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			proc.PrintStories(os.Stdout)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <story-id>",
		Short: "Print a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return proc.PrintStory(os.Stdout, args[0])
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <story-id>",
		Short: "Delete a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return proc.DeleteStory(args[0])
		},
	}

	storyCmd.AddCommand(generateCmd, listCmd, showCmd, deleteCmd)
	return storyCmd
}

func newStudyCommand(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "study <deck-id>",
		Short: "Run a flip-card study session over a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			_, err = proc.StudyDeck(args[0], os.Stdin, os.Stdout)
			return err
		},
	}
}

func newExportCommand(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export all decks, words and stories to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return proc.Export(args[0])
		},
	}
}

func newImportCommand(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the local content with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return proc.Import(args[0])
		},
	}
}

func newAnkiCommand(flags *cli.Flags) *cobra.Command {
	ankiCmd := &cobra.Command{
		Use:   "anki <deck-id>",
		Short: "Export a deck as an Anki package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			fmt.Println("Generating Anki import file...")
			outputPath, err := proc.GenerateAnkiFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Anki package created: %s\n", outputPath)
			return nil
		},
	}
	ankiCmd.Flags().BoolVar(&flags.AnkiCSV, "csv", false, "Generate legacy CSV format instead of APKG")
	ankiCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output directory (default is the home directory)")
	return ankiCmd
}

func newBackupCommand(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the local content store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := processor.NewProcessor(cmd.Context(), flags)
			if err != nil {
				return err
			}
			path, err := proc.Backup()
			if err != nil {
				return err
			}
			fmt.Printf("State archived to: %s\n", path)
			return nil
		},
	}
}
