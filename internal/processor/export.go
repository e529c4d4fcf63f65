package processor

import (
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/snonux/lexirecall/internal"
	"codeberg.org/snonux/lexirecall/internal/anki"
	"codeberg.org/snonux/lexirecall/internal/archive"
)

// Export writes the complete content store to a JSON file
func (p *Processor) Export(path string) error {
	data, err := p.store.Export()
	if err != nil {
		return fmt.Errorf("failed to export content: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	fmt.Printf("Exported %d decks, %d words, %d stories to %s\n",
		len(p.store.Decks()), len(p.store.Words()), len(p.store.Stories()), path)
	return nil
}

// Import replaces the content store with the contents of a JSON export.
// Legacy exports with cards embedded in decks are upgraded on the way in.
func (p *Processor) Import(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	if err := p.store.Import(data); err != nil {
		return fmt.Errorf("failed to import content: %w", err)
	}

	fmt.Printf("Imported %d decks, %d words, %d stories\n",
		len(p.store.Decks()), len(p.store.Words()), len(p.store.Stories()))
	return nil
}

// GenerateAnkiFile exports a deck as an Anki package (or CSV with
// --csv) and returns the output path.
func (p *Processor) GenerateAnkiFile(deckID string) (string, error) {
	deck, ok := p.store.DeckByID(deckID)
	if !ok {
		return "", fmt.Errorf("deck '%s' not found", deckID)
	}

	cards := p.store.ResolveDeck(deck)
	if len(cards) == 0 {
		return "", fmt.Errorf("deck '%s' has no words to export", deck.Title)
	}

	gen := anki.NewGenerator(deck.Title)
	gen.AddWordCards(cards)

	outputDir := p.flags.Output
	if outputDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		outputDir = home
	}

	var outputPath string
	if p.flags.AnkiCSV {
		outputPath = filepath.Join(outputDir, fmt.Sprintf("%s.csv", internal.SanitizeFilename(deck.Title)))
		if err := gen.GenerateCSV(outputPath); err != nil {
			return "", fmt.Errorf("failed to generate CSV: %w", err)
		}
	} else {
		outputPath = filepath.Join(outputDir, fmt.Sprintf("%s.apkg", internal.SanitizeFilename(deck.Title)))
		if err := gen.GenerateAPKG(outputPath); err != nil {
			return "", fmt.Errorf("failed to generate APKG: %w", err)
		}
	}

	total, withAudio := gen.Stats()
	fmt.Printf("  Generated %d cards (%d with audio)\n", total, withAudio)

	return outputPath, nil
}

// Backup snapshots the state directory and returns the snapshot path
func (p *Processor) Backup() (string, error) {
	return archive.BackupState(p.flags.StateDir)
}
