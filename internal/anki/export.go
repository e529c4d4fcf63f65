package anki

import (
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/lexirecall/internal"
	"codeberg.org/snonux/lexirecall/internal/audio"
	"codeberg.org/snonux/lexirecall/internal/card"
)

// Card is one flashcard prepared for Anki import
type Card struct {
	Word        string // word in the study language
	Translation string
	Phonetic    string
	Example     string
	Notes       string // mnemonic or free-form notes
	Audio       []byte // playable WAV, optional
	AudioName   string // media filename, set when Audio is present
}

// FromWordCard flattens a stored word record into an exportable card.
// Base64 PCM audio is decoded and framed as WAV; undecodable audio is
// dropped with a warning since it only costs pronunciation playback.
func FromWordCard(c card.WordCard) Card {
	out := Card{
		Word:     c.Word,
		Phonetic: c.Phonetics.IPA,
	}

	if len(c.Definitions) > 0 {
		out.Translation = c.Definitions[0].Translation
		out.Example = c.Definitions[0].Example
	}
	if len(c.Mnemonics) > 0 {
		out.Notes = c.Mnemonics[0].Text
	}

	if c.Audio != "" {
		pcm, err := base64.StdEncoding.DecodeString(c.Audio)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: invalid audio for '%s', skipping: %v\n", c.Word, err)
		} else {
			out.Audio = audio.WrapPCM(pcm)
			out.AudioName = fmt.Sprintf("%s_%s.wav", internal.SanitizeFilename(c.Word), c.ID)
		}
	}

	return out
}

// Generator collects cards and writes Anki import files
type Generator struct {
	deckName string
	cards    []Card
}

// NewGenerator creates an export generator for the named deck
func NewGenerator(deckName string) *Generator {
	return &Generator{deckName: deckName}
}

// AddCard adds a card to the export set
func (g *Generator) AddCard(c Card) {
	g.cards = append(g.cards, c)
}

// AddWordCards converts and adds stored word records
func (g *Generator) AddWordCards(words []card.WordCard) {
	for _, w := range words {
		g.AddCard(FromWordCard(w))
	}
}

// Cards returns the collected export set
func (g *Generator) Cards() []Card {
	return g.cards
}

// GenerateCSV writes a CSV import file next to a media directory holding
// the audio files the CSV references.
func (g *Generator) GenerateCSV(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"Word", "Phonetic", "Translation", "Example", "Audio", "Notes"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, c := range g.cards {
		record := []string{
			c.Word,
			c.Phonetic,
			c.Translation,
			c.Example,
			formatAudioField(c.AudioName),
			c.Notes,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	if err := g.WriteMedia(mediaDirFor(outputPath)); err != nil {
		return err
	}
	return nil
}

// WriteMedia writes the audio files the export references into dir
func (g *Generator) WriteMedia(dir string) error {
	for _, c := range g.cards {
		if len(c.Audio) == 0 {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create media directory: %w", err)
		}
		path := filepath.Join(dir, c.AudioName)
		if err := os.WriteFile(path, c.Audio, 0644); err != nil {
			return fmt.Errorf("failed to write audio file: %w", err)
		}
	}
	return nil
}

// GenerateAPKG writes a complete .apkg package including media
func (g *Generator) GenerateAPKG(outputPath string) error {
	apkg := NewAPKGGenerator(g.deckName)
	for _, c := range g.cards {
		apkg.AddCard(c)
	}
	return apkg.GenerateAPKG(outputPath)
}

// Stats returns the size of the export set and how many cards carry audio
func (g *Generator) Stats() (totalCards, withAudio int) {
	totalCards = len(g.cards)
	for _, c := range g.cards {
		if len(c.Audio) > 0 {
			withAudio++
		}
	}
	return
}

// formatAudioField formats the audio reference the way Anki expects
func formatAudioField(audioName string) string {
	if audioName == "" {
		return ""
	}
	return fmt.Sprintf("[sound:%s]", audioName)
}

// mediaDirFor places the media directory next to the CSV file
func mediaDirFor(csvPath string) string {
	base := strings.TrimSuffix(filepath.Base(csvPath), filepath.Ext(csvPath))
	return filepath.Join(filepath.Dir(csvPath), base+".media")
}
