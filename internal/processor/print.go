package processor

import (
	"fmt"
	"io"
	"strings"

	"codeberg.org/snonux/lexirecall/internal/card"
)

// PrintDecks writes a deck listing
func (p *Processor) PrintDecks(out io.Writer) {
	decks := p.store.Decks()
	if len(decks) == 0 {
		fmt.Fprintln(out, "No decks yet")
		return
	}

	for _, d := range decks {
		fmt.Fprintf(out, "%s  %s (%d words, %s)\n", d.ID, d.Title, len(d.WordIDs), d.TargetLang)
	}
}

// PrintDeck writes a single deck with its resolved cards
func (p *Processor) PrintDeck(out io.Writer, deckID string) error {
	deck, ok := p.store.DeckByID(deckID)
	if !ok {
		return fmt.Errorf("deck '%s' not found", deckID)
	}

	fmt.Fprintf(out, "%s (%s -> %s)\n", deck.Title, deck.TargetLang, deck.NativeLang)
	for _, c := range p.store.ResolveDeck(deck) {
		printWordLine(out, c)
	}
	return nil
}

// PrintWords writes a listing of all stored words
func (p *Processor) PrintWords(out io.Writer) {
	words := p.store.Words()
	if len(words) == 0 {
		fmt.Fprintln(out, "No words yet")
		return
	}

	for _, w := range words {
		printWordLine(out, w)
	}
}

// PrintStories writes a story listing
func (p *Processor) PrintStories(out io.Writer) {
	stories := p.store.Stories()
	if len(stories) == 0 {
		fmt.Fprintln(out, "No stories yet")
		return
	}

	for _, s := range stories {
		fmt.Fprintf(out, "%s  %s (%d words)\n", s.ID, s.Title, len(s.Words))
	}
}

// PrintStory writes a full story
func (p *Processor) PrintStory(out io.Writer, storyID string) error {
	for _, s := range p.store.Stories() {
		if s.ID == storyID {
			fmt.Fprintf(out, "%s\n\n%s\n\nWords: %s\n", s.Title, s.Content, strings.Join(s.Words, ", "))
			return nil
		}
	}
	return fmt.Errorf("story '%s' not found", storyID)
}

func printWordLine(out io.Writer, c card.WordCard) {
	translation := ""
	if len(c.Definitions) > 0 {
		translation = c.Definitions[0].Translation
	}

	marker := " "
	if c.Audio != "" {
		marker = "♪"
	}
	fmt.Fprintf(out, "%s  %s %s", c.ID, marker, c.Word)
	if translation != "" {
		fmt.Fprintf(out, " = %s", translation)
	}
	fmt.Fprintln(out)
}
