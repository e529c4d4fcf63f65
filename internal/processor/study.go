package processor

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// StudyResult summarizes a finished study session
type StudyResult struct {
	Cards  int // distinct cards studied
	Passes int // total reveals including repeats
	Missed int // cards answered wrong at least once
}

// StudyDeck runs a flip-card session over a deck. Each card shows the
// translation first; after revealing the word the learner answers y/n,
// and missed cards are queued again until they pass.
func (p *Processor) StudyDeck(deckID string, in io.Reader, out io.Writer) (StudyResult, error) {
	deck, ok := p.store.DeckByID(deckID)
	if !ok {
		return StudyResult{}, fmt.Errorf("deck '%s' not found", deckID)
	}

	queue := p.store.ResolveDeck(deck)
	if len(queue) == 0 {
		return StudyResult{}, fmt.Errorf("deck '%s' has no words to study", deck.Title)
	}

	result := StudyResult{Cards: len(queue)}
	missed := make(map[string]bool)
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "Studying '%s' (%d cards)\n", deck.Title, len(queue))

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		result.Passes++

		front := c.Word
		if len(c.Definitions) > 0 && c.Definitions[0].Translation != "" {
			front = c.Definitions[0].Translation
		}

		fmt.Fprintf(out, "\n  %s\n", front)
		fmt.Fprintf(out, "  [press enter to flip]")
		if _, err := reader.ReadString('\n'); err != nil {
			return result, fmt.Errorf("study session aborted: %w", err)
		}

		fmt.Fprintf(out, "  %s", c.Word)
		if c.Phonetics.IPA != "" {
			fmt.Fprintf(out, "  %s", c.Phonetics.IPA)
		}
		fmt.Fprintln(out)
		if len(c.Definitions) > 0 && c.Definitions[0].Example != "" {
			fmt.Fprintf(out, "  %s\n", c.Definitions[0].Example)
		}

		fmt.Fprintf(out, "  Did you know it? [y/n] ")
		answer, err := reader.ReadString('\n')
		if err != nil {
			return result, fmt.Errorf("study session aborted: %w", err)
		}

		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
			continue
		}

		// Wrong answer, the card comes back at the end of the queue
		if !missed[c.ID] {
			missed[c.ID] = true
			result.Missed++
		}
		queue = append(queue, c)
	}

	fmt.Fprintf(out, "\nDone! %d cards, %d reveals, %d missed\n", result.Cards, result.Passes, result.Missed)
	return result, nil
}
