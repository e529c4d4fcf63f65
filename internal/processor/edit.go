package processor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"codeberg.org/snonux/lexirecall/internal/card"
)

// EditDeck runs an interactive editing session for a deck. Edits are
// collected into a recoverable draft and only applied on "save"; an
// interrupted session (or "quit") leaves the draft behind so the next
// session on the same deck picks up where it left off.
func (p *Processor) EditDeck(ctx context.Context, deckID string, in io.Reader, out io.Writer) error {
	deck, ok := p.store.DeckByID(deckID)
	if !ok {
		return fmt.Errorf("deck '%s' not found", deckID)
	}

	slot := p.deckDraftSlot()
	identity := []string{deck.ID}

	state := deckDraftState{Title: deck.Title}
	if recovered, ok := slot.Load(identity); ok {
		state = recovered
		fmt.Fprintf(out, "Recovered unsaved edits for '%s'\n", deck.Title)
	}

	fmt.Fprintf(out, "Editing deck '%s' (%d words)\n", deck.Title, len(deck.WordIDs))
	fmt.Fprintln(out, "Commands: title <text>, add <words...>, remove <word-id>, show, save, quit")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "edit> ")
		if !scanner.Scan() {
			// Input gone; keep the draft for the next session.
			slot.Flush()
			return scanner.Err()
		}

		cmd, arg := splitCommand(scanner.Text())
		switch cmd {
		case "":
			continue
		case "title":
			if arg == "" {
				fmt.Fprintln(out, "Usage: title <text>")
				continue
			}
			state.Title = arg
			slot.Save(identity, state)
		case "add":
			if arg == "" {
				fmt.Fprintln(out, "Usage: add <words...>")
				continue
			}
			state.AddWords = append(state.AddWords, strings.Fields(arg)...)
			slot.Save(identity, state)
		case "remove":
			if arg == "" {
				fmt.Fprintln(out, "Usage: remove <word-id>")
				continue
			}
			state.RemoveIDs = append(state.RemoveIDs, arg)
			slot.Save(identity, state)
		case "show":
			printEditState(out, deck, state)
		case "save":
			if err := p.applyDeckEdit(ctx, deck, state); err != nil {
				return err
			}
			slot.Clear()
			fmt.Fprintf(out, "Saved deck '%s'\n", state.Title)
			return nil
		case "quit", "q":
			slot.Flush()
			fmt.Fprintln(out, "Edits kept as draft")
			return nil
		default:
			fmt.Fprintf(out, "Unknown command '%s'\n", cmd)
		}
	}
}

// applyDeckEdit applies the collected draft state to the deck in one go:
// rename, generate and attach new words, drop removed memberships.
func (p *Processor) applyDeckEdit(ctx context.Context, deck card.Deck, state deckDraftState) error {
	if state.Title != "" {
		deck.Title = state.Title
	}

	if len(state.AddWords) > 0 {
		cards, err := p.gen.Generate(ctx, state.AddWords, deck.TargetLang, deck.NativeLang)
		if err != nil {
			return err
		}
		if err := p.store.UpsertWords(cards); err != nil {
			return fmt.Errorf("failed to save words: %w", err)
		}
		deck.WordIDs = append(deck.WordIDs, wordIDs(cards)...)
	}

	if len(state.RemoveIDs) > 0 {
		drop := make(map[string]bool, len(state.RemoveIDs))
		for _, id := range state.RemoveIDs {
			drop[id] = true
		}
		kept := make([]string, 0, len(deck.WordIDs))
		for _, id := range deck.WordIDs {
			if !drop[id] {
				kept = append(kept, id)
			}
		}
		deck.WordIDs = kept
	}

	return p.saveDeck(card.MigrateDeck(deck))
}

func printEditState(out io.Writer, deck card.Deck, state deckDraftState) {
	fmt.Fprintf(out, "Title: %s\n", state.Title)
	fmt.Fprintf(out, "Current words: %d\n", len(deck.WordIDs))
	if len(state.AddWords) > 0 {
		fmt.Fprintf(out, "To add: %s\n", strings.Join(state.AddWords, ", "))
	}
	if len(state.RemoveIDs) > 0 {
		fmt.Fprintf(out, "To remove: %s\n", strings.Join(state.RemoveIDs, ", "))
	}
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(line, " ")
	return cmd, strings.TrimSpace(arg)
}
