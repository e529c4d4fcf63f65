package generator

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/snonux/lexirecall/internal"
	"codeberg.org/snonux/lexirecall/internal/card"
)

// GenerateStory writes a short story exercising the words of the given
// deck and appends it to the store. The word list is frozen into the
// story record so later deck edits do not change which words the story
// claims to cover.
func (g *Generator) GenerateStory(ctx context.Context, deckID, title, userPrompt string, image []byte) (card.Story, error) {
	deck, ok := g.store.DeckByID(deckID)
	if !ok {
		return card.Story{}, fmt.Errorf("deck '%s' not found", deckID)
	}
	if title == "" {
		title = deck.Title
	}

	cards := g.store.ResolveDeck(deck)
	if len(cards) == 0 {
		return card.Story{}, fmt.Errorf("deck '%s' has no words to build a story from", deck.Title)
	}

	words := make([]string, 0, len(cards))
	for _, c := range cards {
		words = append(words, c.Word)
	}

	if g.client == nil {
		return card.Story{}, ErrNoClient
	}

	g.progress("Generating story for deck '%s'...", deck.Title)
	content, err := g.client.GenerateStory(ctx, title, words, userPrompt, image, deck.TargetLang, deck.NativeLang)
	if err != nil {
		return card.Story{}, fmt.Errorf("failed to generate story: %w", err)
	}

	story := card.Story{
		ID:         internal.NewID(title),
		DeckID:     deck.ID,
		Title:      title,
		Content:    content,
		Words:      words,
		CreatedAt:  time.Now().UTC(),
		TargetLang: deck.TargetLang,
		NativeLang: deck.NativeLang,
	}

	stories := append(g.store.Stories(), story)
	if err := g.store.SaveStories(stories); err != nil {
		return card.Story{}, fmt.Errorf("failed to save story: %w", err)
	}
	return story, nil
}
