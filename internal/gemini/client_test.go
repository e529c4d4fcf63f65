package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/sony/gobreaker"
)

func TestNewClient_NoAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	if err == nil {
		t.Error("Expected error for missing API key")
	}
	if err.Error() != "Gemini API key is required" {
		t.Errorf("Expected 'Gemini API key is required' error, got: %v", err)
	}
}

func TestNewBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	breaker := newBreaker()
	failing := func() (interface{}, error) {
		return nil, fmt.Errorf("upstream unavailable")
	}

	for i := 0; i < 5; i++ {
		if _, err := breaker.Execute(failing); err == nil {
			t.Fatalf("Call %d should fail", i)
		}
	}

	if breaker.State() != gobreaker.StateOpen {
		t.Errorf("Expected open breaker after 5 consecutive failures, got %v", breaker.State())
	}
	if _, err := breaker.Execute(failing); err != gobreaker.ErrOpenState {
		t.Errorf("Expected fail-fast error from open breaker, got: %v", err)
	}
}

func TestPreprocessSpeechText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ябълка", "ябълка"},
		{"  ябълка!  ", "ябълка"},
		{"здравей, свят.", "здравей свят"},
		{"(скоба)", "скоба"},
	}

	for _, tt := range tests {
		got := preprocessSpeechText(tt.input)
		if got != tt.want {
			t.Errorf("preprocessSpeechText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFlashcardSchema_RequiresStructuralFields(t *testing.T) {
	schema := flashcardSchema()

	required := map[string]bool{}
	for _, field := range schema.Required {
		required[field] = true
	}

	for _, field := range []string{"phonetics", "partOfSpeech", "definitions", "collocations", "synonyms", "antonyms", "wordFamily", "mnemonics"} {
		if !required[field] {
			t.Errorf("Schema should require field '%s'", field)
		}
		if _, ok := schema.Properties[field]; !ok {
			t.Errorf("Schema should define field '%s'", field)
		}
	}

	if schema.Properties["definitions"].MinItems == nil || *schema.Properties["definitions"].MinItems != 1 {
		t.Error("Schema should require at least one definition")
	}
	if schema.Properties["mnemonics"].MinItems == nil || *schema.Properties["mnemonics"].MinItems != 2 {
		t.Error("Schema should require at least two mnemonics")
	}
}

func TestGenerateFlashcardData_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, apiKey)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	w, err := client.GenerateFlashcardData(ctx, "ябълка", "bg", "en")
	if err != nil {
		t.Fatalf("GenerateFlashcardData failed: %v", err)
	}

	if w.Word != "ябълка" {
		t.Errorf("Expected word 'ябълка', got '%s'", w.Word)
	}
	if len(w.Definitions) == 0 {
		t.Error("Expected at least one definition")
	}
	if w.Phonetics.IPA == "" {
		t.Error("Expected IPA transcription")
	}

	t.Logf("Flashcard for 'ябълка': %+v", w)
}

func TestGenerateStory_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, apiKey)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	story, err := client.GenerateStory(ctx, "На пазара", []string{"ябълка", "хляб"}, "", nil, "bg", "en")
	if err != nil {
		t.Fatalf("GenerateStory failed: %v", err)
	}

	if !strings.Contains(story, "**") {
		t.Error("Expected bold-marked words in story")
	}

	t.Logf("Story: %s", story)
}
