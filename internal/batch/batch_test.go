package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWordFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write word file: %v", err)
	}
	return path
}

func TestReadWordFile(t *testing.T) {
	path := writeWordFile(t, "ябълка\nкотка\n\nкуче\n")

	words, err := ReadWordFile(path)
	if err != nil {
		t.Fatalf("ReadWordFile failed: %v", err)
	}

	expected := []string{"ябълка", "котка", "куче"}
	if len(words) != len(expected) {
		t.Fatalf("Expected %d words, got %d: %v", len(expected), len(words), words)
	}
	for i, w := range expected {
		if words[i] != w {
			t.Errorf("words[%d] = %q, want %q", i, words[i], w)
		}
	}
}

func TestReadWordFile_CommentsAndWhitespace(t *testing.T) {
	path := writeWordFile(t, "# fruit\n  ябълка  \nкотка # the cat\n#\n")

	words, err := ReadWordFile(path)
	if err != nil {
		t.Fatalf("ReadWordFile failed: %v", err)
	}

	if len(words) != 2 || words[0] != "ябълка" || words[1] != "котка" {
		t.Errorf("Unexpected words: %v", words)
	}
}

func TestReadWordFile_TranslationHints(t *testing.T) {
	path := writeWordFile(t, "ябълка = apple\nкотка=cat # feline\nкуче\n")

	words, err := ReadWordFile(path)
	if err != nil {
		t.Fatalf("ReadWordFile failed: %v", err)
	}

	expected := []string{"ябълка", "котка", "куче"}
	if len(words) != len(expected) {
		t.Fatalf("Expected %d words, got %v", len(expected), words)
	}
	for i, w := range expected {
		if words[i] != w {
			t.Errorf("words[%d] = %q, want %q", i, words[i], w)
		}
	}
}

func TestReadWordFile_Missing(t *testing.T) {
	if _, err := ReadWordFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestReadWordFile_Empty(t *testing.T) {
	path := writeWordFile(t, "")

	words, err := ReadWordFile(path)
	if err != nil {
		t.Fatalf("ReadWordFile failed: %v", err)
	}
	if len(words) != 0 {
		t.Errorf("Expected no words, got %v", words)
	}
}

func TestParseWords(t *testing.T) {
	words := ParseWords("ябълка, котка,,\nкуче")
	if len(words) != 3 {
		t.Fatalf("Expected 3 words, got %v", words)
	}
	if words[0] != "ябълка" || words[1] != "котка" || words[2] != "куче" {
		t.Errorf("Unexpected words: %v", words)
	}
}

func TestParseWords_Empty(t *testing.T) {
	if words := ParseWords("  ,\n "); len(words) != 0 {
		t.Errorf("Expected no words, got %v", words)
	}
}
