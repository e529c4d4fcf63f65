package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBackupState(t *testing.T) {
	tmpDir := t.TempDir()

	stateDir := filepath.Join(tmpDir, "lexirecall")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		t.Fatalf("Failed to create state directory: %v", err)
	}

	wordsFile := filepath.Join(stateDir, "words.json")
	if err := os.WriteFile(wordsFile, []byte(`[]`), 0644); err != nil {
		t.Fatalf("Failed to create state file: %v", err)
	}

	archivePath, err := BackupState(stateDir)
	if err != nil {
		t.Fatalf("BackupState failed: %v", err)
	}

	// The live state stays in place
	if _, err := os.Stat(wordsFile); err != nil {
		t.Error("State file should survive the backup")
	}

	if !strings.HasPrefix(filepath.Base(archivePath), "state-") {
		t.Errorf("Archive name doesn't start with 'state-': %s", archivePath)
	}

	backedUp := filepath.Join(archivePath, "words.json")
	data, err := os.ReadFile(backedUp)
	if err != nil {
		t.Fatalf("Backed-up file missing: %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("Backed-up content mismatch: %q", data)
	}
}

func TestBackupState_NonExistentDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := BackupState(filepath.Join(tmpDir, "nonexistent"))
	if err == nil {
		t.Fatal("Expected error for non-existent directory")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestBackupState_MultipleBackups(t *testing.T) {
	tmpDir := t.TempDir()

	stateDir := filepath.Join(tmpDir, "lexirecall")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		t.Fatalf("Failed to create state directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(stateDir, "decks.json"), []byte(`[]`), 0644); err != nil {
		t.Fatalf("Failed to create state file: %v", err)
	}

	first, err := BackupState(stateDir)
	if err != nil {
		t.Fatalf("First backup failed: %v", err)
	}
	second, err := BackupState(stateDir)
	if err != nil {
		t.Fatalf("Second backup failed: %v", err)
	}

	if first == second {
		t.Error("Backup paths are not unique")
	}
}
