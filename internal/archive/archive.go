package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupState copies the state directory into a timestamped snapshot
// under a sibling archive directory and returns the snapshot path. The
// live state stays in place.
func BackupState(stateDir string) (string, error) {
	if _, err := os.Stat(stateDir); os.IsNotExist(err) {
		return "", fmt.Errorf("state directory does not exist: %s", stateDir)
	}

	parentDir := filepath.Dir(stateDir)
	archiveDir := filepath.Join(parentDir, "archive")

	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("state-%s", timestamp))

	if _, err := os.Stat(archivePath); err == nil {
		// Same-second collision, disambiguate with microseconds
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("state-%s", timestamp))
	}

	if err := copyDir(stateDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive state directory: %w", err)
	}

	return archivePath, nil
}

func copyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		data, err := os.ReadFile(srcPath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dstPath, data, 0644); err != nil {
			return err
		}
	}

	return nil
}
