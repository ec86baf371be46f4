package materialize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// PrepareSource sets up the in-place workflow: the full dataset in
// billsDir is moved to backupDir so the sample can be written back to
// billsDir. When backupDir already exists it is the source of truth and
// nothing is moved, which makes an interrupted run resumable.
//
// It returns the directory the corpus should be read from and whether a
// move happened.
func PrepareSource(billsDir, backupDir string) (string, bool, error) {
	if filepath.Clean(billsDir) == filepath.Clean(backupDir) {
		return "", false, fmt.Errorf("backup dir must differ from bills dir: %s", billsDir)
	}

	if info, err := os.Stat(backupDir); err == nil {
		if !info.IsDir() {
			return "", false, fmt.Errorf("backup path is not a directory: %s", backupDir)
		}
		return backupDir, false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", false, fmt.Errorf("failed to stat backup dir: %w", err)
	}

	info, err := os.Stat(billsDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to stat bills dir: %w", err)
	}
	if !info.IsDir() {
		return "", false, fmt.Errorf("bills path is not a directory: %s", billsDir)
	}

	if err := os.MkdirAll(filepath.Dir(backupDir), 0755); err != nil {
		return "", false, fmt.Errorf("failed to create backup parent: %w", err)
	}
	if err := os.Rename(billsDir, backupDir); err != nil {
		return "", false, fmt.Errorf("failed to move bills to backup: %w", err)
	}
	if err := os.MkdirAll(billsDir, 0755); err != nil {
		return "", false, fmt.Errorf("failed to recreate bills dir: %w", err)
	}
	return backupDir, true, nil
}
