// Package materialize writes a selected sample to disk as a new dataset
package materialize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vijay-prabhu/billsample/internal/bill"
	"github.com/vijay-prabhu/billsample/internal/progress"
)

// Skipped is a selected bill that could not be copied
type Skipped struct {
	Identifier string `json:"identifier"`
	Source     string `json:"source"`
	Reason     string `json:"reason"`
}

// Result summarizes a copy pass
type Result struct {
	Dest    string    `json:"dest"`
	Copied  int       `json:"copied"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// Copier copies bill directories into a destination dataset
type Copier struct {
	logger *slog.Logger
}

// NewCopier creates a Copier. A nil logger uses slog.Default().
func NewCopier(logger *slog.Logger) *Copier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Copier{logger: logger}
}

// CopyAll copies every selected bill's source tree into
// dest/<base name of the source>. Existing files are overwritten so the
// pass can be repeated. Bills whose source is missing are skipped.
func (c *Copier) CopyAll(ctx context.Context, selection []*bill.Analyzed, dest string, cb progress.Callback) (*Result, error) {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination: %w", err)
	}

	result := &Result{Dest: dest}
	total := len(selection)
	cb.Report(progress.PhaseCopying, 0, total, "Copying bills")

	for i, b := range selection {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		src := b.Record.SourcePath
		if src == "" {
			result.Skipped = append(result.Skipped, Skipped{Identifier: b.Identifier(), Reason: "no source path"})
			continue
		}

		target := filepath.Join(dest, filepath.Base(src))
		if err := copyTree(src, target); err != nil {
			reason := err.Error()
			if errors.Is(err, fs.ErrNotExist) {
				reason = "source not found"
			}
			c.logger.Warn("skipping bill copy", "identifier", b.Identifier(), "source", src, "error", err)
			result.Skipped = append(result.Skipped, Skipped{Identifier: b.Identifier(), Source: src, Reason: reason})
			continue
		}
		result.Copied++
		cb.Report(progress.PhaseCopying, i+1, total, b.Identifier())
	}

	cb.Report(progress.PhaseCopying, total, total, "Copying bills")
	c.logger.Info("copy complete", "dest", dest, "copied", result.Copied, "skipped", len(result.Skipped))
	return result, nil
}

// copyTree merges the src directory into dst, overwriting files that
// already exist.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, fi.Mode())
	})
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
