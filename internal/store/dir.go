package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	"github.com/vijay-prabhu/billsample/internal/bill"
)

// MetadataFile is the file read from each bill directory
const MetadataFile = "metadata.json"

// DirOptions configures a directory store
type DirOptions struct {
	Include []string // Glob patterns a bill directory name must match (any)
	Exclude []string // Glob patterns that drop a bill directory (any)
}

// DirStore reads bills laid out as <root>/<bill-id>/metadata.json
type DirStore struct {
	root    string
	include []glob.Glob
	exclude []glob.Glob
}

// NewDir creates a store rooted at the given bills directory
func NewDir(root string, opts DirOptions) (*DirStore, error) {
	include, err := compilePatterns(opts.Include)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	exclude, err := compilePatterns(opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}

	return &DirStore{
		root:    root,
		include: include,
		exclude: exclude,
	}, nil
}

// Name returns the store identifier
func (s *DirStore) Name() string {
	return "dir:" + s.root
}

// Root returns the bills directory
func (s *DirStore) Root() string {
	return s.root
}

// List returns bill directory names in lexical order
func (s *DirStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read bills directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !s.matches(entry.Name()) {
			continue
		}
		ids = append(ids, entry.Name())
	}

	// os.ReadDir already sorts, but keep the order explicit
	sort.Strings(ids)
	return ids, nil
}

// Get loads metadata.json for a bill directory
func (s *DirStore) Get(ctx context.Context, id string) (*bill.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, id)
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", id, err)
	}

	var r bill.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnparseable, id, err)
	}
	r.SourcePath = dir

	return &r, nil
}

// matches applies include and exclude patterns to a directory name
func (s *DirStore) matches(name string) bool {
	for _, g := range s.exclude {
		if g.Match(name) {
			return false
		}
	}

	if len(s.include) == 0 {
		return true
	}
	for _, g := range s.include {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}
