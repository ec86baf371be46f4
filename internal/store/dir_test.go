package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBill(t *testing.T, root, id, content string) {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0755))
	if content != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte(content), 0644))
	}
}

func TestDirStore_ListAndGet(t *testing.T) {
	root := t.TempDir()
	writeBill(t, root, "S-12", `{"identifier": "S 12", "title": "Senate Bill"}`)
	writeBill(t, root, "HR-1", `{
		"identifier": "HR 1",
		"title": "Lower Costs Act",
		"other_titles": [{"title": "Drug Price Act", "note": "short"}],
		"actions": [
			{"description": "Introduced in House", "date": "2025-01-03", "classification": ["introduction"]},
			{"description": "Became Public Law", "classification": ["became-law"]}
		],
		"sponsorships": [{"name": "A"}, {"name": "B"}, {"name": "C"}],
		"subjects": ["ignored"]
	}`)
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.txt"), []byte("not a bill"), 0644))

	s, err := NewDir(root, DirOptions{})
	require.NoError(t, err)

	ids, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"HR-1", "S-12"}, ids)

	r, err := s.Get(context.Background(), "HR-1")
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, "HR 1", r.Identifier)
	assert.Equal(t, "Lower Costs Act", r.Title)
	assert.Equal(t, []string{"Drug Price Act"}, r.OtherTitleStrings())
	assert.Len(t, r.Actions, 2)
	assert.True(t, r.Actions[1].HasClassification("became-law"))
	assert.Len(t, r.Sponsorships, 3)
	assert.Equal(t, filepath.Join(root, "HR-1"), r.SourcePath)
}

func TestDirStore_MissingMetadata(t *testing.T) {
	root := t.TempDir()
	writeBill(t, root, "HR-2", "")

	s, err := NewDir(root, DirOptions{})
	require.NoError(t, err)

	r, err := s.Get(context.Background(), "HR-2")
	assert.NoError(t, err)
	assert.Nil(t, r)
}

func TestDirStore_Unparseable(t *testing.T) {
	root := t.TempDir()
	writeBill(t, root, "HR-3", `{"identifier": "HR 3", "title": `)

	s, err := NewDir(root, DirOptions{})
	require.NoError(t, err)

	r, err := s.Get(context.Background(), "HR-3")
	assert.ErrorIs(t, err, ErrUnparseable)
	assert.Nil(t, r)
}

func TestDirStore_Patterns(t *testing.T) {
	root := t.TempDir()
	for _, id := range []string{"HR-1", "HR-2", "HJRES-4", "S-1", "SCONRES-9"} {
		writeBill(t, root, id, `{"identifier": "`+id+`"}`)
	}

	tests := []struct {
		name string
		opts DirOptions
		want []string
	}{
		{"no patterns", DirOptions{}, []string{"HJRES-4", "HR-1", "HR-2", "S-1", "SCONRES-9"}},
		{"include house", DirOptions{Include: []string{"H*"}}, []string{"HJRES-4", "HR-1", "HR-2"}},
		{"exclude resolutions", DirOptions{Exclude: []string{"*RES-*"}}, []string{"HR-1", "HR-2", "S-1"}},
		{"include and exclude", DirOptions{Include: []string{"HR-*", "S*"}, Exclude: []string{"HR-2"}}, []string{"HR-1", "S-1", "SCONRES-9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewDir(root, tt.opts)
			require.NoError(t, err)

			ids, err := s.List(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDirStore_InvalidPattern(t *testing.T) {
	_, err := NewDir(t.TempDir(), DirOptions{Include: []string{"[unterminated"}})
	assert.Error(t, err)
}

func TestDirStore_MissingRoot(t *testing.T) {
	s, err := NewDir(filepath.Join(t.TempDir(), "nope"), DirOptions{})
	require.NoError(t, err)

	_, err = s.List(context.Background())
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	s.Add("b", nil)
	s.Add("a", nil)
	s.Add("b", nil)

	ids, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids)

	r, err := s.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, r)
}
