package bookmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_Path(t *testing.T) {
	loc := NewLocation("/work/rusty-boy", RustDocsName)
	assert.Equal(t, filepath.Join("/work/rusty-boy", ".rust_docs_bookmark"), loc.Path())
	assert.Equal(t, loc.Path(), loc.String())

	// Different kinds of bookmark in the same root never share a file.
	assert.NotEqual(t, loc.Path(), NewLocation("/work/rusty-boy", GBCTRName).Path())
}

func TestLoad_NoFile(t *testing.T) {
	s := NewStore()

	value, ok := s.Load(NewLocation(t.TempDir(), RustDocsName))
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"rust book chapter", "book/ch04-00-understanding-ownership.html", "book/ch04-00-understanding-ownership.html"},
		{"page number", "42", "42"},
		{"full url", "file:///home/me/.rustup/share/doc/rust/html/std/index.html", "file:///home/me/.rustup/share/doc/rust/html/std/index.html"},
		{"surrounding whitespace is trimmed", "  std/vec/struct.Vec.html\n", "std/vec/struct.Vec.html"},
		{"inner spaces survive", "page with spaces", "page with spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			loc := NewLocation(t.TempDir(), RustDocsName)

			require.NoError(t, s.Save(loc, tt.value))

			got, ok := s.Load(loc)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestSave_WritesExactValue checks that Save stores the value byte for byte;
// trimming only happens on Load.
func TestSave_WritesExactValue(t *testing.T) {
	s := NewStore()
	loc := NewLocation(t.TempDir(), GBCTRName)

	require.NoError(t, s.Save(loc, " 17\n"))

	raw, err := os.ReadFile(loc.Path())
	require.NoError(t, err)
	assert.Equal(t, " 17\n", string(raw))
}

func TestSave_Overwrites(t *testing.T) {
	s := NewStore()
	loc := NewLocation(t.TempDir(), RustDocsName)

	require.NoError(t, s.Save(loc, "book/ch01-00-getting-started.html"))
	require.NoError(t, s.Save(loc, "std/"))

	got, ok := s.Load(loc)
	require.True(t, ok)
	assert.Equal(t, "std/", got, "a save replaces the previous value entirely")
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	s := NewStore()

	require.NoError(t, s.Save(NewLocation(root, DMG01Name), "chapter_1/index.html"))
	require.NoError(t, s.Save(NewLocation(root, DMG01Name), "chapter_2/index.html"))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DMG01Name, entries[0].Name())
}

func TestLoad_WhitespaceOnly(t *testing.T) {
	s := NewStore()
	loc := NewLocation(t.TempDir(), RustDocsName)

	require.NoError(t, s.Save(loc, "   "))

	value, ok := s.Load(loc)
	assert.False(t, ok, "a blank bookmark counts as no bookmark")
	assert.Empty(t, value)
}

func TestLoad_IsPure(t *testing.T) {
	s := NewStore()
	loc := NewLocation(t.TempDir(), PandocsName)

	_, ok := s.Load(loc)
	require.False(t, ok)

	_, err := os.Stat(loc.Path())
	assert.True(t, os.IsNotExist(err), "Load must not create the backing file")
}

func TestSave_MissingRoot(t *testing.T) {
	s := NewStore()
	loc := NewLocation(filepath.Join(t.TempDir(), "does-not-exist"), RustDocsName)

	err := s.Save(loc, "std/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save bookmark")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		ok     bool
		want   int
		wantOK bool
	}{
		{"number", "42", true, 42, true},
		{"absent", "", false, 0, false},
		{"not a number", "not-a-number", true, 0, false},
		{"zero", "0", true, 0, false},
		{"negative", "-3", true, 0, false},
		{"decimal", "4.5", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, ok := ParsePage(tt.value, tt.ok)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, page)
		})
	}
}

// TestParsePage_FromStore runs the numeric bookmark through the store, the
// way the GB-CTR launcher uses it.
func TestParsePage_FromStore(t *testing.T) {
	s := NewStore()
	loc := NewLocation(t.TempDir(), GBCTRName)

	require.NoError(t, s.Save(loc, "42"))
	page, ok := ParsePage(s.Load(loc))
	require.True(t, ok)
	assert.Equal(t, 42, page)

	require.NoError(t, s.Save(loc, "not-a-number"))
	_, ok = ParsePage(s.Load(loc))
	assert.False(t, ok)
}
