package discover

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/subtrans/internal/testutil"
)

// countingFS records directory reads and can fail chosen directories
type countingFS struct {
	fstest.MapFS
	reads []string
	deny  map[string]bool
}

func (c *countingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	c.reads = append(c.reads, name)
	if c.deny[name] {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrPermission}
	}
	return c.MapFS.ReadDir(name)
}

func collect(t *testing.T, root, ext string) []string {
	t.Helper()

	var got []string
	for p, err := range Files(root, ext) {
		require.NoError(t, err)
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
	}
	sort.Strings(got)
	return got
}

func TestFilesMixedTree(t *testing.T) {
	root := t.TempDir()
	testutil.CreateTestFile(t, filepath.Join(root, "a.srt"), []byte("1"))
	testutil.CreateTestFile(t, filepath.Join(root, "b.txt"), []byte("2"))
	testutil.CreateTestFile(t, filepath.Join(root, "sub", "c.srt"), []byte("3"))

	assert.Equal(t, []string{"a.srt", "sub/c.srt"}, collect(t, root, ".srt"))
}

func TestFilesDeepNesting(t *testing.T) {
	root := t.TempDir()
	want := []string{
		"x.srt",
		"one/y.srt",
		"one/two/three/four/z.srt",
		"other/w.srt",
	}
	for _, rel := range want {
		testutil.CreateTestFile(t, filepath.Join(root, filepath.FromSlash(rel)), []byte("x"))
	}
	testutil.CreateTestFile(t, filepath.Join(root, "one", "two", "notes.ass"), []byte("x"))
	// A directory carrying the suffix is traversed, not yielded
	require.NoError(t, os.MkdirAll(filepath.Join(root, "season.srt", "inner"), 0755))
	testutil.CreateTestFile(t, filepath.Join(root, "season.srt", "inner", "e01.srt"), []byte("x"))
	want = append(want, "season.srt/inner/e01.srt")

	sort.Strings(want)
	assert.Equal(t, want, collect(t, root, ".srt"))
}

func TestFilesEmptyAndNonMatching(t *testing.T) {
	tests := []struct {
		name  string
		files []string
	}{
		{"empty directory", nil},
		{"only other extensions", []string{"a.txt", "b.ass", "sub/c.vtt", "d.SRT", ".srt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for _, rel := range tt.files {
				testutil.CreateTestFile(t, filepath.Join(root, filepath.FromSlash(rel)), []byte("x"))
			}
			assert.Empty(t, collect(t, root, ".srt"))
		})
	}
}

func TestFilesRescanIsStable(t *testing.T) {
	root := t.TempDir()
	testutil.CreateTestFile(t, filepath.Join(root, "a.srt"), []byte("1"))
	testutil.CreateTestFile(t, filepath.Join(root, "d", "b.srt"), []byte("2"))

	first := collect(t, root, ".srt")
	second := collect(t, root, ".srt")
	assert.Equal(t, first, second)
	testutil.AssertFileContent(t, filepath.Join(root, "a.srt"), []byte("1"))
}

func TestFilesRootErrors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.srt")
	testutil.CreateTestFile(t, file, []byte("x"))

	t.Run("missing root", func(t *testing.T) {
		var errs []error
		for _, err := range Files(filepath.Join(root, "nope"), ".srt") {
			errs = append(errs, err)
		}
		require.Len(t, errs, 1)
		assert.True(t, errors.Is(errs[0], fs.ErrNotExist))
	})

	t.Run("root is a file", func(t *testing.T) {
		var errs []error
		for _, err := range Files(file, ".srt") {
			errs = append(errs, err)
		}
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], ErrNotDirectory)
	})
}

func TestFilesFollowsDirectoryLinks(t *testing.T) {
	root := t.TempDir()
	target := t.TempDir()
	testutil.CreateTestFile(t, filepath.Join(target, "linked.srt"), []byte("x"))
	if err := os.Symlink(target, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling.srt")))

	assert.Equal(t, []string{"link/linked.srt"}, collect(t, root, ".srt"))
}

func TestFilesFSIsLazy(t *testing.T) {
	fsys := &countingFS{MapFS: fstest.MapFS{
		"a.srt":             {Data: []byte("1")},
		"sub/b.srt":         {Data: []byte("2")},
		"sub/deeper/c.srt":  {Data: []byte("3")},
		"zzz/more/d.srt":    {Data: []byte("4")},
		"zzz/more/e.srt":    {Data: []byte("5")},
		"zzz/more/f.ignore": {Data: []byte("6")},
	}}

	var first string
	for p, err := range FilesFS(fsys, ".srt") {
		require.NoError(t, err)
		first = p
		break
	}

	assert.Equal(t, "a.srt", first)
	assert.Equal(t, []string{"."}, fsys.reads, "only the root listing should be read before the first match")
}

func TestFilesFSPropagatesReadErrors(t *testing.T) {
	fsys := &countingFS{
		MapFS: fstest.MapFS{
			"a.srt":          {Data: []byte("1")},
			"locked/b.srt":   {Data: []byte("2")},
			"unlocked/c.srt": {Data: []byte("3")},
		},
		deny: map[string]bool{"locked": true},
	}

	var got []string
	var gotErr error
	for p, err := range FilesFS(fsys, ".srt") {
		if err != nil {
			gotErr = err
			continue
		}
		got = append(got, p)
	}

	assert.Equal(t, []string{"a.srt"}, got)
	assert.ErrorIs(t, gotErr, fs.ErrPermission)
	assert.NotContains(t, fsys.reads, "unlocked", "traversal must stop at the first error")
}
