package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
)

// DefaultExt is the subtitle suffix the translation service accepts
const DefaultExt = ".srt"

// ErrNotDirectory is returned when the discovery root is not a directory
var ErrNotDirectory = errors.New("not a directory")

// Files yields every regular file below root whose extension equals ext.
// Paths are root joined with the file's relative path. The first error ends
// the sequence.
func Files(root, ext string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		info, err := os.Stat(root)
		if err != nil {
			yield("", fmt.Errorf("discover: %w", err))
			return
		}
		if !info.IsDir() {
			yield("", fmt.Errorf("discover %s: %w", root, ErrNotDirectory))
			return
		}

		for rel, err := range FilesFS(os.DirFS(root), ext) {
			if err != nil {
				yield("", fmt.Errorf("discover %s: %w", root, err))
				return
			}
			if !yield(filepath.Join(root, filepath.FromSlash(rel)), nil) {
				return
			}
		}
	}
}

// FilesFS is Files over an fs.FS. Yielded paths are slash separated and
// relative to the root of fsys.
func FilesFS(fsys fs.FS, ext string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		info, err := fs.Stat(fsys, ".")
		if err != nil {
			yield("", err)
			return
		}
		if !info.IsDir() {
			yield("", ErrNotDirectory)
			return
		}
		walk(fsys, ".", ext, yield)
	}
}

// walk reports false once the consumer stopped or an error was yielded
func walk(fsys fs.FS, dir, ext string, yield func(string, error) bool) bool {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		yield("", err)
		return false
	}

	for _, entry := range entries {
		name := path.Join(dir, entry.Name())
		isDir := entry.IsDir()
		isFile := entry.Type().IsRegular()

		// Links are followed; a dangling link is neither file nor directory
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := fs.Stat(fsys, name)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				continue
			case err != nil:
				yield("", err)
				return false
			}
			isDir = info.IsDir()
			isFile = info.Mode().IsRegular()
		}

		switch {
		case isFile && matches(entry.Name(), ext):
			if !yield(name, nil) {
				return false
			}
		case isDir:
			if !walk(fsys, name, ext, yield) {
				return false
			}
		}
	}

	return true
}

// matches compares the suffix exactly. A bare dotfile such as ".srt" has no
// extension.
func matches(name, ext string) bool {
	return name != ext && path.Ext(name) == ext
}
