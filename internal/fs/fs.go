package fs

import (
	"errors"
	iofs "io/fs"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

type EntryKind uint8

const (
	DirEntry  EntryKind = 1
	FileEntry EntryKind = 2
)

type Entry struct {
	Kind EntryKind
}

type FS interface {
	ReadDirectory(path string) (map[string]Entry, error)
	ReadFile(path string) (string, error)
	WriteFile(path string, contents []byte) error
	IsDir(path string) bool

	// This is part of the interface because the mock interface used for tests
	// should not depend on file system behavior (i.e. different slashes for
	// Windows) while the real interface should.
	Abs(path string) (string, bool)
	Dir(path string) string
	Base(path string) string
	Ext(path string) string
	Join(parts ...string) string
	Cwd() string
	Rel(base string, target string) (string, bool)
}

// Path functions differ between the real file system and the mock one
type pathOps struct {
	abs  func(string) (string, error)
	dir  func(string) string
	base func(string) string
	ext  func(string) string
	join func(...string) string
	rel  func(string, string) (string, error)
	sep  string
}

type aferoFS struct {
	fs  afero.Fs
	ops pathOps
	cwd string
}

func (fs *aferoFS) ReadDirectory(path string) (map[string]Entry, error) {
	infos, err := afero.ReadDir(fs.fs, path)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]Entry, len(infos))
	for _, info := range infos {
		kind := FileEntry
		if info.IsDir() {
			kind = DirEntry
		}
		entries[info.Name()] = Entry{Kind: kind}
	}
	return entries, nil
}

func (fs *aferoFS) ReadFile(path string) (string, error) {
	if fs.IsDir(path) {
		return "", &iofs.PathError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}
	buffer, err := afero.ReadFile(fs.fs, path)
	return string(buffer), err
}

// WriteFile creates any missing parent directories first
func (fs *aferoFS) WriteFile(path string, contents []byte) error {
	if err := fs.fs.MkdirAll(fs.ops.dir(path), 0755); err != nil {
		return err
	}
	return afero.WriteFile(fs.fs, path, contents, 0644)
}

func (fs *aferoFS) IsDir(path string) bool {
	isDir, err := afero.IsDir(fs.fs, path)
	return err == nil && isDir
}

func (fs *aferoFS) Abs(path string) (string, bool) {
	abs, err := fs.ops.abs(path)
	return abs, err == nil
}

func (fs *aferoFS) Dir(path string) string {
	return fs.ops.dir(path)
}

func (fs *aferoFS) Base(path string) string {
	return fs.ops.base(path)
}

func (fs *aferoFS) Ext(path string) string {
	return fs.ops.ext(path)
}

func (fs *aferoFS) Join(parts ...string) string {
	return fs.ops.join(parts...)
}

func (fs *aferoFS) Cwd() string {
	return fs.cwd
}

func (fs *aferoFS) Rel(base string, target string) (string, bool) {
	rel, err := fs.ops.rel(base, target)
	if err != nil || strings.HasPrefix(rel, ".."+fs.ops.sep) || rel == ".." {
		return "", false
	}
	return rel, true
}

// CollectFiles expands the given paths into a list of files. Files are kept
// in the order given. Directories are walked recursively and contribute the
// files whose extension is in "extensions", in lexical order.
func CollectFiles(fs FS, paths []string, extensions []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := fs.ReadDirectory(dir)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			path := fs.Join(dir, name)
			switch entries[name].Kind {
			case DirEntry:
				if name == "node_modules" || strings.HasPrefix(name, ".") {
					continue
				}
				if err := walk(path); err != nil {
					return err
				}
			case FileEntry:
				if hasExtension(fs.Ext(name), extensions) && !seen[path] {
					seen[path] = true
					files = append(files, path)
				}
			}
		}
		return nil
	}

	for _, path := range paths {
		if fs.IsDir(path) {
			if err := walk(path); err != nil {
				return nil, err
			}
			continue
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	return files, nil
}

func hasExtension(ext string, extensions []string) bool {
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Afero exposes the underlying afero file system so libraries that accept
// one (such as viper) read from the same place as everything else
func Afero(fs FS) afero.Fs {
	if fs, ok := fs.(*aferoFS); ok {
		return fs.fs
	}
	return afero.NewOsFs()
}
