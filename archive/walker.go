// Package archive walks source files stored in zip archives.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/maruel/natural"
	"golang.org/x/text/encoding"
)

// Entry is a file inside archive.
type Entry struct {
	Archive string
	// Name is entry name, decoded when archive does not mark names as UTF-8.
	Name string
	File *zip.File
}

// Path returns name suitable for reports: archive path joined with entry name.
func (e Entry) Path() string {
	return e.Archive + "/" + e.Name
}

func (e Entry) Open() (io.ReadCloser, error) {
	return e.File.Open()
}

// WalkFunc is called for every matching entry, returning an error stops the
// walk.
type WalkFunc func(e Entry) error

type Options struct {
	// Extensions limit entries by name suffix (case insensitive), empty
	// means everything.
	Extensions []string
	// NameEncoding is used for entries without UTF-8 flag, nil leaves names
	// as is.
	NameEncoding encoding.Encoding
}

func (o Options) matches(name string) bool {
	if len(o.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(path.Ext(name))
	return slices.ContainsFunc(o.Extensions, func(e string) bool { return strings.EqualFold(e, ext) })
}

// Walk visits regular files with names starting with prefix in natural name
// order. Archive with absolute entry names or names containing ".." is
// rejected before anything is visited.
func Walk(ctx context.Context, archive, prefix string, opts Options, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		name := f.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.NonUTF8 && opts.NameEncoding != nil {
			if n, err := opts.NameEncoding.NewDecoder().String(name); err == nil {
				name = n
			}
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) || !opts.matches(name) {
			continue
		}
		entries = append(entries, Entry{Archive: archive, Name: name, File: f})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		}
		return 0
	})

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := walkFn(e); err != nil {
			return err
		}
	}
	return nil
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	return !slices.Contains(strings.Split(strings.ReplaceAll(name, `\`, "/"), "/"), "..")
}
