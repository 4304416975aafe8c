package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"uxkit/archive"
	"uxkit/config"
	"uxkit/state"
)

// Source is input text with the name it is reported under.
type Source struct {
	Name string
	Data []byte
}

// enough for filetype matchers
const sniffLen = 262

// errBinary marks inputs recognized as known binary formats.
var errBinary = errors.New("binary content")

func sniff(head []byte) error {
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return nil
	}
	return fmt.Errorf("%w (%s)", errBinary, kind.MIME.Value)
}

func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

func readSource(r io.Reader, name string) (Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Source{}, fmt.Errorf("unable to read '%s': %w", name, err)
	}
	if err := sniff(data[:min(len(data), sniffLen)]); err != nil {
		return Source{}, fmt.Errorf("unable to use '%s': %w", name, err)
	}
	return Source{Name: name, Data: data}, nil
}

func hasExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	return slices.ContainsFunc(exts, func(e string) bool { return strings.EqualFold(e, ext) })
}

// collectSources resolves every argument and reads matching inputs. Argument
// may be a file, a directory or a path inside zip archive
// ("site.zip/styles/"). "-" reads standard input.
func collectSources(ctx context.Context, args, exts []string, log *zap.Logger) ([]Source, error) {
	env := state.EnvFromContext(ctx)

	var sources []Source
	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			found []Source
			err   error
		)
		if arg == "-" {
			var src Source
			if src, err = readSource(os.Stdin, "STDIN"); err == nil {
				found = []Source{src}
			}
		} else {
			found, err = resolve(ctx, arg, exts, log)
		}
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			log.Warn("Nothing to process", zap.String("source", arg), zap.Strings("extensions", exts))
		}
		for _, src := range found {
			env.Rpt.StoreData("sources/"+config.CleanFileName(src.Name), src.Data)
		}
		sources = append(sources, found...)
	}
	if len(sources) == 0 {
		return nil, errors.New("no input sources found")
	}
	return sources, nil
}

// resolve walks src up until an existing file system object is found, the
// rest of the path is treated as path inside archive.
func resolve(ctx context.Context, src string, exts []string, log *zap.Logger) ([]Source, error) {
	var head string
	for head = filepath.Clean(src); len(head) != 0; head, _ = filepath.Split(head) {
		head = strings.TrimSuffix(head, string(filepath.Separator))
		if len(head) == 0 {
			break
		}

		fi, err := os.Stat(head)
		if err != nil {
			// does not exist, probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if head != filepath.Clean(src) {
				return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			return readDir(ctx, head, exts, log)
		}
		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("unexpected path mode for (%s)", head)
		}

		zipped, err := isArchiveFile(head)
		if err != nil {
			return nil, fmt.Errorf("unable to check archive type: %w", err)
		}
		if zipped {
			inner := filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			return readArchive(ctx, head, inner, exts, log)
		}
		if head != filepath.Clean(src) {
			return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		f, err := os.Open(head)
		if err != nil {
			return nil, fmt.Errorf("unable to open source: %w", err)
		}
		defer f.Close()

		s, err := readSource(f, src)
		if err != nil {
			return nil, err
		}
		return []Source{s}, nil
	}
	return nil, fmt.Errorf("input source was not found (%s)", src)
}

func readDir(ctx context.Context, dir string, exts []string, log *zap.Logger) ([]Source, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() && hasExtension(path, exts) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Sort(natural.StringSlice(paths))

	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if err := sniff(data[:min(len(data), sniffLen)]); err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		sources = append(sources, Source{Name: path, Data: data})
	}
	return sources, nil
}

func readArchive(ctx context.Context, path, prefix string, exts []string, log *zap.Logger) ([]Source, error) {
	opts := archive.Options{Extensions: exts, NameEncoding: state.EnvFromContext(ctx).NameEncoding}

	var sources []Source
	err := archive.Walk(ctx, path, prefix, opts, func(e archive.Entry) error {
		r, err := e.Open()
		if err != nil {
			log.Warn("Skipping file in archive", zap.String("archive", e.Archive), zap.String("file", e.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		s, err := readSource(r, e.Path())
		if err != nil {
			log.Warn("Skipping file in archive", zap.String("archive", e.Archive), zap.String("file", e.Name), zap.Error(err))
			return nil
		}
		sources = append(sources, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to process archive: %w", err)
	}
	return sources, nil
}
