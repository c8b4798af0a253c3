package cv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Document is one CV file. Record is nil when the file failed to load.
type Document struct {
	// Name is the file's base name.
	Name string

	// Path is the full path the file was read from.
	Path string

	Record *Record
}

type loader struct {
	logger *slog.Logger
	ext    string
}

// LoadOption configures Load.
type LoadOption func(*loader)

// WithLogger sets the logger used to report skipped directory entries.
func WithLogger(logger *slog.Logger) LoadOption {
	return func(l *loader) {
		l.logger = logger
	}
}

// WithExtension changes which files are treated as CVs. The default is ".json".
func WithExtension(ext string) LoadOption {
	return func(l *loader) {
		l.ext = ext
	}
}

// Load lists dir and returns a sequence of its CV documents in file-name order.
//
// The listing happens immediately, so a missing directory is reported by
// Load itself. Each file is read, validated and parsed only when the sequence
// reaches it. A file that fails yields its Document (with a nil Record) and a
// *ParseError; iteration then continues with the next file unless the caller
// stops. Cancelling ctx ends the sequence with ctx.Err().
func Load(ctx context.Context, dir string, opts ...LoadOption) (iter.Seq2[Document, error], error) {
	l := &loader{
		logger: slog.Default(),
		ext:    ".json",
	}
	for _, opt := range opts {
		opt(l)
	}

	paths, err := l.list(dir)
	if err != nil {
		return nil, err
	}

	return func(yield func(Document, error) bool) {
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				yield(Document{}, err)
				return
			}

			doc := Document{Name: filepath.Base(path), Path: path}
			rec, err := readRecord(path)
			if err != nil {
				if !yield(doc, &ParseError{File: doc.Name, Err: err}) {
					return
				}
				continue
			}

			doc.Record = rec
			if !yield(doc, nil) {
				return
			}
		}
	}, nil
}

// list returns the CV file paths in dir. os.ReadDir sorts entries by name.
func (l *loader) list(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("failed to stat input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			l.logger.Debug("skipping non-regular entry", "name", e.Name())
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), l.ext) {
			l.logger.Debug("skipping file with unexpected extension", "name", e.Name())
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

func readRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec // reading the user's input directory is the purpose
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, ErrMalformedJSON
	}
	if err := ValidateShape(data); err != nil {
		return nil, err
	}
	return Parse(data)
}
