package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// stdinSource names standard input in a source list.
const stdinSource = "-"

// SourceFiles reads the concatenation of all source files, each followed by
// a newline so declarations in adjacent files stay apart, with stdin last.
type SourceFiles interface {
	IsZero() bool
	Stdin() io.Reader
	io.Reader
	io.WriterTo
	io.Closer
}

type sourceFilesKey struct{}

// WithSourceFiles returns ctx carrying the [SourceFiles] for sources. Every
// named file is opened now, so a missing one fails here. A file named more
// than once, through any mix of relative paths, absolute paths and symlinks,
// is read once. Any number of "-" entries, or a path that is stdin itself,
// reads stdin once after all files.
func WithSourceFiles(ctx context.Context, sources []string) (context.Context, error) {
	srcs, err := openSources(sources)
	if err != nil {
		return ctx, err
	}

	return context.WithValue(ctx, sourceFilesKey{}, srcs), nil
}

func sourceFilesFrom(ctx context.Context) SourceFiles {
	srcs, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return srcs
}

// sourceSet is the [SourceFiles] implementation.
type sourceSet struct {
	files []*os.File
	seen  []os.FileInfo
	stdin os.FileInfo // nil when stdin cannot be identified
	read  bool        // stdin is a source
	r     io.Reader   // built on first read
}

// openSources returns nil for an empty list.
func openSources(sources []string) (SourceFiles, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	s := &sourceSet{}
	s.stdin, _ = os.Stdin.Stat()

	for _, src := range sources {
		if err := s.add(src); err != nil {
			_ = s.Close()

			return nil, ErrOpenSource.With(slog.String("file", src)).Wrap(err)
		}
	}

	return s, nil
}

// add opens the file at path unless it is stdin or was already added.
func (s *sourceSet) add(path string) error {
	if path == stdinSource {
		s.read = true

		return nil
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(resolved)
	switch {
	case err != nil:
		return err

	case info.IsDir():
		return ErrIsDirectory

	case s.stdin != nil && os.SameFile(info, s.stdin):
		s.read = true

		return nil

	case slices.ContainsFunc(s.seen, func(fi os.FileInfo) bool { return os.SameFile(fi, info) }):
		return nil
	}

	f, err := os.Open(resolved)
	if err != nil {
		return err
	}

	s.files = append(s.files, f)
	s.seen = append(s.seen, info)

	return nil
}

func (s *sourceSet) IsZero() bool { return len(s.files) == 0 && !s.read }

// Stdin returns os.Stdin if it is a source, or nil otherwise.
func (s *sourceSet) Stdin() io.Reader {
	if s.read {
		return os.Stdin
	}

	return nil
}

func (s *sourceSet) Read(p []byte) (int, error) { return s.reader().Read(p) }

func (s *sourceSet) WriteTo(w io.Writer) (int64, error) { return io.Copy(w, s.reader()) }

// Close closes every opened file.
func (s *sourceSet) Close() error {
	var errs []error
	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

func (s *sourceSet) reader() io.Reader {
	if s.r == nil {
		rs := make([]io.Reader, 0, 2*len(s.files)+1)
		for _, f := range s.files {
			rs = append(rs, f, strings.NewReader("\n"))
		}

		if s.read {
			rs = append(rs, os.Stdin)
		}

		s.r = io.MultiReader(rs...)
	}

	return s.r
}
