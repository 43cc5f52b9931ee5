// Package archive loads a directory of post files into a validated,
// date-ordered collection.
//
// A load runs three stages in sequence: the directory and every file in it
// are validated against a schema, each file is deserialized into a
// model.Post, and the assembled collection is checked for duplicate titles
// and for distinct titles that would share a permalink.
// Any failure aborts the load and no partial collection is returned.
package archive

import (
	"fmt"
	"log/slog"

	"github.com/Akamitori/qcvault/internal/model"
)

// Loader orchestrates a full archive load.
type Loader struct {
	Archive    ArchiveValidator
	Collection CollectionValidator
	Logger     *slog.Logger

	reporter Reporter
}

// Option configures a Loader built by NewLoader.
type Option func(*Loader)

// WithArchiveValidator replaces the default DiskValidator.
func WithArchiveValidator(v ArchiveValidator) Option {
	return func(l *Loader) { l.Archive = v }
}

// WithCollectionValidator replaces the default TitleValidator.
func WithCollectionValidator(v CollectionValidator) Option {
	return func(l *Loader) { l.Collection = v }
}

// WithReporter routes per-file diagnostics to r. It applies to whichever
// *DiskValidator the Loader ends up with, regardless of option order, and
// is ignored for other ArchiveValidator implementations.
func WithReporter(r Reporter) Option {
	return func(l *Loader) { l.reporter = r }
}

// WithLogger sets the logger for load progress; slog.Default() otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.Logger = logger }
}

// NewLoader returns a Loader backed by a DiskValidator and a TitleValidator
// unless options replace them.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		Archive:    &DiskValidator{},
		Collection: TitleValidator{},
	}
	for _, opt := range opts {
		opt(l)
	}
	if dv, ok := l.Archive.(*DiskValidator); ok && l.reporter != nil {
		dv.Reporter = l.reporter
	}
	if l.Logger == nil {
		l.Logger = slog.Default()
	}
	return l
}

// Load validates dir against schema, deserializes every file in it and
// returns the posts newest first.
func (l *Loader) Load(dir string, schema *Schema) (model.Posts, error) {
	if err := l.validateDirectory(dir, schema); err != nil {
		return nil, err
	}

	files, err := listFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory '%s': %w", dir, err)
	}

	posts := make(model.Posts, 0, len(files))
	for _, file := range files {
		post, err := readPost(file)
		if err != nil {
			return nil, fmt.Errorf("%w '%s': %w", ErrDecode, file, err)
		}
		l.Logger.Debug("post loaded", "file", file, "title", post.Title)
		posts = append(posts, post)
	}

	if ok, msg := l.Collection.CheckUnique(posts); !ok {
		return nil, &DuplicateTitlesError{Message: msg}
	}
	if err := checkPermalinks(posts); err != nil {
		return nil, err
	}

	// Sorted once here since a loaded collection is never modified.
	posts.SortNewestFirst()

	l.Logger.Info("archive loaded", "dir", dir, "posts", len(posts))
	return posts, nil
}

func (l *Loader) validateDirectory(dir string, schema *Schema) error {
	if !l.Archive.DirectoryExists(dir) {
		return fmt.Errorf("%w: '%s'. Make sure the path is correct", ErrDirectoryNotFound, dir)
	}
	if !l.Archive.HasAtLeastOneFile(dir) {
		return fmt.Errorf("%w: '%s'. Make sure the path is correct", ErrNoFiles, dir)
	}
	if !l.Archive.AllFilesValid(dir, schema) {
		return fmt.Errorf("%w in '%s'", ErrInvalidFiles, dir)
	}
	return nil
}
