package archive

import "errors"

// Sentinel errors returned by Loader.Load. Every one is fatal to the load.
var (
	// ErrDirectoryNotFound is returned when the archive path is not an
	// existing directory.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrNoFiles is returned when the archive directory holds no files.
	ErrNoFiles = errors.New("no files found in directory")

	// ErrInvalidFiles is returned when at least one file failed to parse or
	// to validate against the schema.
	ErrInvalidFiles = errors.New("parse or schema errors found in files")

	// ErrDecode is returned when a file that passed validation could not be
	// turned into a post.
	ErrDecode = errors.New("could not deserialize post")

	// ErrDuplicateTitles is returned when two or more posts share a title.
	ErrDuplicateTitles = errors.New("duplicate titles")

	// ErrDuplicatePermalinks is returned when distinct titles slugify to the
	// same permalink, so one post would shadow the other.
	ErrDuplicatePermalinks = errors.New("duplicate permalinks")
)

// DuplicateTitlesError carries the collection validator's diagnostic
// message verbatim.
type DuplicateTitlesError struct {
	Message string
}

// Error returns the validator message unchanged.
func (e *DuplicateTitlesError) Error() string { return e.Message }

// Unwrap lets errors.Is match ErrDuplicateTitles.
func (e *DuplicateTitlesError) Unwrap() error { return ErrDuplicateTitles }
