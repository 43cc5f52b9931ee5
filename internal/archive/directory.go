package archive

import (
	"io/fs"
	"os"
	"path/filepath"
)

// ArchiveValidator gates a load before any post is constructed.
type ArchiveValidator interface {
	// DirectoryExists reports whether path is an existing directory.
	DirectoryExists(path string) bool
	// HasAtLeastOneFile reports whether the directory holds a regular file.
	// Callers check DirectoryExists first.
	HasAtLeastOneFile(path string) bool
	// AllFilesValid parses every file and validates it against schema. It
	// checks all files, reporting each violation, before answering.
	AllFilesValid(path string, schema *Schema) bool
}

// DiskValidator validates an archive directory on the local file system.
// Every method re-reads the directory.
type DiskValidator struct {
	Reporter Reporter // nil means a SlogReporter on slog.Default()
}

// DirectoryExists reports whether path names a directory, following symlinks.
func (v *DiskValidator) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// HasAtLeastOneFile reports whether path holds a regular file or a symlink to one.
func (v *DiskValidator) HasAtLeastOneFile(path string) bool {
	files, err := listFiles(path)
	return err == nil && len(files) > 0
}

// AllFilesValid reports every diagnostic for every file before answering.
func (v *DiskValidator) AllFilesValid(path string, schema *Schema) bool {
	files, err := listFiles(path)
	if err != nil {
		v.report(Diagnostic{File: path, Severity: SeverityError, Message: err.Error()})
		return false
	}

	valid := true
	for _, file := range files {
		for _, d := range validateFile(file, schema) {
			valid = false
			v.report(d)
		}
	}
	return valid
}

func (v *DiskValidator) report(d Diagnostic) {
	if v.Reporter == nil {
		SlogReporter{}.Report(d)
		return
	}
	v.Reporter.Report(d)
}

// validateFile returns the diagnostics for one file, nil when it is valid.
func validateFile(file string, schema *Schema) []Diagnostic {
	parseError := func(err error) []Diagnostic {
		return []Diagnostic{{File: file, Severity: SeverityError, Message: err.Error()}}
	}

	f, err := formatFor(file)
	if err != nil {
		return parseError(err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return parseError(err)
	}
	doc, err := f.parse(data)
	if err != nil {
		return parseError(err)
	}

	var out []Diagnostic
	for _, violation := range schema.Validate(doc) {
		out = append(out, Diagnostic{
			File:     file,
			Severity: SeverityError,
			Path:     violation.Path,
			Message:  violation.Message,
		})
	}
	return out
}

// listFiles returns the files directly inside dir, in name order. Symlinks
// count when their target is a regular file; a dangling link is kept so the
// validator reports it instead of dropping the post.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		switch {
		case e.Type().IsRegular():
		case e.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(path)
			if err == nil && !info.Mode().IsRegular() {
				continue
			}
		default:
			continue
		}
		files = append(files, path)
	}
	return files, nil
}
