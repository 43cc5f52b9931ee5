package archive

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Akamitori/qcvault/internal/content"
	"github.com/Akamitori/qcvault/internal/model"
)

// dateLayouts mirrors the schema's date and date-time formats.
var dateLayouts = []string{
	time.RFC3339,
	time.DateOnly,
}

func parseDate(s string) (time.Time, error) {
	// RFC 3339 allows a lowercase 't' separator and 'z' zone, time.Parse does not.
	norm := strings.ToUpper(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, norm); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date %q, use YYYY-MM-DD or RFC3339", s)
}

// readPost deserializes one archive file. It assumes the file already passed
// schema validation.
func readPost(path string) (*model.Post, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rec record
	if err := f.decode(data, &rec); err != nil {
		return nil, fmt.Errorf("%s decode: %w", f.name, err)
	}
	tree, err := f.parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s decode: %w", f.name, err)
	}
	params, _ := tree.(map[string]any)

	return newPost(path, rec, params)
}

func newPost(path string, rec record, params map[string]any) (*model.Post, error) {
	date, err := parseDate(rec.Date)
	if err != nil {
		return nil, err
	}

	stats := content.Analyze(rec.Body)
	excerpt := rec.Summary
	if excerpt == "" {
		excerpt = stats.Excerpt
	}
	slug := content.Slugify(rec.Title)
	if slug == "" {
		slug = fileSlug(path)
	}

	return &model.Post{
		Title:       rec.Title,
		Date:        date,
		Author:      rec.Author,
		Summary:     rec.Summary,
		Tags:        append([]string(nil), rec.Tags...),
		Body:        rec.Body,
		Params:      params,
		SourcePath:  path,
		Slug:        slug,
		Permalink:   "/posts/" + slug + "/",
		Excerpt:     excerpt,
		WordCount:   stats.Words,
		ReadingTime: content.ReadingTime(stats.Words),
	}, nil
}

// fileSlug names a post whose title has no letters or digits after its
// source file.
func fileSlug(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if slug := content.Slugify(base); slug != "" {
		return slug
	}
	return url.PathEscape(base)
}
