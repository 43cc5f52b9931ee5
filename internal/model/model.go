package model

import (
	"sort"
	"time"
)

// Post represents a single entry loaded from the archive.
type Post struct {
	Title   string
	Date    time.Time
	Author  string
	Summary string
	Tags    []string
	Body    string

	// Params holds the full decoded document, including fields the loader
	// does not interpret.
	Params map[string]any

	SourcePath  string
	Slug        string
	Permalink   string
	Excerpt     string
	WordCount   int
	ReadingTime time.Duration
}

// Posts is an archive collection. After a successful load it is ordered
// newest first and unique by title.
type Posts []*Post

// SortNewestFirst orders the collection by Date, descending. Posts sharing a
// date keep their relative order.
func (p Posts) SortNewestFirst() {
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].Date.After(p[j].Date)
	})
}

// BySlug returns the post with the given slug, or nil.
func (p Posts) BySlug(slug string) *Post {
	for _, post := range p {
		if post.Slug == slug {
			return post
		}
	}
	return nil
}

// Summaries projects every post into its list view.
func (p Posts) Summaries() []Summary {
	out := make([]Summary, 0, len(p))
	for _, post := range p {
		out = append(out, post.Summarize())
	}
	return out
}
