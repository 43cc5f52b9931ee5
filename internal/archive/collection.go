package archive

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/Akamitori/qcvault/internal/model"
)

// CollectionValidator checks invariants that span the whole loaded archive.
type CollectionValidator interface {
	CheckUnique(posts model.Posts) (ok bool, message string)
}

// TitleCount is one duplicated title and how often it occurs.
type TitleCount struct {
	Title       string `json:"title"`
	Occurrences int    `json:"occurrences"`
}

// DuplicateTitles groups posts by exact title and returns every group with
// more than one member, in order of first appearance.
func DuplicateTitles(posts model.Posts) []TitleCount {
	counts := make(map[string]int, len(posts))
	var order []string
	for _, p := range posts {
		if counts[p.Title] == 0 {
			order = append(order, p.Title)
		}
		counts[p.Title]++
	}

	var dups []TitleCount
	for _, title := range order {
		if n := counts[title]; n > 1 {
			dups = append(dups, TitleCount{Title: title, Occurrences: n})
		}
	}
	return dups
}

// TitleValidator rejects collections in which two posts share a title.
// Titles stand in for permalinks, which are derived from them.
type TitleValidator struct{}

// CheckUnique reports duplicate titles as a JSON list of TitleCount.
func (TitleValidator) CheckUnique(posts model.Posts) (bool, string) {
	dups := DuplicateTitles(posts)
	if len(dups) == 0 {
		return true, ""
	}
	encoded, err := json.Marshal(dups)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%v", dups))
	}
	return false, "the archive contains the following duplicate titles:\n" + string(encoded)
}

// PermalinkClash is one permalink shared by several posts.
type PermalinkClash struct {
	Permalink string   `json:"permalink"`
	Files     []string `json:"files"`
}

// DuplicatePermalinks groups posts by permalink and returns every group with
// more than one member, in order of first appearance.
func DuplicatePermalinks(posts model.Posts) []PermalinkClash {
	files := make(map[string][]string, len(posts))
	var order []string
	for _, p := range posts {
		if _, seen := files[p.Permalink]; !seen {
			order = append(order, p.Permalink)
		}
		files[p.Permalink] = append(files[p.Permalink], p.SourcePath)
	}

	var clashes []PermalinkClash
	for _, link := range order {
		if len(files[link]) > 1 {
			clashes = append(clashes, PermalinkClash{Permalink: link, Files: files[link]})
		}
	}
	return clashes
}

func checkPermalinks(posts model.Posts) error {
	clashes := DuplicatePermalinks(posts)
	if len(clashes) == 0 {
		return nil
	}
	encoded, err := json.Marshal(clashes)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%v", clashes))
	}
	return fmt.Errorf("%w, rename one of the titles:\n%s", ErrDuplicatePermalinks, encoded)
}
