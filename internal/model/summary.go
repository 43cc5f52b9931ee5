package model

import "math"

const summaryDateLayout = "2006-01-02"

// Summary is the list view of a post used by `qcvault list` and GET /posts.
type Summary struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Permalink   string   `json:"permalink"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ReadMinutes int      `json:"readMinutes"`
}

// Summarize projects the post into its list view.
func (p *Post) Summarize() Summary {
	return Summary{
		Title:       p.Title,
		Date:        p.Date.Format(summaryDateLayout),
		Permalink:   p.Permalink,
		Excerpt:     p.Excerpt,
		Tags:        p.Tags,
		ReadMinutes: int(math.Ceil(p.ReadingTime.Minutes())),
	}
}
