package content

import (
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const wordsPerMinute = 200

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Stats describes a Markdown body.
type Stats struct {
	Words   int
	Excerpt string // plain text of the first paragraph
}

// Analyze parses body as Markdown and counts the words in its text and code
// blocks. Nothing is rendered.
func Analyze(body string) Stats {
	src := []byte(body)
	doc := markdown.Parser().Parse(text.NewReader(src))

	var (
		st      Stats
		excerpt strings.Builder
		inFirst bool
		seen    bool
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Paragraph:
			if seen {
				break
			}
			if entering {
				inFirst = true
			} else {
				inFirst = false
				seen = true
			}
		case *ast.Text:
			if !entering {
				break
			}
			seg := node.Segment.Value(src)
			st.Words += len(strings.Fields(string(seg)))
			if inFirst {
				excerpt.Write(seg)
				if node.SoftLineBreak() || node.HardLineBreak() {
					excerpt.WriteByte(' ')
				}
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if !entering {
				break
			}
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				st.Words += len(strings.Fields(string(seg.Value(src))))
			}
		}
		return ast.WalkContinue, nil
	})

	st.Excerpt = strings.TrimSpace(excerpt.String())
	return st
}

// ReadingTime estimates how long a body of the given length takes to read,
// in whole minutes. Any non-empty body takes at least one minute.
func ReadingTime(words int) time.Duration {
	if words <= 0 {
		return 0
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return time.Duration(minutes) * time.Minute
}
