package archive

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Akamitori/qcvault/internal/model"
)

// fakeArchive answers the directory checks without touching the disk.
type fakeArchive struct {
	exists, hasFile, valid bool
	calls                  []string
}

func (f *fakeArchive) DirectoryExists(string) bool {
	f.calls = append(f.calls, "exists")
	return f.exists
}

func (f *fakeArchive) HasAtLeastOneFile(string) bool {
	f.calls = append(f.calls, "hasFile")
	return f.hasFile
}

func (f *fakeArchive) AllFilesValid(string, *Schema) bool {
	f.calls = append(f.calls, "valid")
	return f.valid
}

// fakeCollection records what it was asked to check.
type fakeCollection struct {
	ok      bool
	message string
	seen    model.Posts
	called  int
}

func (f *fakeCollection) CheckUnique(posts model.Posts) (bool, string) {
	f.called++
	f.seen = posts
	return f.ok, f.message
}

func newTestLoader(opts ...Option) *Loader {
	return NewLoader(append([]Option{WithLogger(quietLogger()), WithReporter(&recorder{})}, opts...)...)
}

func TestLoad_SortsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", mdPost("X", "2020-01-01", "older"))
	writeFile(t, dir, "b.md", mdPost("Y", "2021-01-01", "newer"))

	posts, err := newTestLoader().Load(dir, mustDefaultSchema(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(posts) != 2 || posts[0].Title != "Y" || posts[1].Title != "X" {
		t.Fatalf("expected [Y, X], got %v", titles(posts))
	}
}

func TestLoad_OrderHoldsForAdjacentPairs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1.md", mdPost("one", "2019-06-01", ""))
	writeFile(t, dir, "2.yaml", "title: two\ndate: 2023-02-01\n")
	writeFile(t, dir, "3.json", `{"title":"three","date":"2021-11-30T08:00:00Z"}`)
	writeFile(t, dir, "4.md", mdPost("four", "2021-11-30", ""))
	writeFile(t, dir, "5.md", mdPost("five", "2018-01-01", ""))

	posts, err := newTestLoader().Load(dir, mustDefaultSchema(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(posts) != 5 {
		t.Fatalf("expected 5 posts, got %d", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i-1].Date.Before(posts[i].Date) {
			t.Fatalf("posts out of order at %d: %v", i, titles(posts))
		}
	}
}

func TestLoad_DuplicateTitles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", mdPost("X", "2020-01-01", ""))
	writeFile(t, dir, "b.md", mdPost("X", "2022-05-05", ""))
	writeFile(t, dir, "c.md", mdPost("Z", "2022-05-05", ""))

	posts, err := newTestLoader().Load(dir, mustDefaultSchema(t))
	if err == nil {
		t.Fatalf("expected duplicate titles error")
	}
	if posts != nil {
		t.Fatalf("expected no partial result, got %v", titles(posts))
	}
	if !errors.Is(err, ErrDuplicateTitles) {
		t.Fatalf("expected ErrDuplicateTitles, got %v", err)
	}
	var dupErr *DuplicateTitlesError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected *DuplicateTitlesError, got %T", err)
	}
	if !strings.Contains(dupErr.Message, `{"title":"X","occurrences":2}`) {
		t.Fatalf("message does not name the duplicate: %s", dupErr.Message)
	}
}

func TestLoad_DirectoryNotFoundReadsNothing(t *testing.T) {
	fa := &fakeArchive{}
	fc := &fakeCollection{ok: true}
	l := newTestLoader(WithArchiveValidator(fa), WithCollectionValidator(fc))

	_, err := l.Load(filepath.Join(t.TempDir(), "missing"), nil)
	if !errors.Is(err, ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound, got %v", err)
	}
	if !reflect.DeepEqual(fa.calls, []string{"exists"}) {
		t.Fatalf("expected only the existence check, got %v", fa.calls)
	}
	if fc.called != 0 {
		t.Fatalf("collection validator must not run")
	}
}

func TestLoad_FailFastOrder(t *testing.T) {
	tests := []struct {
		name    string
		archive *fakeArchive
		want    error
		calls   []string
	}{
		{"no files", &fakeArchive{exists: true}, ErrNoFiles, []string{"exists", "hasFile"}},
		{"invalid", &fakeArchive{exists: true, hasFile: true}, ErrInvalidFiles, []string{"exists", "hasFile", "valid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCollection{ok: true}
			l := newTestLoader(WithArchiveValidator(tt.archive), WithCollectionValidator(fc))
			if _, err := l.Load(t.TempDir(), nil); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !reflect.DeepEqual(tt.archive.calls, tt.calls) {
				t.Fatalf("expected calls %v, got %v", tt.calls, tt.archive.calls)
			}
			if fc.called != 0 {
				t.Fatalf("no post may be constructed or checked")
			}
		})
	}
}

func TestLoad_EmptyDirectory(t *testing.T) {
	_, err := newTestLoader().Load(t.TempDir(), mustDefaultSchema(t))
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.md", mdPost("Good", "2020-01-01", ""))
	writeFile(t, dir, "broken.yaml", "title: [unterminated\n")

	rec := &recorder{}
	fc := &fakeCollection{ok: true}
	l := NewLoader(WithLogger(quietLogger()), WithReporter(rec), WithCollectionValidator(fc))

	_, err := l.Load(dir, mustDefaultSchema(t))
	if !errors.Is(err, ErrInvalidFiles) {
		t.Fatalf("expected ErrInvalidFiles, got %v", err)
	}
	if rec.files()["broken.yaml"] == 0 {
		t.Fatalf("expected a diagnostic naming broken.yaml, got %v", rec.diags)
	}
	if fc.called != 0 {
		t.Fatalf("no post may be constructed from an invalid archive")
	}
}

func TestLoad_CollectionValidatorMessageIsVerbatim(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", mdPost("A", "2020-01-01", ""))
	fc := &fakeCollection{message: "custom rejection"}

	_, err := newTestLoader(WithCollectionValidator(fc)).Load(dir, mustDefaultSchema(t))
	if err == nil || err.Error() != "custom rejection" {
		t.Fatalf("expected verbatim message, got %v", err)
	}
	if !errors.Is(err, ErrDuplicateTitles) {
		t.Fatalf("expected ErrDuplicateTitles, got %v", err)
	}
	if len(fc.seen) != 1 {
		t.Fatalf("expected the validator to see every post, got %d", len(fc.seen))
	}
}

func TestLoad_DecodeFaultIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", mdPost("A", "2020-01-01", ""))
	// Passes the fake directory checks but can never be decoded.
	writeFile(t, dir, "b.txt", "nothing")

	l := newTestLoader(WithArchiveValidator(&fakeArchive{exists: true, hasFile: true, valid: true}))
	_, err := l.Load(dir, nil)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if !strings.Contains(err.Error(), "b.txt") {
		t.Fatalf("expected error to name the file, got %v", err)
	}
}

func TestLoad_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", mdPost("A", "2020-01-01", "alpha"))
	writeFile(t, dir, "b.json", `{"title":"B","date":"2020-01-01","tags":["x"],"extra":{"n":1}}`)
	writeFile(t, dir, "c.yml", "title: C\ndate: 2024-07-01\nbody: gamma\n")

	l := newTestLoader()
	schema := mustDefaultSchema(t)
	first, err := l.Load(dir, schema)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := l.Load(dir, schema)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("loads differ:\n%v\n%v", titles(first), titles(second))
	}
	// equal dates keep directory order
	if got := titles(first); !reflect.DeepEqual(got, []string{"C", "A", "B"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestLoad_SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "only.md", mdPost("Only", "2020-01-01", "body"))

	posts, err := newTestLoader().Load(dir, mustDefaultSchema(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "Only" {
		t.Fatalf("expected single post, got %v", titles(posts))
	}
}

func TestLoad_BuildsDerivedFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.md", "---\n"+
		"title: Crème Brûlée, Explained\n"+
		"date: 2022-03-04T05:06:07Z\n"+
		"author: Sam\n"+
		"tags: [food, french]\n"+
		"draft: false\n"+
		"---\n"+
		"The first paragraph.\n\nAnother one here.\n")

	posts, err := newTestLoader().Load(dir, mustDefaultSchema(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := posts[0]
	if p.SourcePath != path {
		t.Fatalf("unexpected source path %q", p.SourcePath)
	}
	if p.Slug != "creme-brulee-explained" || p.Permalink != "/posts/creme-brulee-explained/" {
		t.Fatalf("unexpected slug %q / permalink %q", p.Slug, p.Permalink)
	}
	if !p.Date.Equal(time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", p.Date)
	}
	if p.Author != "Sam" || !reflect.DeepEqual(p.Tags, []string{"food", "french"}) {
		t.Fatalf("unexpected fields %+v", p)
	}
	if p.Excerpt != "The first paragraph." || p.WordCount != 6 || p.ReadingTime != time.Minute {
		t.Fatalf("unexpected content stats: excerpt=%q words=%d time=%v", p.Excerpt, p.WordCount, p.ReadingTime)
	}
	if draft, ok := p.Params["draft"].(bool); !ok || draft {
		t.Fatalf("expected opaque params to be kept, got %v", p.Params)
	}
}

func TestLoad_SymlinkedPost(t *testing.T) {
	target := writeFile(t, t.TempDir(), "real.md", mdPost("Linked", "2021-01-01", ""))
	dir := t.TempDir()
	writeFile(t, dir, "a.md", mdPost("A", "2020-01-01", ""))
	if err := os.Symlink(target, filepath.Join(dir, "linked.md")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	posts, err := newTestLoader().Load(dir, mustDefaultSchema(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := titles(posts); !reflect.DeepEqual(got, []string{"Linked", "A"}) {
		t.Fatalf("expected [Linked A], got %v", got)
	}

	only := t.TempDir()
	if err := os.Symlink(target, filepath.Join(only, "linked.md")); err != nil {
		t.Fatal(err)
	}
	posts, err = newTestLoader().Load(only, mustDefaultSchema(t))
	if err != nil || len(posts) != 1 {
		t.Fatalf("expected the linked post alone, got %v, %v", titles(posts), err)
	}
}

func TestLoad_LowercaseDateTimeSeparators(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"title":"A","date":"2020-01-01t10:00:00z"}`)
	writeFile(t, dir, "b.json", `{"title":"B","date":"2020-01-02t10:00:00.5+02:00"}`)

	posts, err := newTestLoader().Load(dir, mustDefaultSchema(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	byTitle := map[string]time.Time{}
	for _, p := range posts {
		byTitle[p.Title] = p.Date
	}
	if want := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC); !byTitle["A"].Equal(want) {
		t.Fatalf("unexpected date for A: %v", byTitle["A"])
	}
	if want := time.Date(2020, 1, 2, 8, 0, 0, 5e8, time.UTC); !byTitle["B"].Equal(want) {
		t.Fatalf("unexpected date for B: %v", byTitle["B"])
	}
}

func TestLoad_UnicodeTitles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ja.md", mdPost("日本語の記事", "2020-01-01", ""))
	writeFile(t, dir, "ru.md", mdPost("Привет мир", "2020-01-02", ""))
	writeFile(t, dir, "punct.md", mdPost("'???'", "2020-01-03", ""))

	posts, err := newTestLoader().Load(dir, mustDefaultSchema(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := map[string]string{
		"日本語の記事":     "/posts/日本語の記事/",
		"Привет мир": "/posts/привет-мир/",
		"???":        "/posts/punct/",
	}
	for _, p := range posts {
		if p.Permalink != want[p.Title] {
			t.Fatalf("unexpected permalink %q for %q", p.Permalink, p.Title)
		}
	}
}

func TestLoad_PermalinkCollision(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", mdPost("Go!", "2020-01-01", ""))
	writeFile(t, dir, "b.md", mdPost("Go", "2021-01-01", ""))

	posts, err := newTestLoader().Load(dir, mustDefaultSchema(t))
	if !errors.Is(err, ErrDuplicatePermalinks) {
		t.Fatalf("expected ErrDuplicatePermalinks, got %v", err)
	}
	if posts != nil {
		t.Fatalf("expected no partial result, got %v", titles(posts))
	}
	if errors.Is(err, ErrDuplicateTitles) {
		t.Fatalf("distinct titles are not duplicate titles: %v", err)
	}
	if !strings.Contains(err.Error(), "/posts/go/") || !strings.Contains(err.Error(), "b.md") {
		t.Fatalf("expected the message to name the permalink and files, got %v", err)
	}
}

func TestLoad_XMLPosts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.xml", `<?xml version="1.0" encoding="utf-8"?>
<Post xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <Title>From XML</Title>
  <Date>2023-04-05</Date>
  <Author>Ann</Author>
  <Tags>
    <Tag>go</Tag>
    <Tag>xml</Tag>
  </Tags>
  <Body>Tagged body text.</Body>
</Post>`)
	writeFile(t, dir, "b.xml", "<post><title>Single</title><date>2022-01-01</date><tags><tag>solo</tag></tags></post>")
	writeFile(t, dir, "c.md", mdPost("Markdown", "2021-01-01", ""))

	posts, err := newTestLoader().Load(dir, mustDefaultSchema(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := titles(posts); !reflect.DeepEqual(got, []string{"From XML", "Single", "Markdown"}) {
		t.Fatalf("unexpected order %v", got)
	}
	p := posts[0]
	if p.Author != "Ann" || p.Body != "Tagged body text." || !reflect.DeepEqual(p.Tags, []string{"go", "xml"}) {
		t.Fatalf("unexpected XML post %+v", p)
	}
	for key := range p.Params {
		if strings.HasPrefix(key, "-") {
			t.Fatalf("root attributes must not become params: %v", p.Params)
		}
	}
	if p.Params["title"] != "From XML" {
		t.Fatalf("expected lowercased field names in params, got %v", p.Params)
	}
	if !reflect.DeepEqual(posts[1].Tags, []string{"solo"}) {
		t.Fatalf("expected a lone tag to become a list, got %v", posts[1].Tags)
	}
}

func TestLoad_ReporterAppliesRegardlessOfOptionOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `{"date":"2020-01-01"}`)

	rec := &recorder{}
	l := NewLoader(WithLogger(quietLogger()), WithReporter(rec), WithArchiveValidator(&DiskValidator{}))
	if _, err := l.Load(dir, mustDefaultSchema(t)); !errors.Is(err, ErrInvalidFiles) {
		t.Fatalf("expected ErrInvalidFiles, got %v", err)
	}
	if rec.files()["bad.json"] == 0 {
		t.Fatalf("expected the reporter to receive the diagnostic, got %v", rec.diags)
	}
}

func titles(posts model.Posts) []string {
	var out []string
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}
