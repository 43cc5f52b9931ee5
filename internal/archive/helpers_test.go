package archive

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func mdPost(title, date, body string) string {
	return "---\ntitle: " + title + "\ndate: " + date + "\n---\n" + body + "\n"
}

func mustDefaultSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := DefaultSchema()
	if err != nil {
		t.Fatalf("default schema: %v", err)
	}
	return s
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder collects diagnostics for assertions.
type recorder struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func (r *recorder) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = append(r.diags, d)
}

func (r *recorder) files() map[string]int {
	out := map[string]int{}
	for _, d := range r.diags {
		out[filepath.Base(d.File)]++
	}
	return out
}
