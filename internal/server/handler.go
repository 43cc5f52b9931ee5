package server

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Akamitori/qcvault/internal/model"
)

type handler struct {
	store  *Store
	logger *slog.Logger
}

// postView is the JSON shape of GET /posts/{slug}.
type postView struct {
	model.Summary
	Author string         `json:"author,omitempty"`
	Words  int            `json:"words"`
	Body   string         `json:"body"`
	Params map[string]any `json:"params,omitempty"`
}

// NewHandler serves the store's current collection.
//
//	GET  /posts         list of summaries, newest first
//	GET  /posts/{slug}  one post
//	GET  /stats         archive charts
//	POST /reload        reload the archive from disk
func NewHandler(store *Store, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{store: store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts", h.listPosts)
	mux.HandleFunc("GET /posts/{slug}", h.getPost)
	mux.HandleFunc("GET /stats", h.stats)
	mux.HandleFunc("POST /reload", h.reload)
	return mux
}

func (h *handler) listPosts(w http.ResponseWriter, r *http.Request) {
	summaries := h.store.Posts().Summaries()
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *handler) getPost(w http.ResponseWriter, r *http.Request) {
	post := h.store.Posts().BySlug(r.PathValue("slug"))
	if post == nil {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "post not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, postView{
		Summary: post.Summarize(),
		Author:  post.Author,
		Words:   post.WordCount,
		Body:    post.Body,
		Params:  post.Params,
	})
}

func (h *handler) reload(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Reload()
	if err != nil {
		h.logger.Error("reload failed", "err", err)
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	h.logger.Info("archive reloaded", "posts", n)
	h.writeJSON(w, http.StatusOK, map[string]int{"posts": n})
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderStats(w, h.store.Posts()); err != nil {
		h.logger.Error("rendering stats failed", "err", err)
	}
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	// Clients must always see the collection from the latest reload.
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("writing response failed", "err", err)
	}
}
