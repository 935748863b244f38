// Package server is a small read-only HTTP front over the content store,
// used to eyeball seeded content before the site picks it up. It is an
// operator tool, not the production front end.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"pawpedia/content"
	"pawpedia/pipeline"
	"pawpedia/store"
)

type Server struct {
	st  store.Store
	md  goldmark.Markdown
	log *zap.Logger
}

func New(st store.Store, log *zap.Logger) (*Server, error) {
	if st == nil {
		return nil, errors.New("content store required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{st: st, md: goldmark.New(), log: log}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/posts", s.handlePosts)
	mux.HandleFunc("/api/posts/", s.handlePostByID)
	mux.HandleFunc("/api/facts", s.handleFacts)
	mux.HandleFunc("/api/shop/", s.handleShopCategory)
	return s.logMiddleware(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handlePosts returns the aggregate blog listing document.
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	s.serveDocument(w, r, pipeline.CollectionBlog, "posts")
}

// handlePostByID serves one blog record, or its rendered HTML preview when
// the path ends in /preview.
func (s *Server) handlePostByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/posts/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}
	if id, ok := strings.CutSuffix(rest, "/preview"); ok {
		s.servePreview(w, r, id)
		return
	}
	s.serveDocument(w, r, pipeline.CollectionBlogDetails, rest)
}

func (s *Server) handleFacts(w http.ResponseWriter, r *http.Request) {
	s.serveDocument(w, r, pipeline.CollectionFacts, "dog_facts")
}

func (s *Server) handleShopCategory(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimPrefix(r.URL.Path, "/api/shop/")
	if category == "" {
		http.NotFound(w, r)
		return
	}
	s.serveDocument(w, r, pipeline.CollectionShop, category)
}

func (s *Server) serveDocument(w http.ResponseWriter, r *http.Request, collection, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	doc, err := s.st.Get(r.Context(), collection, id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.Error("store read failed",
			zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		http.Error(w, "store read failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, doc)
}

var previewTmpl = template.Must(template.New("preview").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .Image}}<img src="{{.Image}}" alt="{{.Title}}" width="480">{{end}}
<p><em>{{.Summary}}</em></p>
{{.Body}}
</body></html>`))

// servePreview renders a record's markdown body to HTML for a quick look in
// the browser.
func (s *Server) servePreview(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := s.st.Get(r.Context(), pipeline.CollectionBlogDetails, id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "store read failed", http.StatusInternalServerError)
		return
	}

	var rec content.Record
	if err := json.Unmarshal(doc.Content, &rec); err != nil {
		http.Error(w, "malformed stored record", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(rec.Body), &buf); err != nil {
		http.Error(w, "markdown render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = previewTmpl.Execute(w, struct {
		Title, Summary, Image string
		Body                  template.HTML
	}{rec.Title, rec.Summary, rec.Image, template.HTML(buf.String())})
	if err != nil {
		s.log.Error("preview render failed", zap.String("id", id), zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("encode response: %v", err), http.StatusInternalServerError)
	}
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
