// Package server implements the development HTTP server: it renders
// templates and posts on the fly and exposes the live-reload polling
// endpoint fed by the filesystem watcher.
//
// The change-detection core is never invoked per request; only the
// independent watcher is consulted.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	lf "git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

//go:embed injection.html
var injection string

// Notifier supplies the most recently changed logical path, clearing it on
// read. Implemented by the filesystem watcher.
type Notifier interface {
	TakeModified() string
}

// Server serves a site project directly from its source trees.
type Server struct {
	root     string
	meta     *config.Meta
	notifier Notifier
	recorder metrics.Recorder
	logger   *slog.Logger
	handler  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a dev server for the project at root.
func New(root string, meta *config.Meta, notifier Notifier, opts ...Option) *Server {
	s := &Server{
		root:     root,
		meta:     meta,
		notifier: notifier,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /refresh", s.handleRefresh)
	if pr, ok := s.recorder.(*metrics.PrometheusRecorder); ok {
		mux.Handle("GET /metrics", pr.Handler())
	}
	mux.HandleFunc("/", s.handlePage)
	s.handler = mux
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.ListenAndServe()
	}()
	s.logger.Info("Dev server started", slog.String("addr", "http://"+addr))

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.recorder.IncServerRequest("refresh")
	modified := ""
	if s.notifier != nil {
		modified = s.notifier.TakeModified()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"refresh": modified})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	requested := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")

	if requested == "" {
		s.recorder.IncServerRequest("index")
		if s.fileExists(filepath.Join("templates", "index.html")) {
			http.Redirect(w, r, "/index", http.StatusMovedPermanently)
			return
		}
		s.notFound(w)
		return
	}

	if s.fileExists(filepath.Join("assets", filepath.FromSlash(requested))) {
		s.recorder.IncServerRequest("asset")
		http.ServeFile(w, r, filepath.Join(s.root, "assets", filepath.FromSlash(requested)))
		return
	}

	ext := path.Ext(requested)
	if ext != "" && ext != ".html" {
		s.notFound(w)
		return
	}
	noExt := strings.TrimSuffix(requested, ext)

	if s.fileExists(filepath.FromSlash(noExt) + ".md") {
		s.recorder.IncServerRequest("post")
		s.servePost(w, noExt+".md")
		return
	}
	if s.fileExists(filepath.Join("templates", filepath.FromSlash(noExt)+".html")) {
		s.recorder.IncServerRequest("template")
		s.serveTemplate(w, http.StatusOK, noExt+".html", nil)
		return
	}
	s.notFound(w)
}

// servePost renders a Markdown source on the fly through the configured
// base post template, so edits show up without a generate run.
func (s *Server) servePost(w http.ResponseWriter, relPath string) {
	raw, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(relPath)))
	if err != nil {
		s.notFound(w)
		return
	}
	post, err := site.LoadPost(relPath, raw)
	if err != nil {
		s.serverError(w, relPath, err)
		return
	}

	tmplName := s.meta.Base.Posts
	if name, ok := post.TemplateName(); ok {
		tmplName = name
	}
	if tmplName == "" {
		s.serverError(w, relPath, fmt.Errorf("no base post template configured"))
		return
	}
	s.serveTemplate(w, http.StatusOK, tmplName, map[string]any{
		"Post":    post.Fields,
		"Content": post.HTML,
	})
}

// serveTemplate parses the template tree fresh per request; a dev server
// must never serve stale layouts.
func (s *Server) serveTemplate(w http.ResponseWriter, status int, name string, data any) {
	tmpl, err := s.loadTemplates()
	if err != nil {
		s.serverError(w, name, err)
		return
	}
	if tmpl.Lookup(name) == nil {
		s.notFound(w)
		return
	}

	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.serverError(w, name, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, buf.String(), injection)
}

func (s *Server) notFound(w http.ResponseWriter) {
	s.recorder.IncServerRequest("not_found")
	if tmpl, err := s.loadTemplates(); err == nil && tmpl.Lookup("404.html") != nil {
		var buf strings.Builder
		if err := tmpl.ExecuteTemplate(&buf, "404.html", nil); err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprint(w, buf.String(), injection)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	_, _ = fmt.Fprint(w, "<h1>404</h1>")
}

func (s *Server) serverError(w http.ResponseWriter, name string, err error) {
	s.logger.Error("Request failed", lf.Path(name), lf.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) fileExists(rel string) bool {
	info, err := os.Stat(filepath.Join(s.root, rel))
	return err == nil && !info.IsDir()
}

func (s *Server) loadTemplates() (*template.Template, error) {
	root := filepath.Join(s.root, "templates")
	tmpl := template.New("")
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		_, err = tmpl.New(filepath.ToSlash(rel)).Parse(string(raw))
		return err
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return tmpl, nil
}
