package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vbonduro/groupr/internal/seed"
	"github.com/vbonduro/groupr/internal/service"
)

// seeder is the subset of seed.Loader the seed endpoint requires.
type seeder interface {
	Seed(ctx context.Context, captainEmail, captainClerkID string, progress seed.ProgressFunc) ([]seed.Result, error)
}

// Options holds the settings that do not come from a collaborator.
type Options struct {
	ClerkPublishableKey string
	// RateLimitRPS applies per client to mutating requests. Zero disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

type Server struct {
	service   *service.GroupService
	seeder    seeder
	templates embed.FS
	mux       *http.ServeMux
	tmplFuncs template.FuncMap
	opts      Options
	limiter   *clientLimiter
	registry  *prometheus.Registry
	metrics   *metrics
	logger    *slog.Logger
}

func NewServer(svc *service.GroupService, sd seeder, tmpl embed.FS, opts Options, logger *slog.Logger) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		service:   svc,
		seeder:    sd,
		templates: tmpl,
		mux:       http.NewServeMux(),
		opts:      opts,
		registry:  reg,
		metrics:   newMetrics(reg),
		logger:    logger,
		tmplFuncs: template.FuncMap{
			"initials": initials,
			"deref":    deref,
			"inc":      func(i int) int { return i + 1 },
		},
	}
	if opts.RateLimitRPS > 0 {
		s.limiter = newClientLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/groups", http.StatusSeeOther)
	})
	s.mux.HandleFunc("GET /groups", s.handleListGroups)
	s.mux.HandleFunc("GET /groups/{id}", s.handleGetGroupDetail)
	s.mux.HandleFunc("DELETE /groups/{id}", s.handleDeleteGroup)
	s.mux.HandleFunc("POST /groups/{id}/members", s.handleAddMember)
	s.mux.HandleFunc("POST /groups/{id}/members/bulk", s.handleBulkAdd)
	s.mux.HandleFunc("POST /groups/{id}/members/bulk/preview", s.handleBulkPreview)
	s.mux.HandleFunc("DELETE /groups/{id}/members/{memberID}", s.handleRemoveMember)
	s.mux.HandleFunc("POST /uploads", s.handleUploadImage)
	s.mux.HandleFunc("GET /images/{key}", s.handleGetImage)
	s.mux.HandleFunc("GET /search", s.handleSearch)
	s.mux.HandleFunc("GET /sign-in", s.handleSignIn)
	s.mux.HandleFunc("GET /api/seed", s.handleSeedUsage)
	s.mux.HandleFunc("POST /api/seed", s.handleSeed)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline' https://unpkg.com https://*.clerk.accounts.dev; "+
				"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; "+
				"font-src https://fonts.gstatic.com; "+
				"img-src 'self' data: https:; "+
				"connect-src 'self' https://*.clerk.accounts.dev; "+
				"frame-src https://*.clerk.accounts.dev")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)
		s.metrics.observeRequest(routeLabel(r), r.Method, rec.status, elapsed)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.requestLogger(securityHeaders(s.rateLimit(s.mux))).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base", data)
}

// renderPartial parses and executes a single named partial template.
// The file must contain exactly one {{define "name"}}...{{end}} block.
func (s *Server) renderPartial(w http.ResponseWriter, file string, data any) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, file)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// ParseFS registers both the file-basename template and any {{define}} blocks.
	basename := file
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		basename = file[idx+1:]
	}
	for _, t := range tmpl.Templates() {
		if n := t.Name(); n != "" && n != basename {
			return t.Execute(w, data)
		}
	}
	return tmpl.ExecuteTemplate(w, basename, data)
}

// initials returns up to two leading letters for an avatar placeholder.
func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			out = append(out, r)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
