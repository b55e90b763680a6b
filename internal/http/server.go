package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"tracker/internal/cache"
	"tracker/internal/contact"
	"tracker/internal/log"
	"tracker/internal/middleware/ratelimit"
	"tracker/internal/middleware/security"
	"tracker/internal/middleware/trace"
	"tracker/internal/session"
	appweb "tracker/web"
)

// Deps are the collaborators of the HTTP server.
type Deps struct {
	Sessions *session.Manager
	Contact  *contact.Service
	Limiter  *ratelimit.Limiter
	Logger   *log.Logger
	// StrictCategories rejects categories outside the enumerated sets.
	StrictCategories bool
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

type Server struct {
	http.Server
	templates *template.Template
	sessions  *session.Manager
	contact   *contact.Service
	limiter   *ratelimit.Limiter
	trace     *trace.Middleware
	clientIP  *security.ClientIP
	logger    *log.Logger
	strict    bool
	now       func() time.Time
	started   time.Time

	// Concurrent summary loads of one session share a single snapshot.
	summaries singleflight.Group
	// Rendered SVG charts keyed by session, store version, kind and month.
	charts *cache.LRUCache[[]byte]

	ready        atomic.Bool
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Sessions == nil {
		return nil, fmt.Errorf("http server requires a session manager")
	}
	if deps.Logger == nil {
		deps.Logger = log.New(log.DefaultConfig())
	}
	if deps.Contact == nil {
		deps.Contact = contact.NewService(time.Second, deps.Logger.WithComponent(log.ComponentContact).Logger)
	}
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	mux := http.NewServeMux()
	s := &Server{
		templates: t,
		sessions:  deps.Sessions,
		contact:   deps.Contact,
		limiter:   deps.Limiter,
		trace:     trace.NewMiddleware(),
		clientIP:  security.NewClientIP(),
		logger:    deps.Logger.WithComponent(log.ComponentHTTP),
		strict:    deps.StrictCategories,
		now:       deps.Now,
		started:   deps.Now(),
		charts:    cache.NewLRUCache[[]byte](256, 10*time.Minute),
	}

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /{$}", s.withSession(s.handleDashboard))
	mux.HandleFunc("GET /ui/summary", s.withSession(s.handleSummaryPartial))
	mux.HandleFunc("GET /ui/transactions", s.withSession(s.handleTransactionsPartial))
	mux.HandleFunc("GET /ui/form", s.withSession(s.handleFormPartial))
	mux.HandleFunc("POST /transactions", s.withSession(s.handleCreateTransaction))
	mux.HandleFunc("POST /transactions/reset", s.withSession(s.handleReset))
	mux.HandleFunc("GET /api/summary", s.withSession(s.handleAPISummary))
	mux.HandleFunc("GET /api/transactions", s.withSession(s.handleAPITransactions))
	mux.HandleFunc("GET /charts/{name}", s.withSession(s.handleChart))
	mux.HandleFunc("GET /contact", s.handleContactPage)
	mux.HandleFunc("POST /contact", s.handleContactSubmit)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.clientIP.Extract, s.handleRateLimited)(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = log.Middleware(s.logger, trace.RequestID)(handler)
	handler = s.trace.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.ready.Store(true)
	return s, nil
}

// ChartCache exposes the rendered chart cache for a cache.Manager.
func (s *Server) ChartCache() cache.Cleaner {
	return s.charts
}

// Shutdown marks the server unready and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.ready.Store(false)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.clientIP.Extract(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			"template", name, log.FieldError, err)
	}
}
