// Package http serves the dashboard page, the JSON API, and the rendered
// chart images.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"timemanager/internal/cache"
	"timemanager/internal/charts"
	"timemanager/internal/log"
	"timemanager/internal/middleware/ratelimit"
	"timemanager/internal/middleware/security"
	"timemanager/internal/middleware/trace"
	"timemanager/internal/state"
	"timemanager/internal/timer"
	appweb "timemanager/web"
)

type Server struct {
	http.Server

	state    *state.Store
	timer    *timer.Timer
	renderer *charts.Renderer
	logger   *log.Logger

	templates *template.Template

	// rendered chart PNGs, purged on every state change
	chartCache *cache.TTLCache[[]byte]

	limiter      *ratelimit.Limiter
	resolver     *security.IPResolver
	started      time.Time
	now          func() time.Time
	stopSweep    chan struct{}
	shutdownOnce sync.Once
}

type Option func(*Server)

// WithClock fixes the server's notion of "now" for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer configures routes, templates, and middleware, returning a
// ready-to-run http.Server.
func NewServer(addr string, st *state.Store, tm *timer.Timer, logger *log.Logger, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		state:      st,
		timer:      tm,
		renderer:   charts.NewRenderer(logger),
		logger:     logger.WithComponent(log.ComponentHTTP),
		chartCache: cache.New[[]byte](8, 5*time.Minute),
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		resolver:   security.NewIPResolver(),
		started:    time.Now(),
		now:        time.Now,
		stopSweep:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.chartCache.Janitor(10*time.Minute, s.stopSweep)

	// Any data change makes the cached charts stale.
	st.OnChange(func(state.Change) { s.InvalidateCharts() })

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticCache(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/dashboard", s.handleDashboard)

	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/tasks/toggle", s.handleToggleTask)
	mux.HandleFunc("/api/tasks/delete", s.handleDeleteTask)

	mux.HandleFunc("/api/timer", s.handleTimerState)
	mux.HandleFunc("/api/timer/start", s.handleTimerStart)
	mux.HandleFunc("/api/timer/pause", s.handleTimerPause)
	mux.HandleFunc("/api/timer/stop", s.handleTimerStop)
	mux.HandleFunc("/api/logs", s.handleLogs)

	mux.HandleFunc("/api/finance", s.handleFinance)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/balance", s.handleBalance)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/categories/delete", s.handleDeleteCategory)
	mux.HandleFunc("/api/categories/clear", s.handleClearCategories)

	mux.HandleFunc("/api/reports/monthly", s.handleMonthlyReport)
	mux.HandleFunc("/charts/monthly.png", s.handleMonthlyChart)
	mux.HandleFunc("/charts/categories.png", s.handleCategoryChart)

	mux.HandleFunc("/api/logout", s.handleLogout)

	// Rate limiting covers mutations only; the page polls read endpoints
	// every second.
	limited := s.limiter.Middleware(s.resolver.ClientIP)(mux)
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			limited.ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	traced := trace.NewMiddleware(logger, s.resolver.ClientIP)
	handler := security.Headers(security.DefaultHeadersConfig())(traced.Handler(root))

	s.Server.Addr = addr
	s.Server.Handler = handler
	s.Server.ReadHeaderTimeout = 5 * time.Second
	return s
}

// InvalidateCharts drops all cached chart renders. The month rollover
// watcher calls this so a new month gets a fresh bar chart.
func (s *Server) InvalidateCharts() {
	s.chartCache.Purge()
}

// Shutdown stops the server plus its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopSweep)
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
