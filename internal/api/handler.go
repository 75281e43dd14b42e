package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shantanuraj/roulette/internal/imagemap"
	"github.com/shantanuraj/roulette/internal/metrics"
	"github.com/shantanuraj/roulette/internal/selector"
	"github.com/shantanuraj/roulette/internal/store"
)

const robotsTxt = "User-agent: *\nDisallow: /\n"

// Options configures New.
type Options struct {
	// URLPrefix is joined with the chosen filename to form the redirect
	// target. It must not end in "/".
	URLPrefix string

	// Metrics records selections. May be nil.
	Metrics *metrics.Metrics

	// MetricsHandler is mounted at /metrics when non-nil.
	MetricsHandler http.Handler
}

// Handler serves image redirects from the current image map.
type Handler struct {
	store   *store.Store
	prefix  string
	metrics *metrics.Metrics
	router  chi.Router
}

// New creates a Handler wired to st and registers all routes.
func New(st *store.Store, opts Options) http.Handler {
	h := &Handler{
		store:   st,
		prefix:  opts.URLPrefix,
		metrics: opts.Metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	r.Get("/health", h.health)
	r.Get("/robots.txt", robots)
	r.Get("/image", h.image(selector.ModeUniform, false))
	r.Get("/image/after/{bound}", h.image(selector.ModeUniform, true))
	r.Get("/image/latest", h.image(selector.ModeBiased, false))
	r.Get("/image/latest/after/{bound}", h.image(selector.ModeBiased, true))
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns the number of keys in the current map.
func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strconv.Itoa(h.store.Len())))
}

func robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(robotsTxt))
}

// image returns a handler that picks a key with mode, optionally after
// narrowing to keys >= the {bound} path parameter, and redirects to it.
func (h *Handler) image(mode selector.Mode, bounded bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxAge, cache := ParseMaxAge(r.URL.Query().Get("cache"))

		// One snapshot per request: keys and filenames come from the same map.
		snap := h.store.Current()
		keys := snap.Keys()
		if bounded {
			keys = imagemap.FilterFrom(keys, chi.URLParam(r, "bound"))
		}

		key, ok := selector.Pick(mode, keys)
		h.metrics.ObserveSelection(string(mode), ok)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		file, _ := snap.Lookup(key)
		redirect(w, RedirectURL(h.prefix, file), maxAge, cache)
	}
}
