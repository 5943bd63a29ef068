// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

// Package web serves the catalog browser's JSON presentation API. Every
// browser gets its own view state, addressed by a session cookie.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/cache"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/rewful008-cloud/nexus-game-catalog/internal/catalog"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/i18n"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/view"

	"golang.org/x/time/rate"
)

const (
	maxBodyBytes      = 1 << 20
	defaultMaxClients = 10000

	// minLimiterIdle is the shortest time an idle client limiter is kept.
	minLimiterIdle = 10 * time.Minute
)

// Catalog is the data store read by the server.
type Catalog interface {
	view.Catalog
	Diagnostics() *catalog.DiagnosticLog
}

// Options configures a Server.
type Options struct {
	RateLimit    float64
	RateBurst    int
	MaxClients   int
	TrustProxy   bool
	SessionTTL   time.Duration
	MaxSessions  int
	SecureCookie bool
	Logger       logr.Logger
}

// Server handles HTTP requests for the catalog browser.
type Server struct {
	catalog   Catalog
	sessions  *sessions
	log       logr.Logger
	rateLimit float64
	rateBurst int

	trustProxy  bool
	limiterIdle time.Duration
	limitersMu  sync.Mutex
	limiters    *cache.LRUExpireCache
}

// NewServer creates a new web server.
func NewServer(c Catalog, opts Options) *Server {
	maxClients := opts.MaxClients
	if maxClients < 1 {
		maxClients = defaultMaxClients
	}

	// An evicted limiter restarts with a full bucket; idle ones are kept at
	// least as long as a full refill takes.
	var refill time.Duration
	if opts.RateLimit > 0 {
		refill = time.Duration(float64(opts.RateBurst) / opts.RateLimit * float64(time.Second))
	}

	return &Server{
		catalog:     c,
		sessions:    newSessions(c, opts.MaxSessions, opts.SessionTTL, opts.SecureCookie),
		log:         opts.Logger.WithName("web"),
		rateLimit:   opts.RateLimit,
		rateBurst:   opts.RateBurst,
		trustProxy:  opts.TrustProxy,
		limiterIdle: max(minLimiterIdle, refill),
		limiters:    cache.NewLRUExpireCache(maxClients),
	}
}

// Handler returns the HTTP handler for the server.
//
//nolint:funlen // flat route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.HandleFunc("GET /api/i18n/{lang}", s.handleTable)
	mux.HandleFunc("GET /api/diagnostics", s.handleDiagnostics)

	mux.HandleFunc("GET /api/view", s.withState(s.handleView))
	mux.HandleFunc("POST /api/filters", s.withState(s.handleFilters))
	mux.HandleFunc("POST /api/filters/reset", s.withState(func(_ *http.Request, st *view.State) error {
		st.ResetFilters()

		return nil
	}))
	mux.HandleFunc("POST /api/page/next", s.withState(func(_ *http.Request, st *view.State) error {
		st.NextPage()

		return nil
	}))
	mux.HandleFunc("POST /api/page/prev", s.withState(func(_ *http.Request, st *view.State) error {
		st.PrevPage()

		return nil
	}))
	mux.HandleFunc("POST /api/page/{n}", s.withState(s.handlePage))
	mux.HandleFunc("POST /api/games/{id}/open", s.withState(func(r *http.Request, st *view.State) error {
		return st.OpenModal(r.PathValue("id"))
	}))
	mux.HandleFunc("POST /api/modal/close", s.withState(func(_ *http.Request, st *view.State) error {
		st.CloseModal()

		return nil
	}))
	mux.HandleFunc("POST /api/articles/{id}/open", s.withState(func(r *http.Request, st *view.State) error {
		return st.OpenArticle(r.PathValue("id"))
	}))
	mux.HandleFunc("POST /api/article/close", s.withState(func(_ *http.Request, st *view.State) error {
		st.CloseArticle()

		return nil
	}))
	mux.HandleFunc("POST /api/section/{name}", s.withState(s.handleSection))
	mux.HandleFunc("POST /api/lang/toggle", s.withState(func(_ *http.Request, st *view.State) error {
		return st.ToggleLanguage()
	}))
	mux.HandleFunc("POST /api/scroll", s.withState(s.handleScroll))

	return s.logMiddleware(s.rateLimitMiddleware(mux))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if s.catalog.Loading() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	table, err := i18n.Table(r.PathValue("lang"))
	if err != nil {
		s.writeError(w, r, i18n.DetectLanguage(r), notFound("err.unknownLang", err))

		return
	}

	writeJSON(w, http.StatusOK, table)
}

// diagnostics is the body of GET /api/diagnostics.
type diagnostics struct {
	Visible bool                      `json:"visible"`
	Entries []catalog.DiagnosticEntry `json:"entries"`
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	log := s.catalog.Diagnostics()

	writeJSON(w, http.StatusOK, diagnostics{Visible: log.Visible(), Entries: log.Entries()})
}

// stateHandler mutates a session's view state. The snapshot taken afterwards
// is the response.
type stateHandler func(r *http.Request, st *view.State) error

func (s *Server) withState(fn stateHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.acquire(w, r)
		defer sess.mu.Unlock()

		if err := fn(r, sess.state); err != nil {
			s.writeError(w, r, sess.state.Lang(), err)

			return
		}

		writeJSON(w, http.StatusOK, sess.state.Snapshot())
	}
}

func (s *Server) handleView(r *http.Request, st *view.State) error {
	raw := r.URL.Query().Get("viewport")
	if raw == "" {
		return nil
	}

	width, err := strconv.Atoi(raw)
	if err != nil || width < 0 {
		return badRequest("err.invalidBody", fmt.Errorf("viewport %q: %w", raw, errInvalidNumber))
	}

	st.SetViewportWidth(width)

	return nil
}

// filtersPatch is a partial update of the filter criteria. Absent fields keep
// their current value.
type filtersPatch struct {
	Search   *string `json:"search"`
	Platform *string `json:"platform"`
	Provider *string `json:"provider"`
	Genre    *string `json:"genre"`
}

func (s *Server) handleFilters(r *http.Request, st *view.State) error {
	var patch filtersPatch
	if err := decodeBody(r, &patch); err != nil {
		return err
	}

	c := st.Criteria()

	if patch.Search != nil {
		c.Search = *patch.Search
	}

	if patch.Platform != nil {
		c.Platform = *patch.Platform
	}

	if patch.Provider != nil {
		c.Provider = *patch.Provider
	}

	if patch.Genre != nil {
		c.Genre = *patch.Genre
	}

	st.SetCriteria(c)

	return nil
}

func (s *Server) handlePage(r *http.Request, st *view.State) error {
	raw := r.PathValue("n")

	n, err := strconv.Atoi(raw)
	if err != nil {
		return badRequest("err.invalidPage", fmt.Errorf("page %q: %w", raw, errInvalidNumber))
	}

	// Pages outside 1..TotalPages are ignored.
	st.GoToPage(n)

	return nil
}

func (s *Server) handleSection(r *http.Request, st *view.State) error {
	section, err := view.ParseSection(r.PathValue("name"))
	if err != nil {
		return badRequest("err.section", err)
	}

	st.SetSection(section)

	return nil
}

// scrollBody is the body of POST /api/scroll.
type scrollBody struct {
	Y int `json:"y"`
}

func (s *Server) handleScroll(r *http.Request, st *view.State) error {
	var body scrollBody
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	st.SetScrollY(body.Y)

	return nil
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return badRequest("err.invalidBody", fmt.Errorf("decode body: %w", err))
	}

	return nil
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := s.getClientIP(r)
		limiter := s.getLimiter(ip)

		if !limiter.Allow() {
			s.writeError(w, r, i18n.DetectLanguage(r), &httpError{
				status: http.StatusTooManyRequests,
				key:    "err.rateLimit",
				err:    fmt.Errorf("client %s: %w", ip, errRateLimited),
			})

			return
		}

		next.ServeHTTP(w, r)
	})
}

// getLimiter returns the limiter of a client. Limiters idle for longer than
// limiterIdle, and the least recently used ones beyond the client cap, are
// evicted.
func (s *Server) getLimiter(ip string) *rate.Limiter {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()

	var limiter *rate.Limiter

	if v, ok := s.limiters.Get(ip); ok {
		limiter, _ = v.(*rate.Limiter)
	}

	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(s.rateLimit), s.rateBurst)
	}

	s.limiters.Add(ip, limiter, s.limiterIdle)

	return limiter
}

// getClientIP returns the client address. Forwarding headers are honoured
// only when the server is configured to trust its proxy.
func (s *Server) getClientIP(r *http.Request) string {
	if s.trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")

			return strings.TrimSpace(first)
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		log := s.log.WithValues("method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(rec, r.WithContext(logf.IntoContext(r.Context(), log)))

		log.V(1).Info("Request served", "status", rec.status, "duration", time.Since(start).String())
	})
}

var (
	errInvalidNumber = errors.New("not a valid number")
	errRateLimited   = errors.New("rate limit exceeded")
)

// httpError carries the status code and message key a failure maps to.
type httpError struct {
	status int
	key    string
	err    error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }

func badRequest(key string, err error) error {
	return &httpError{status: http.StatusBadRequest, key: key, err: err}
}

func notFound(key string, err error) error {
	return &httpError{status: http.StatusNotFound, key: key, err: err}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, lang string, err error) {
	status, key := http.StatusInternalServerError, "err.serviceError"

	var he *httpError

	switch {
	case errors.As(err, &he):
		status, key = he.status, he.key
	case errors.Is(err, catalog.ErrNotFound):
		status, key = http.StatusNotFound, "err.notFound"
	}

	log := logf.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(err, "Request failed")
	} else {
		log.V(1).Info("Request rejected", "status", status, "reason", err.Error())
	}

	msg, terr := i18n.T(lang, key)
	if terr != nil {
		msg = http.StatusText(status)
	}

	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}
