// Package server exposes the comparison engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rgehrsitz/comparatrib/internal/calculation"
	"github.com/rgehrsitz/comparatrib/internal/compare"
	"github.com/rgehrsitz/comparatrib/internal/config"
	"github.com/rgehrsitz/comparatrib/internal/domain"
)

// Server wraps the HTTP listener and its handlers
type Server struct {
	engine     *calculation.Engine
	comparator *compare.Comparator
	parser     *config.InputParser
	metrics    *Metrics
	log        *slog.Logger
	srv        *http.Server
}

// New creates a server on addr; metrics are served only when exposeMetrics is set
func New(addr string, engine *calculation.Engine, exposeMetrics bool, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		engine:     engine,
		comparator: compare.NewComparator(engine),
		parser:     config.NewInputParser(),
		metrics:    NewMetrics(),
		log:        log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if exposeMetrics {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}
	s.handle(mux, "POST /api/compare", s.compare)
	s.handle(mux, "POST /api/regimes/{regime}", s.calculate)
	s.handle(mux, "GET /api/activities", s.activities)
	s.handle(mux, "GET /api/tables/simples", s.simplesTables)

	s.srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	return s
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start blocks serving until Shutdown; http.ErrServerClosed is not an error
func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains open connections
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// statusRecorder captures the status code for the duration histogram
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		elapsed := time.Since(start)
		s.metrics.Duration.WithLabelValues(pattern, strconv.Itoa(rec.code)).Observe(elapsed.Seconds())
		s.log.Debug("request", "route", pattern, "code", rec.code, "elapsed", elapsed)
	})
}

func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (domain.CalculationInput, bool) {
	var input domain.CalculationInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "bad_request"})
		return input, false
	}
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unexpected additional JSON content", Kind: "bad_request"})
		return input, false
	}
	if err := s.parser.ValidateInput(&input); err != nil {
		s.fail(w, err)
		return input, false
	}
	return input, true
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	input, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	opts := compare.Options{}
	if v := r.URL.Query().Get("exclude_ineligible"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "exclude_ineligible must be a boolean", Kind: "bad_request"})
			return
		}
		opts.ExcludeIneligible = b
	}

	result, err := s.comparator.Compare(r.Context(), input, opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.metrics.Comparisons.WithLabelValues(string(result.BestOption)).Inc()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) calculate(w http.ResponseWriter, r *http.Request) {
	regime, err := domain.ParseRegime(r.PathValue("regime"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Kind: "unknown_regime"})
		return
	}
	input, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	result, err := s.engine.Calculate(regime, input)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) activities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Registry.ByCategory())
}

func (s *Server) simplesTables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Tables)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// fail maps domain errors to 422 and anything else to 500
func (s *Server) fail(w http.ResponseWriter, err error) {
	kind := domain.ErrorKind(err)
	s.metrics.Errors.WithLabelValues(kind).Inc()
	if kind == "internal" {
		s.log.Error("calculation failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), Kind: kind})
		return
	}
	s.log.Info("input rejected", "kind", kind, "err", err)
	writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
