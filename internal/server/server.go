// Package server exposes the extraction and merge engine over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/stratevo/lead-engine/internal/lead"
	"github.com/stratevo/lead-engine/internal/merge"
	"github.com/stratevo/lead-engine/internal/pipeline"
	"github.com/stratevo/lead-engine/internal/store"
)

// Server handles HTTP requests for lead extraction and merging.
type Server struct {
	pipeline *pipeline.Pipeline
	store    store.Store // nil when persistence is disabled
	limiter  *rate.Limiter
}

// New builds a Server. requestsPerSec throttles all endpoints except
// the health check.
func New(p *pipeline.Pipeline, s store.Store, requestsPerSec float64) *Server {
	if requestsPerSec <= 0 {
		requestsPerSec = 20
	}
	return &Server{
		pipeline: p,
		store:    s,
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSec), int(requestsPerSec)),
	}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.throttle)
		r.Post("/v1/extract", s.handleExtract)
		r.Post("/v1/merge", s.handleMerge)
		r.Get("/v1/leads", s.handleListLeads)
		r.Get("/v1/leads/{id}", s.handleGetLead)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type extractRequest struct {
	TenantID string `json:"tenantId"`
	Text     string `json:"text"`
}

// handleExtract runs the full pipeline for one conversation text.
// Records that fail the essential-data gate come back as 422 with the
// partial extraction attached, so callers can still inspect it.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := s.pipeline.Process(r.Context(), req.TenantID, req.Text)
	if err != nil {
		zap.L().Error("server: extract failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "extraction failed")
		return
	}

	status := http.StatusOK
	if !result.Essential {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

type mergeRequest struct {
	Primary *lead.LeadB2B `json:"primary"`
	Backup  *lead.LeadB2B `json:"backup"`
}

type mergeResponse struct {
	Merged     *lead.LeadB2B  `json:"merged"`
	Essential  bool           `json:"essential"`
	HasNewData bool           `json:"hasNewData"`
	Changes    map[string]any `json:"changes"`
}

// handleMerge exposes the pure merge engine: primary wins per field,
// backup fills gaps. hasNewData and changes treat backup as the
// previously stored record.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	merged := merge.Merge(req.Primary, req.Backup)
	writeJSON(w, http.StatusOK, mergeResponse{
		Merged:     merged,
		Essential:  merge.HasEssentialData(merged),
		HasNewData: merge.HasNewData(req.Primary, req.Backup),
		Changes:    merge.Diff(merged, req.Backup),
	})
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "persistence is disabled")
		return
	}
	leads, err := s.store.ListLeads(r.Context(), store.LeadFilter{
		TenantID: r.URL.Query().Get("tenant"),
	})
	if err != nil {
		zap.L().Error("server: list leads failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if leads == nil {
		leads = []store.StoredLead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "persistence is disabled")
		return
	}
	found, err := s.store.GetLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		zap.L().Error("server: get lead failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if found == nil {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
