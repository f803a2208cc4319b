// Package server exposes a template store over HTTP so several editors can
// share templates.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"careermatrix/errs"
	"careermatrix/logger"
	"careermatrix/matrix"
	"careermatrix/store"
	"careermatrix/validation"
)

const maxBodySize = 4 << 20 // 4 MiB

// Options configures a Server.
type Options struct {
	// SaveRatePerMinute limits matrix saves per client IP. Zero disables
	// the limit.
	SaveRatePerMinute int
	Logger            *slog.Logger
}

// Server is the template HTTP API.
type Server struct {
	mux       *http.ServeMux
	store     store.Store
	sse       *Broadcaster
	saveRL    *rateLimiter
	validator *validation.TemplateValidator
	log       *slog.Logger
}

// New creates a configured HTTP server.
func New(st store.Store, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("server")
	}
	s := &Server{
		mux:       http.NewServeMux(),
		store:     st,
		sse:       NewBroadcaster(),
		validator: validation.NewTemplateValidator(),
		log:       log,
	}
	if opts.SaveRatePerMinute > 0 {
		s.saveRL = newRateLimiter(opts.SaveRatePerMinute, time.Minute)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	s.mux.HandleFunc("POST /api/templates", s.handleCreateTemplate)
	s.mux.HandleFunc("GET /api/templates/{id}", s.handleGetTemplate)
	s.mux.HandleFunc("PUT /api/templates/{id}/matrix", s.handleSaveMatrix)
	s.mux.HandleFunc("GET /api/templates/{id}/events", s.handleEvents)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Broadcaster returns the server's event fan-out.
func (s *Server) Broadcaster() *Broadcaster {
	return s.sse
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'none'")
	s.mux.ServeHTTP(w, r)
}

// GET /api/templates: list template metadata.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

// POST /api/templates: create an empty template.
func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req store.CreateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		jsonError(w, "field 'name' is required", http.StatusBadRequest)
		return
	}
	axes := matrix.DefaultAxes()
	if req.Axes != nil {
		axes = *req.Axes
	}
	if axes.Empty() {
		jsonError(w, "axes need at least one position and one level", http.StatusBadRequest)
		return
	}

	id, err := s.store.Create(r.Context(), req.TemplateInfo, axes)
	if err != nil {
		s.storeError(w, err)
		return
	}
	t, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.log.Info("template created", "id", id, "name", t.Name)
	writeJSON(w, http.StatusCreated, t)
}

// GET /api/templates/{id}: fetch one template.
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// PUT /api/templates/{id}/matrix: replace the axes and matrix.
func (s *Server) handleSaveMatrix(w http.ResponseWriter, r *http.Request) {
	if !s.saveRL.allow(clientKey(r.RemoteAddr)) {
		jsonError(w, "too many saves, try again later", http.StatusTooManyRequests)
		return
	}

	id := r.PathValue("id")
	var req store.SaveRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	candidate := &matrix.Template{TemplateInfo: matrix.TemplateInfo{ID: id}, Axes: req.Axes, Snapshot: req.Matrix}
	if report := s.validator.Validate(candidate); report.HasErrors() {
		for _, f := range report.Findings {
			if f.Severity == validation.Error {
				jsonError(w, f.String(), http.StatusBadRequest)
				return
			}
		}
	}

	rev, err := s.store.Save(r.Context(), id, req.Axes, req.Matrix)
	if err != nil {
		s.storeError(w, err)
		return
	}

	ev, _ := json.Marshal(store.SaveEvent{TemplateID: id, Revision: rev})
	s.sse.Broadcast(id, string(ev))
	s.log.Info("matrix saved", "id", id, "revision", rev,
		"cells", len(req.Matrix.Cells), "arrows", len(req.Matrix.Arrows), "client", clientKey(r.RemoteAddr))
	writeJSON(w, http.StatusOK, store.SaveResponse{Revision: rev})
}

// GET /api/templates/{id}/events: SSE stream of saves.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.Load(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	s.sse.ServeSSE(w, r, id)
}

// storeError maps store errors to HTTP statuses.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch errs.GetKind(err) {
	case errs.KindNotFound:
		jsonError(w, "template not found", http.StatusNotFound)
	case errs.KindInvalid:
		jsonError(w, errorMessage(err), http.StatusBadRequest)
	default:
		s.log.Error("store failure", "error", err)
		jsonError(w, "storage failure", http.StatusInternalServerError)
	}
}

// errorMessage returns the innermost message of an errs.Error.
func errorMessage(err error) string {
	var e *errs.Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, store.ErrorResponse{Error: msg})
}
