package http

import (
	"context"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/graph"
	"github.com/aretw0/aura/pkg/observability"
	"github.com/aretw0/aura/pkg/stream"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodySize bounds request bodies before they are decoded.
const maxBodySize = 1 << 20

// Agent defines what the transport needs from the agent core.
type Agent interface {
	Ask(ctx context.Context, req domain.AgentRequest) (domain.AgentResponse, error)
	Stream(ctx context.Context, req domain.AgentRequest) (iter.Seq[domain.AgentResponse], error)
	Graph() *graph.Graph
}

// Info describes the service in GET /server/info.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	APIVersion  string `json:"api_version"`
}

// Server holds the HTTP handlers of the agent.
type Server struct {
	Agent   Agent
	Info    Info
	Logger  *slog.Logger
	Metrics *observability.Metrics

	spec *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithInfo sets the service description.
func WithInfo(info Info) Option {
	return func(s *Server) {
		s.Info = info
	}
}

// WithMetrics counts frames and exposes GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// NewHandler creates the HTTP handler for agent.
func NewHandler(agent Agent, opts ...Option) (http.Handler, error) {
	spec, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Agent:  agent,
		Info:   Info{Name: "Aura"},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		spec:   spec,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Info.APIVersion == "" && spec.Info != nil {
		s.Info.APIVersion = spec.Info.Version
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(rawSpec)
	})

	r.Route("/server", func(r chi.Router) {
		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
	})

	r.Route("/aura", func(r chi.Router) {
		r.Post("/", s.Ask)
		r.Post("/stream", s.Stream)
		r.Get("/graph", s.GetGraph)
	})

	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}

	return r, nil
}

// GetHealth handles GET /server/health.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// GetInfo handles GET /server/info.
func (s *Server) GetInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Info)
}

// GetGraph handles GET /aura/graph.
func (s *Server) GetGraph(w http.ResponseWriter, _ *http.Request) {
	g := s.Agent.Graph()
	writeJSON(w, http.StatusOK, map[string]any{
		"entry":   g.Entry(),
		"nodes":   g.Nodes(),
		"path":    g.Path(),
		"mermaid": g.Mermaid(),
	})
}

// Ask handles POST /aura/ (blocking answer).
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	resp, err := s.Agent.Ask(r.Context(), req)
	if err != nil {
		if domain.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.Logger.Error("ask failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Stream handles POST /aura/stream (Server-Sent Events).
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("Stream: Streaming not supported")
		return
	}

	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	// The request context is cancelled when the client disconnects, which stops the run.
	frames, err := s.Agent.Stream(r.Context(), req)
	if err != nil {
		if domain.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.Logger.Error("stream failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	reqID := middleware.GetReqID(r.Context())
	for frame := range frames {
		if err := stream.WriteSSE(w, frame); err != nil {
			s.Logger.Info("SSE client disconnected", "request_id", reqID, "error", err)
			return
		}
		flusher.Flush()
		if s.Metrics != nil {
			s.Metrics.ObserveFrame(frame)
		}
	}
}

// decode reads the body, validates it against the AgentRequest schema and decodes it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (domain.AgentRequest, bool) {
	var req domain.AgentRequest

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.Logger.Warn("Invalid request body", "error", err)
		return req, false
	}

	if err := validateBody(s.spec, "AgentRequest", body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		s.Logger.Warn("Request rejected by schema", "error", err)
		return req, false
	}

	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	return req, true
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Info("http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
