// Package chi is the HTTP transport: route registration, request decoding
// and the domain-error to status-code mapping.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
	"github.com/nebulabyte/scout/internal/ingest"
	askuc "github.com/nebulabyte/scout/internal/usecase/ask"
	healthuc "github.com/nebulabyte/scout/internal/usecase/health"
)

// maxUploadBytes caps document uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// TraceReader exposes recorded traces to the API.
type TraceReader interface {
	ReadAll() []domain.TraceEntry
	ReadOne(id string) (domain.TraceEntry, error)
}

// Ingestor indexes uploaded document text.
type Ingestor interface {
	IngestText(ctx context.Context, source, text string) (int, error)
}

// Asker answers queries.
type Asker interface {
	Ask(ctx context.Context, clientID, query string) (askuc.Result, error)
}

// Server holds the HTTP handlers.
type Server struct {
	ask           Asker
	ingestor      Ingestor
	traces        TraceReader
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ask Asker,
	ingestor Ingestor,
	traces TraceReader,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ask:      ask,
		ingestor: ingestor,
		traces:   traces,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, "empty_query"),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, "not_found"),
		sentinelHandler(domain.ErrUploadTooLarge, http.StatusRequestEntityTooLarge, "upload_too_large"),
		sentinelHandler(domain.ErrUnsupportedFileType, http.StatusUnsupportedMediaType, "unsupported_file_type"),
		sentinelHandler(domain.ErrNoText, http.StatusUnprocessableEntity, "no_extractable_text"),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"),
	}
	return s
}

// Routes registers all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ask", s.Ask)
		r.Post("/documents", s.UploadDocument)
		r.Get("/traces", s.ListTraces)
		r.Get("/traces/{id}", s.GetTrace)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Answer     string              `json:"answer"`
	AgentsUsed []domain.AgentLabel `json:"agents_used"`
	Rationale  string              `json:"rationale"`
	TraceID    string              `json:"trace_id"`
}

// Ask handles POST /api/v1/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	res, err := s.ask.Ask(r.Context(), clientID(r), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:     res.Answer,
		AgentsUsed: res.AgentsUsed,
		Rationale:  res.Rationale,
		TraceID:    res.TraceID,
	})
}

type uploadResponse struct {
	Status string `json:"status"`
	FileID string `json:"file_id"`
	Chunks int    `json:"chunks"`
}

// UploadDocument handles POST /api/v1/documents. Accepts a multipart form
// with a "file" field, or a raw PDF/plain-text body.
func (s *Server) UploadDocument(w http.ResponseWriter, r *http.Request) {
	name, data, err := readUpload(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	text, err := extractText(name, data)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	chunks, err := s.ingestor.IngestText(r.Context(), name, text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		Status: "ingested",
		FileID: name,
		Chunks: chunks,
	})
}

// ListTraces handles GET /api/v1/traces.
func (s *Server) ListTraces(w http.ResponseWriter, r *http.Request) {
	entries := s.traces.ReadAll()
	writeJSON(w, http.StatusOK, map[string]any{
		"items": entries,
		"total": len(entries),
	})
}

// GetTrace handles GET /api/v1/traces/{id}.
func (s *Server) GetTrace(w http.ResponseWriter, r *http.Request) {
	entry, err := s.traces.ReadOne(chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HealthCheck handles GET /health. A degraded report still returns 200: the
// service answers queries with placeholders in every degraded state.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         report.Status,
		"checks":         report.Checks,
		"indexed_chunks": report.IndexedChunks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// readUpload extracts the file name and bytes from either a multipart form
// or a raw request body.
func readUpload(r *http.Request) (string, []byte, error) {
	mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err != nil {
				return "", nil, domain.ErrNoText
			}
			if part.FormName() != "file" {
				continue
			}
			data, err := ingest.ReadAllLimited(part, maxUploadBytes)
			if err != nil {
				return "", nil, err
			}
			name := part.FileName()
			if name == "" {
				name = "upload"
			}
			return name, data, nil
		}
	}

	switch mediaType {
	case "application/pdf":
		data, err := ingest.ReadAllLimited(r.Body, maxUploadBytes)
		return "upload.pdf", data, err
	case "text/plain":
		data, err := ingest.ReadAllLimited(r.Body, maxUploadBytes)
		return "upload.txt", data, err
	default:
		return "", nil, domain.ErrUnsupportedFileType
	}
}

// extractText picks the extraction path from the file name.
func extractText(name string, data []byte) (string, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".pdf"):
		return ingest.ExtractPDFText(data)
	case strings.HasSuffix(strings.ToLower(name), ".txt"),
		strings.HasSuffix(strings.ToLower(name), ".md"):
		return string(data), nil
	default:
		return "", domain.ErrUnsupportedFileType
	}
}

// clientID identifies the caller for trace attribution. Best effort: the
// remote host, falling back to the raw RemoteAddr.
func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrNotFound,
		domain.ErrUploadTooLarge,
		domain.ErrUnsupportedFileType,
		domain.ErrNoText,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
