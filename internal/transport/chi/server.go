// Package chi is the HTTP transport for the question-answering API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/benji-blog/benji/internal/domain"
	"github.com/benji-blog/benji/internal/domain/post"
	"github.com/benji-blog/benji/internal/logger"
	"github.com/benji-blog/benji/internal/metrics"
	askuc "github.com/benji-blog/benji/internal/usecase/ask"
)

const defaultAnswerTokens = 1000

// Asker answers a question with ranked post context.
type Asker interface {
	Ask(ctx context.Context, question string, maxTokens int) (askuc.Result, error)
}

// Pinger checks backing-store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves /ask, /healthz, and /metrics.
type Server struct {
	ask    Asker
	pinger Pinger
	logger *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(ask Asker, pinger Pinger, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{ask: ask, pinger: pinger, logger: logger}
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(s.logContext)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ask", s.handleAskGet)
	r.Post("/ask", s.handleAskPost)
	return r
}

type askRequest struct {
	Question string `json:"question"`
	Tokens   int    `json:"tokens"`
}

type askResponse struct {
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Posts    []post.Small `json:"posts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAskGet(w http.ResponseWriter, r *http.Request) {
	question := r.URL.Query().Get("question")
	tokens := defaultAnswerTokens
	if raw := r.URL.Query().Get("tokens"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "tokens must be an integer"})
			return
		}
		tokens = parsed
	}
	s.answer(w, r, question, tokens)
}

func (s *Server) handleAskPost(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Tokens <= 0 {
		req.Tokens = defaultAnswerTokens
	}
	s.answer(w, r, req.Question, req.Tokens)
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request, question string, tokens int) {
	if question == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}

	result, err := s.ask.Ask(r.Context(), question, tokens)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	small := make([]post.Small, len(result.Posts))
	for i, p := range result.Posts {
		small[i] = p.Small()
	}
	writeJSON(w, http.StatusOK, askResponse{
		Question: result.Question,
		Answer:   result.Answer,
		Posts:    small,
	})
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrTooManyTerms):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrPostNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// logContext attaches a request-scoped logger carrying the request id.
func (s *Server) logContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := s.logger.With(zap.String("request_id", chimiddleware.GetReqID(r.Context())))
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), l)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
