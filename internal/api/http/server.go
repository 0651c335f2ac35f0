package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	appEventDetails "github.com/execution-hub/event-console/internal/application/eventdetails"
	appNotification "github.com/execution-hub/event-console/internal/application/notification"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	eventSvc        *appEventDetails.Service
	notificationSvc *appNotification.Service
	logger          zerolog.Logger

	// background workflow actions
	actions sync.WaitGroup
}

func NewServer(
	eventSvc *appEventDetails.Service,
	notificationSvc *appNotification.Service,
	logger zerolog.Logger,
) *Server {
	return &Server{
		eventSvc:        eventSvc,
		notificationSvc: notificationSvc,
		logger:          logger.With().Str("component", "httpapi").Logger(),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/v1", func(r chi.Router) {
		// the stream outlives any request timeout
		r.Get("/notifications/sse", s.sseEndpoint)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			r.Get("/notifications", s.listNotifications)

			r.Route("/events/{eventId}", func(r chi.Router) {
				r.Get("/state", s.getEventState)

				r.Get("/access", s.getAccess)
				r.Put("/access", s.saveAccess)
				r.Get("/active-transaction", s.getActiveTransaction)

				r.Route("/comments", func(r chi.Router) {
					r.Get("/", s.getComments)
					r.Post("/", s.createComment)
					r.Delete("/{commentId}", s.deleteComment)
					r.Post("/{commentId}/replies", s.createReply)
					r.Delete("/{commentId}/replies/{replyId}", s.deleteReply)
				})

				r.Route("/workflows", func(r chi.Router) {
					r.Get("/", s.getWorkflows)
					r.Put("/selection", s.selectWorkflow)
					r.Post("/{workflowId}/actions/{action}", s.performWorkflowAction)
				})
			})
		})
	})

	return r
}

// Wait blocks until background workflow actions have finished.
func (s *Server) Wait() {
	s.actions.Wait()
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"sse_clients": s.notificationSvc.ClientCount(),
	})
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := []string{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			offset = o
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
