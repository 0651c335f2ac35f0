package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/execution-hub/event-console/internal/domain/acl"
	"github.com/execution-hub/event-console/internal/domain/eventdetails"
	"github.com/execution-hub/event-console/internal/domain/workflow"
)

type saveAccessRequest struct {
	Policies []acl.Policy `json:"policies"`
}

type commentRequest struct {
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

type replyRequest struct {
	Text     string `json:"text"`
	Resolved bool   `json:"resolved"`
}

type selectWorkflowRequest struct {
	WorkflowID string `json:"workflowId"`
	Save       bool   `json:"save"`
}

// respondState writes the event state, with 502 when the slice just
// loaded failed upstream.
func respondState(w http.ResponseWriter, st eventdetails.State, slice eventdetails.Status) {
	status := http.StatusOK
	if slice == eventdetails.StatusFailed {
		status = http.StatusBadGateway
	}
	respondJSON(w, status, st)
}

func respondUpstream(w http.ResponseWriter, ok bool, success int, v interface{}) {
	if !ok {
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "admin API request failed")
		return
	}
	if v == nil {
		w.WriteHeader(success)
		return
	}
	respondJSON(w, success, v)
}

func (s *Server) getEventState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.eventSvc.State(chi.URLParam(r, "eventId")))
}

// Access handlers
func (s *Server) getAccess(w http.ResponseWriter, r *http.Request) {
	st := s.eventSvc.FetchAccessPolicies(r.Context(), chi.URLParam(r, "eventId"))
	respondState(w, st, st.PoliciesStatus)
}

func (s *Server) saveAccess(w http.ResponseWriter, r *http.Request) {
	var req saveAccessRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	out := s.eventSvc.SaveAccessPolicies(r.Context(), chi.URLParam(r, "eventId"), req.Policies)
	status := http.StatusOK
	if !out.OK {
		status = http.StatusBadGateway
	}
	respondJSON(w, status, out)
}

func (s *Server) getActiveTransaction(w http.ResponseWriter, r *http.Request) {
	active := s.eventSvc.FetchHasActiveTransactions(r.Context(), chi.URLParam(r, "eventId"))
	if active == nil {
		respondUpstream(w, false, 0, nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"hasActiveTransactions": *active})
}

// Comment handlers
func (s *Server) getComments(w http.ResponseWriter, r *http.Request) {
	st := s.eventSvc.FetchComments(r.Context(), chi.URLParam(r, "eventId"))
	respondState(w, st, st.CommentsStatus)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "text required")
		return
	}
	ok := s.eventSvc.SaveComment(r.Context(), chi.URLParam(r, "eventId"), req.Text, req.Reason)
	respondUpstream(w, ok, http.StatusCreated, map[string]bool{"ok": true})
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	ok := s.eventSvc.DeleteComment(r.Context(), chi.URLParam(r, "eventId"), chi.URLParam(r, "commentId"))
	respondUpstream(w, ok, http.StatusNoContent, nil)
}

func (s *Server) createReply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "text required")
		return
	}
	ok := s.eventSvc.SaveCommentReply(r.Context(), chi.URLParam(r, "eventId"), chi.URLParam(r, "commentId"), req.Text, req.Resolved)
	respondUpstream(w, ok, http.StatusCreated, map[string]bool{"ok": true})
}

func (s *Server) deleteReply(w http.ResponseWriter, r *http.Request) {
	ok := s.eventSvc.DeleteCommentReply(r.Context(), chi.URLParam(r, "eventId"), chi.URLParam(r, "commentId"), chi.URLParam(r, "replyId"))
	respondUpstream(w, ok, http.StatusNoContent, nil)
}

// Workflow handlers
func (s *Server) getWorkflows(w http.ResponseWriter, r *http.Request) {
	st := s.eventSvc.FetchWorkflows(r.Context(), chi.URLParam(r, "eventId"))
	respondState(w, st, st.WorkflowsStatus)
}

func (s *Server) selectWorkflow(w http.ResponseWriter, r *http.Request) {
	var req selectWorkflowRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	st, err := s.eventSvc.UpdateWorkflow(r.Context(), chi.URLParam(r, "eventId"), req.Save, req.WorkflowID)
	switch {
	case errors.Is(err, workflow.ErrUnknownDefinition):
		respondError(w, http.StatusNotFound, "UNKNOWN_WORKFLOW", err.Error())
	case errors.Is(err, workflow.ErrNotConfigurable):
		respondError(w, http.StatusConflict, "NOT_CONFIGURABLE", err.Error())
	case errors.Is(err, workflow.ErrWorkflowConfigNotImplemented):
		respondError(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	default:
		respondJSON(w, http.StatusOK, st)
	}
}

// performWorkflowAction accepts the action and runs it in the background.
// Its result arrives as a notification.
func (s *Server) performWorkflowAction(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	workflowID := chi.URLParam(r, "workflowId")
	action := chi.URLParam(r, "action")

	ctx := context.WithoutCancel(r.Context())
	s.actions.Add(1)
	go func() {
		defer s.actions.Done()
		s.eventSvc.PerformWorkflowAction(ctx, eventID, workflowID, action, func() {
			s.logger.Warn().
				Str("event_id", eventID).
				Str("workflow_id", workflowID).
				Str("action", action).
				Msg("workflow action rejected")
		})
	}()

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"eventId":    eventID,
		"workflowId": workflowID,
		"action":     action,
		"status":     "ACCEPTED",
	})
}
