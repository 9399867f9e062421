package handler

import (
	"net/http"

	"github.com/Rrens/support-chat/internal/api/response"
	"github.com/Rrens/support-chat/internal/service"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create starts a session; the body is optional
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateSessionInput
	if !decode(w, r, &input, true) {
		return
	}

	session, err := h.sessionService.Create(r.Context(), input)
	if err != nil {
		response.FromError(w, err, "failed to create session")
		return
	}

	response.Created(w, session)
}

// End closes a session; abandoned defaults to false
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"sessionId"`
		Abandoned bool   `json:"abandoned"`
	}
	if !decode(w, r, &req, false) {
		return
	}

	if err := h.sessionService.End(r.Context(), req.SessionID, req.Abandoned); err != nil {
		response.FromError(w, err, "failed to end session")
		return
	}

	response.OK(w, map[string]string{"message": "session ended"})
}

func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decode(w, r, &req, false) {
		return
	}

	if err := h.sessionService.Abandon(r.Context(), req.SessionID); err != nil {
		response.FromError(w, err, "failed to mark session as abandoned")
		return
	}

	response.OK(w, map[string]string{"message": "session abandoned"})
}

func (h *SessionHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decode(w, r, &req, false) {
		return
	}

	if err := h.sessionService.Resolve(r.Context(), req.SessionID); err != nil {
		response.FromError(w, err, "failed to resolve session")
		return
	}

	response.OK(w, map[string]string{"message": "session resolved"})
}

func (h *SessionHandler) NotResolved(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decode(w, r, &req, false) {
		return
	}

	if err := h.sessionService.NotResolved(r.Context(), req.SessionID); err != nil {
		response.FromError(w, err, "failed to reopen feedback")
		return
	}

	response.OK(w, map[string]string{"message": "feedback re-armed"})
}

// Check reports whether ?sessionId= exists and has expired
func (h *SessionHandler) Check(w http.ResponseWriter, r *http.Request) {
	check, err := h.sessionService.Check(r.Context(), r.URL.Query().Get("sessionId"))
	if err != nil {
		response.FromError(w, err, "failed to check session")
		return
	}

	response.OK(w, check)
}

func (h *SessionHandler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateTopicInput
	if !decode(w, r, &input, false) {
		return
	}

	if err := h.sessionService.UpdateTopic(r.Context(), input); err != nil {
		response.FromError(w, err, "failed to update topic")
		return
	}

	response.OK(w, map[string]string{"message": "topic updated"})
}
