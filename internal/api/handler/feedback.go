package handler

import (
	"net/http"

	"github.com/Rrens/support-chat/internal/api/response"
	"github.com/Rrens/support-chat/internal/service"
)

type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input service.FeedbackInput
	if !decode(w, r, &input, false) {
		return
	}

	fb, err := h.feedbackService.SubmitFeedback(r.Context(), input)
	if err != nil {
		response.FromError(w, err, "failed to save feedback")
		return
	}

	response.Created(w, fb)
}

// Vote upserts an up/down rating
func (h *FeedbackHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var input service.VoteInput
	if !decode(w, r, &input, false) {
		return
	}

	vote, err := h.feedbackService.Vote(r.Context(), input)
	if err != nil {
		response.FromError(w, err, "failed to save vote")
		return
	}

	response.OK(w, vote)
}

// ListVotes returns the votes of ?chatId=
func (h *FeedbackHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.feedbackService.ListVotes(r.Context(), r.URL.Query().Get("chatId"))
	if err != nil {
		response.FromError(w, err, "failed to get votes")
		return
	}

	response.OK(w, votes)
}

func (h *FeedbackHandler) TrackInteraction(w http.ResponseWriter, r *http.Request) {
	var input service.InteractionInput
	if !decode(w, r, &input, false) {
		return
	}

	interaction, err := h.feedbackService.TrackInteraction(r.Context(), input)
	if err != nil {
		response.FromError(w, err, "failed to track interaction")
		return
	}

	response.Created(w, interaction)
}
