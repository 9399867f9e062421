package handler

import (
	"net/http"

	"github.com/Rrens/support-chat/internal/api/response"
	"github.com/Rrens/support-chat/internal/service"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// UserMessage ingests a user turn and answers with the feedback decision
func (h *ChatHandler) UserMessage(w http.ResponseWriter, r *http.Request) {
	var input service.UserMessageInput
	if !decode(w, r, &input, false) {
		return
	}

	decision, err := h.chatService.HandleUserMessage(r.Context(), input)
	if err != nil {
		response.FromError(w, err, "failed to process message")
		return
	}

	response.OK(w, decision)
}

// AssistantMessage stores an assistant reply
func (h *ChatHandler) AssistantMessage(w http.ResponseWriter, r *http.Request) {
	var input service.AssistantMessageInput
	if !decode(w, r, &input, false) {
		return
	}

	msg, err := h.chatService.RecordAssistantMessage(r.Context(), input)
	if err != nil {
		response.FromError(w, err, "failed to save message")
		return
	}

	response.Created(w, msg)
}
