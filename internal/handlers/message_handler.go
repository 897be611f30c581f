package handlers

import (
	"net/http"

	"consign-backend/internal/models"
	"consign-backend/internal/services"
	"consign-backend/internal/validators"
	"consign-backend/pkg/utils"
)

type MessageHandler struct {
	Service *services.NotificationService
}

func NewMessageHandler(s *services.NotificationService) *MessageHandler {
	return &MessageHandler{Service: s}
}

// SendMessage handles POST /api/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.MessageRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	preview, err := h.Service.SendMessage(r.Context(), &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, preview)
}
