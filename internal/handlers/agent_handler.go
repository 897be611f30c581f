package handlers

import (
	"net/http"

	"consign-backend/internal/models"
	"consign-backend/internal/services"
	"consign-backend/internal/validators"
	"consign-backend/pkg/utils"
)

type AgentHandler struct {
	Service *services.AgentService
}

func NewAgentHandler(s *services.AgentService) *AgentHandler {
	return &AgentHandler{Service: s}
}

func (h *AgentHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.Service.ListAgents(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, agents)
}

func (h *AgentHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req models.AgentRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	agent, err := h.Service.CreateAgent(r.Context(), &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, agent)
}

func (h *AgentHandler) GetAgent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	agent, err := h.Service.GetAgent(r.Context(), id)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, agent)
}

func (h *AgentHandler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	var req models.AgentRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	agent, err := h.Service.UpdateAgent(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, agent)
}

// DeleteAgent answers 409 while the agent has a case in the field.
func (h *AgentHandler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	if err := h.Service.DeleteAgent(r.Context(), id); err != nil {
		utils.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
