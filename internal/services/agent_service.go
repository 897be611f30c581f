package services

import (
	"context"

	"consign-backend/internal/models"
)

type AgentStore interface {
	Create(ctx context.Context, a *models.Agent) error
	Get(ctx context.Context, id int) (*models.Agent, error)
	List(ctx context.Context) ([]*models.Agent, error)
	Update(ctx context.Context, a *models.Agent) error
	Delete(ctx context.Context, id int) error
}

type AgentService struct {
	Repo AgentStore
}

func NewAgentService(repo AgentStore) *AgentService {
	return &AgentService{Repo: repo}
}

func (s *AgentService) CreateAgent(ctx context.Context, req *models.AgentRequest) (*models.Agent, error) {
	agent := &models.Agent{
		Name:    req.Name,
		Contact: req.Contact,
	}
	if err := s.Repo.Create(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

func (s *AgentService) GetAgent(ctx context.Context, id int) (*models.Agent, error) {
	return s.Repo.Get(ctx, id)
}

func (s *AgentService) ListAgents(ctx context.Context) ([]*models.Agent, error) {
	return s.Repo.List(ctx)
}

func (s *AgentService) UpdateAgent(ctx context.Context, id int, req *models.AgentRequest) (*models.Agent, error) {
	agent := &models.Agent{
		ID:      id,
		Name:    req.Name,
		Contact: req.Contact,
	}
	if err := s.Repo.Update(ctx, agent); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

// DeleteAgent fails with a Conflict while the agent still has a case in the
// field.
func (s *AgentService) DeleteAgent(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
