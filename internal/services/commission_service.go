package services

import (
	"context"
	"strings"

	"consign-backend/internal/apperr"
	"consign-backend/internal/commission"
	"consign-backend/internal/models"

	"github.com/shopspring/decimal"
)

type ManualCommissionStore interface {
	Create(ctx context.Context, m *models.ManualCommission) error
	List(ctx context.Context) ([]*models.ManualCommission, error)
	Delete(ctx context.Context, id int) error
}

type CommissionService struct {
	Repo   ManualCommissionStore
	Agents AgentStore
}

func NewCommissionService(repo ManualCommissionStore, agents AgentStore) *CommissionService {
	return &CommissionService{Repo: repo, Agents: agents}
}

// Calculate quotes the tiered commission for a sales total.
func (s *CommissionService) Calculate(total decimal.Decimal) (commission.Quote, error) {
	if total.IsNegative() {
		return commission.Quote{}, apperr.Validation("total must not be negative")
	}
	return commission.Calculate(total), nil
}

func (s *CommissionService) CreateManual(ctx context.Context, req *models.ManualCommissionRequest) (*models.ManualCommission, error) {
	if req.Price == nil || req.Price.IsNegative() {
		return nil, apperr.Validation("price must not be negative")
	}
	if req.CommissionValue == nil || req.CommissionValue.IsNegative() {
		return nil, apperr.Validation("commission_value must not be negative")
	}

	agent, err := s.Agents.Get(ctx, req.AgentID)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.Validation("agent %d does not exist", req.AgentID)
		}
		return nil, err
	}

	m := &models.ManualCommission{
		AgentID:         &agent.ID,
		AgentName:       agent.Name,
		ProductName:     strings.TrimSpace(req.ProductName),
		Price:           req.Price.Round(2),
		CommissionValue: req.CommissionValue.Round(2),
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CommissionService) ListManual(ctx context.Context) ([]*models.ManualCommission, error) {
	return s.Repo.List(ctx)
}

func (s *CommissionService) DeleteManual(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
