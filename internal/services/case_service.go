package services

import (
	"context"
	"strings"

	"consign-backend/internal/apperr"
	"consign-backend/internal/metrics"
	"consign-backend/internal/models"
	"consign-backend/internal/storage"
	"consign-backend/internal/timeutil"
)

type CaseStore interface {
	Create(ctx context.Context, c *models.Case, items []models.CaseItem) error
	Update(ctx context.Context, c *models.Case, items *[]models.CaseItem) error
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*models.Case, error)
	List(ctx context.Context) ([]*models.Case, error)
}

type LogStore interface {
	AppendToCase(ctx context.Context, caseID int, action, details string) (*models.LogEntry, error)
	ListByCase(ctx context.Context, caseID int) ([]*models.LogEntry, error)
	List(ctx context.Context, limit int) ([]*models.LogEntry, error)
}

type CaseService struct {
	Repo     CaseStore
	Products ProductStore
	Agents   AgentStore
	Logs     LogStore
	Photos   storage.Store
}

func NewCaseService(repo CaseStore, products ProductStore, agents AgentStore, logs LogStore, photos storage.Store) *CaseService {
	return &CaseService{
		Repo:     repo,
		Products: products,
		Agents:   agents,
		Logs:     logs,
		Photos:   photos,
	}
}

// CreateCase assigns a new kit. Items without a price take the current catalog
// price; the case goes straight to the field when an agent is given.
func (s *CaseService) CreateCase(ctx context.Context, req *models.CreateCaseRequest) (*models.Case, error) {
	if err := s.checkAgent(ctx, req.AgentID); err != nil {
		return nil, err
	}

	items, err := s.buildItems(ctx, req.Items, false)
	if err != nil {
		return nil, err
	}

	photo, err := s.Photos.SavePhoto(ctx, "cases", req.Photo)
	if err != nil {
		return nil, apperr.AdapterFailure("photo storage", err)
	}

	now := timeutil.Now()
	c := &models.Case{
		Name:         strings.TrimSpace(req.Name),
		AgentID:      req.AgentID,
		Photo:        photo,
		DeliveryDate: now,
		ReturnDate:   timeutil.ReturnDate(now, models.ConsignmentDays),
		Status:       models.CaseIdle,
	}
	if req.AgentID != nil {
		c.Status = models.CaseInField
	}

	if err := s.Repo.Create(ctx, c, items); err != nil {
		return nil, err
	}
	metrics.CaseMutationsTotal.WithLabelValues("create").Inc()

	return s.Repo.Get(ctx, c.ID)
}

// UpdateCase overwrites the scalar fields and, when req.Items is set, replaces
// every line item.
func (s *CaseService) UpdateCase(ctx context.Context, id int, req *models.UpdateCaseRequest) (*models.Case, error) {
	if !req.Status.Valid() {
		return nil, apperr.Validation("unknown status %q", req.Status)
	}

	current, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAgent(ctx, req.AgentID); err != nil {
		return nil, err
	}

	var items *[]models.CaseItem
	if req.Items != nil {
		built, err := s.buildItems(ctx, *req.Items, true)
		if err != nil {
			return nil, err
		}
		items = &built
	}

	photo := current.Photo
	if req.Photo != nil {
		if photo, err = s.Photos.SavePhoto(ctx, "cases", *req.Photo); err != nil {
			return nil, apperr.AdapterFailure("photo storage", err)
		}
	}

	c := &models.Case{
		ID:      id,
		Name:    strings.TrimSpace(req.Name),
		AgentID: req.AgentID,
		Status:  req.Status,
		Photo:   photo,
	}
	if err := s.Repo.Update(ctx, c, items); err != nil {
		return nil, err
	}
	metrics.CaseMutationsTotal.WithLabelValues("update").Inc()

	return s.Repo.Get(ctx, id)
}

func (s *CaseService) DeleteCase(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.CaseMutationsTotal.WithLabelValues("delete").Inc()
	return nil
}

func (s *CaseService) GetCase(ctx context.Context, id int) (*models.Case, error) {
	return s.Repo.Get(ctx, id)
}

func (s *CaseService) ListCases(ctx context.Context) ([]*models.Case, error) {
	return s.Repo.List(ctx)
}

func (s *CaseService) AppendLog(ctx context.Context, caseID int, req *models.LogRequest) (*models.LogEntry, error) {
	action := strings.ToUpper(strings.TrimSpace(req.Action))
	if action == "" {
		return nil, apperr.Validation("action is required")
	}
	return s.Logs.AppendToCase(ctx, caseID, action, req.Details)
}

func (s *CaseService) CaseLogs(ctx context.Context, caseID int) ([]*models.LogEntry, error) {
	if _, err := s.Repo.Get(ctx, caseID); err != nil {
		return nil, err
	}
	return s.Logs.ListByCase(ctx, caseID)
}

func (s *CaseService) AllLogs(ctx context.Context, limit int) ([]*models.LogEntry, error) {
	if limit < 0 {
		return nil, apperr.Validation("limit must not be negative")
	}
	return s.Logs.List(ctx, limit)
}

func (s *CaseService) checkAgent(ctx context.Context, agentID *int) error {
	if agentID == nil {
		return nil
	}
	if _, err := s.Agents.Get(ctx, *agentID); err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return apperr.Validation("agent %d does not exist", *agentID)
		}
		return err
	}
	return nil
}

// buildItems resolves the catalog products and snapshots prices. Removed
// products are only accepted when allowRemoved is set, so existing kits can be
// re-saved after a product leaves the catalog.
func (s *CaseService) buildItems(ctx context.Context, inputs []models.CaseItemInput, allowRemoved bool) ([]models.CaseItem, error) {
	if len(inputs) == 0 {
		return []models.CaseItem{}, nil
	}

	ids := make([]int, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ProductID)
	}
	products, err := s.Products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.CaseItem, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity < 1 {
			return nil, apperr.Validation("quantity for product %d must be at least 1", in.ProductID)
		}
		p, ok := products[in.ProductID]
		if !ok {
			return nil, apperr.Validation("product %d does not exist", in.ProductID)
		}
		if p.Status != models.ProductActive && !allowRemoved {
			return nil, apperr.Validation("product %d is not active", in.ProductID)
		}

		price := p.Price
		if in.Price != nil {
			if in.Price.IsNegative() {
				return nil, apperr.Validation("price for product %d must not be negative", in.ProductID)
			}
			price = in.Price.Round(2)
		}

		items = append(items, models.CaseItem{
			ProductID:   p.ID,
			Quantity:    in.Quantity,
			PriceAtTime: price,
		})
	}
	return items, nil
}
