package services

import (
	"context"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"
	"consign-backend/internal/storage"
)

type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	Get(ctx context.Context, id int) (*models.Product, error)
	GetMany(ctx context.Context, ids []int) (map[int]*models.Product, error)
	List(ctx context.Context, includeRemoved bool) ([]*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	SoftDelete(ctx context.Context, id int) error
	FindActiveByName(ctx context.Context, name string) (*models.Product, error)
}

type ProductService struct {
	Repo   ProductStore
	Photos storage.Store
}

func NewProductService(repo ProductStore, photos storage.Store) *ProductService {
	return &ProductService{Repo: repo, Photos: photos}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	p, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context, includeRemoved bool) ([]*models.Product, error) {
	return s.Repo.List(ctx, includeRemoved)
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int, req *models.ProductRequest) (*models.Product, error) {
	p, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	return s.Repo.SoftDelete(ctx, id)
}

func (s *ProductService) fromRequest(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	if req.Price == nil || req.Price.IsNegative() {
		return nil, apperr.Validation("price must not be negative")
	}
	if !req.Category.Valid() {
		return nil, apperr.Validation("unknown category %q", req.Category)
	}

	photo, err := s.Photos.SavePhoto(ctx, "products", req.Photo)
	if err != nil {
		return nil, apperr.AdapterFailure("photo storage", err)
	}

	return &models.Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price.Round(2),
		Photo:    photo,
	}, nil
}
