package services

import (
	"context"
	"errors"
	"strings"

	"consign-backend/internal/apperr"
	"consign-backend/internal/metrics"
	"consign-backend/internal/models"
)

const (
	MaxScanImages     = 10
	MaxScanImageBytes = 10 << 20
)

var errScannerDisabled = errors.New("scanner not configured")

// Scanner extracts candidate line items from photos or text.
type Scanner interface {
	ExtractFromImages(ctx context.Context, images []models.ScanImage) ([]models.ScannedItem, error)
	ExtractFromText(ctx context.Context, text string) ([]models.ScannedItem, error)
}

type ScanService struct {
	Scanner  Scanner
	Products ProductStore
}

// NewScanService accepts a nil scanner; every scan then fails with an
// AdapterFailure.
func NewScanService(scanner Scanner, products ProductStore) *ScanService {
	return &ScanService{Scanner: scanner, Products: products}
}

func (s *ScanService) ScanImages(ctx context.Context, images []models.ScanImage) ([]models.ScanMatch, error) {
	if len(images) == 0 {
		return nil, apperr.Validation("at least one image is required")
	}
	if len(images) > MaxScanImages {
		return nil, apperr.Validation("at most %d images are allowed", MaxScanImages)
	}
	for i, img := range images {
		if len(img.Data) > MaxScanImageBytes {
			return nil, apperr.Validation("image %d exceeds 10 MB", i+1)
		}
		if !strings.HasPrefix(img.MimeType, "image/") {
			return nil, apperr.Validation("file %d is not an image", i+1)
		}
	}
	if s.Scanner == nil {
		return nil, apperr.AdapterFailure("scanner", errScannerDisabled)
	}

	items, err := s.Scanner.ExtractFromImages(ctx, images)
	metrics.ScannerCallsTotal.WithLabelValues("image", metrics.Result(err)).Inc()
	if err != nil {
		return nil, apperr.AdapterFailure("scanner", err)
	}
	return s.match(ctx, items)
}

func (s *ScanService) ScanText(ctx context.Context, text string) ([]models.ScanMatch, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("text is required")
	}
	if s.Scanner == nil {
		return nil, apperr.AdapterFailure("scanner", errScannerDisabled)
	}

	items, err := s.Scanner.ExtractFromText(ctx, text)
	metrics.ScannerCallsTotal.WithLabelValues("text", metrics.Result(err)).Inc()
	if err != nil {
		return nil, apperr.AdapterFailure("scanner", err)
	}
	return s.match(ctx, items)
}

// match pairs each item with the active product of the same name
// (case-insensitive). Unmatched items keep ProductID 0.
func (s *ScanService) match(ctx context.Context, items []models.ScannedItem) ([]models.ScanMatch, error) {
	out := make([]models.ScanMatch, 0, len(items))
	for _, it := range items {
		m := models.ScanMatch{ScannedItem: it}
		p, err := s.Products.FindActiveByName(ctx, it.Name)
		if err != nil {
			return nil, err
		}
		if p != nil {
			m.ProductID = p.ID
			m.Matched = true
		}
		out = append(out, m)
	}
	return out, nil
}
