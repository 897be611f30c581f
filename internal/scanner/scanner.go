// Package scanner turns photos or pasted text into candidate inventory line
// items using the Google Generative Language API.
package scanner

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"consign-backend/internal/models"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrNoResponse is returned when the model produced no text candidate.
var ErrNoResponse = errors.New("scanner: model returned no content")

const imagePrompt = `You are cataloguing jewelry for a consignment reseller.
List every distinct piece visible in the photos. For each piece return its
name, its category (one of earring, ring, bracelet, necklace), its price in the
local currency when a tag is visible (0 otherwise) and the quantity.`

const textPrompt = `You are cataloguing jewelry for a consignment reseller.
Extract every item from the text below. For each item return its name, its
category (one of earring, ring, bracelet, necklace), its price and the
quantity (1 when not stated).

Text:
`

type Config struct {
	APIKey   string
	Model    string
	Endpoint string
}

type Client struct {
	svc   *generativelanguage.Service
	model string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("scanner: api key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("scanner: create client: %w", err)
	}

	model := cfg.Model
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return &Client{svc: svc, model: model}, nil
}

func (c *Client) ExtractFromImages(ctx context.Context, images []models.ScanImage) ([]models.ScannedItem, error) {
	parts := []*generativelanguage.Part{{Text: imagePrompt}}
	for _, img := range images {
		parts = append(parts, &generativelanguage.Part{
			InlineData: &generativelanguage.Blob{
				MimeType: img.MimeType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}
	return c.generate(ctx, parts)
}

func (c *Client) ExtractFromText(ctx context.Context, text string) ([]models.ScannedItem, error) {
	return c.generate(ctx, []*generativelanguage.Part{{Text: textPrompt + text}})
}

func (c *Client) generate(ctx context.Context, parts []*generativelanguage.Part) ([]models.ScannedItem, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{Role: "user", Parts: parts}},
		GenerationConfig: &generativelanguage.GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   itemsSchema(),
		},
	}

	resp, err := c.svc.Models.GenerateContent(c.model, req).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, fmt.Errorf("scanner: api error %d: %s", gerr.Code, gerr.Message)
		}
		return nil, fmt.Errorf("scanner: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrNoResponse
	}

	var raw strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		raw.WriteString(p.Text)
	}
	return ParseItems(raw.String())
}

// itemsSchema constrains the model output to an array of line items.
func itemsSchema() *generativelanguage.Schema {
	categories := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		categories[i] = string(c)
	}

	return &generativelanguage.Schema{
		Type: "ARRAY",
		Items: &generativelanguage.Schema{
			Type: "OBJECT",
			Properties: map[string]generativelanguage.Schema{
				"name":     {Type: "STRING"},
				"category": {Type: "STRING", Enum: categories},
				"price":    {Type: "NUMBER"},
				"quantity": {Type: "INTEGER"},
			},
			Required: []string{"name", "category", "price", "quantity"},
		},
	}
}
