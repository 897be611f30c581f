package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultCloudAPIURL = "https://graph.facebook.com/v18.0"

// GenericWhatsAppService implements WhatsApp via Meta Cloud API (works with any BSP)
type GenericWhatsAppService struct {
	config Config
	client *http.Client
}

// NewGenericWhatsAppService creates a Cloud API client.
// apiKey: Access Token from Meta Business Suite or BSP
// phoneNumberID: WhatsApp Business Phone Number ID
func NewGenericWhatsAppService(cfg Config) *GenericWhatsAppService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCloudAPIURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &GenericWhatsAppService{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Send posts the text body, then any attachment that is a remote URL.
func (s *GenericWhatsAppService) Send(ctx context.Context, msg Message) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                msg.To,
		"type":              "text",
		"text": map[string]interface{}{
			"preview_url": false,
			"body":        msg.Body,
		},
	}
	if err := s.sendRequest(ctx, payload); err != nil {
		return err
	}

	if isRemoteURL(msg.Photo) {
		if err := s.sendRequest(ctx, map[string]interface{}{
			"messaging_product": "whatsapp",
			"to":                msg.To,
			"type":              "image",
			"image":             map[string]string{"link": msg.Photo},
		}); err != nil {
			return err
		}
	}
	if isRemoteURL(msg.Document) {
		if err := s.sendRequest(ctx, map[string]interface{}{
			"messaging_product": "whatsapp",
			"to":                msg.To,
			"type":              "document",
			"document":          map[string]string{"link": msg.Document, "filename": msg.Filename},
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *GenericWhatsAppService) sendRequest(ctx context.Context, payload map[string]interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.config.BaseURL, s.config.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
			return fmt.Errorf("WhatsApp API error: %s", errResp.Error.Message)
		}
		return fmt.Errorf("WhatsApp API error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

func (s *GenericWhatsAppService) Name() string {
	return "Generic (Meta Cloud API)"
}

func (s *GenericWhatsAppService) Simulated() bool {
	return false
}

// CreateProvider picks a provider by name. Anything that is not a configured
// Cloud API falls back to the simulated provider.
func CreateProvider(cfg Config, log zerolog.Logger) Provider {
	switch cfg.Provider {
	case "generic", "meta", "cloud":
		if cfg.APIKey != "" && cfg.PhoneNumberID != "" {
			return NewGenericWhatsAppService(cfg)
		}
		log.Warn().Str("provider", cfg.Provider).Msg("whatsapp credentials missing, using simulated provider")
	}
	return NewSimulatedService(log)
}
