package services

import (
	"context"
	"fmt"
	"strings"

	"consign-backend/internal/apperr"
	"consign-backend/internal/commission"
	"consign-backend/internal/metrics"
	"consign-backend/internal/models"
	"consign-backend/internal/storage"
	"consign-backend/internal/timeutil"
	"consign-backend/internal/whatsapp"

	"github.com/rs/zerolog"
)

// ManifestRenderer renders the case manifest PDF.
type ManifestRenderer interface {
	CaseManifestPDF(ctx context.Context, caseID int) ([]byte, *models.Case, error)
}

type NotificationService struct {
	Agents      AgentStore
	Logs        LogStore
	Provider    whatsapp.Provider
	Reports     ManifestRenderer
	Files       storage.Store
	CountryCode string
	log         zerolog.Logger
}

func NewNotificationService(agents AgentStore, logs LogStore, provider whatsapp.Provider, reports ManifestRenderer, files storage.Store, countryCode string, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		Agents:      agents,
		Logs:        logs,
		Provider:    provider,
		Reports:     reports,
		Files:       files,
		CountryCode: countryCode,
		log:         log.With().Str("component", "notifications").Logger(),
	}
}

// SendMessage delivers a free-form message to an agent and returns the
// delivery preview.
func (s *NotificationService) SendMessage(ctx context.Context, req *models.MessageRequest) (*models.MessagePreview, error) {
	agent, err := s.Agents.Get(ctx, req.AgentID)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.Validation("agent %d does not exist", req.AgentID)
		}
		return nil, err
	}
	return s.send(ctx, agent, whatsapp.Message{
		Body:     req.Message,
		Photo:    req.Photo,
		Document: req.PDF,
		Filename: "document.pdf",
	})
}

// NotifyCase sends the case summary with its manifest to the assigned agent
// and records a NOTIFY entry in the case log.
func (s *NotificationService) NotifyCase(ctx context.Context, caseID int) (*models.MessagePreview, error) {
	pdf, c, err := s.Reports.CaseManifestPDF(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.AgentID == nil {
		return nil, apperr.Validation("case %d has no agent", caseID)
	}

	agent, err := s.Agents.Get(ctx, *c.AgentID)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("case-%d.pdf", c.ID)
	link, err := s.Files.SaveFile(ctx, "manifests/"+filename, pdf, "application/pdf")
	if err != nil {
		return nil, apperr.AdapterFailure("file storage", err)
	}

	preview, err := s.send(ctx, agent, whatsapp.Message{
		Body:     CaseSummary(c),
		Photo:    c.Photo,
		Document: link,
		Filename: filename,
	})
	if err != nil {
		return nil, err
	}
	preview.HasPDF = true

	details := fmt.Sprintf("Manifest sent to %s via %s", agent.Name, preview.Channel)
	if _, err := s.Logs.AppendToCase(ctx, c.ID, models.ActionNotify, details); err != nil {
		return nil, err
	}
	return preview, nil
}

func (s *NotificationService) send(ctx context.Context, agent *models.Agent, msg whatsapp.Message) (*models.MessagePreview, error) {
	msg.To = whatsapp.FormatPhoneNumber(agent.Contact, s.CountryCode)
	if msg.To == "" {
		return nil, apperr.Validation("agent %d has no usable phone number", agent.ID)
	}

	err := s.Provider.Send(ctx, msg)
	metrics.MessagesTotal.WithLabelValues(s.Provider.Name(), metrics.Result(err)).Inc()
	if err != nil {
		s.log.Error().Err(err).Int("agent_id", agent.ID).Msg("message delivery failed")
		return nil, apperr.AdapterFailure("messaging", err)
	}

	return &models.MessagePreview{
		AgentID:   agent.ID,
		AgentName: agent.Name,
		To:        msg.To,
		DeepLink:  whatsapp.DeepLink(msg.To, msg.Body),
		Message:   msg.Body,
		HasPhoto:  msg.Photo != "",
		HasPDF:    msg.Document != "",
		Channel:   s.Provider.Name(),
		Simulated: s.Provider.Simulated(),
		SentAt:    timeutil.Now(),
	}, nil
}

// CaseSummary is the message body sent with a case manifest.
func CaseSummary(c *models.Case) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Case #%d - %s\n", c.ID, c.Name)
	fmt.Fprintf(&b, "Delivered: %s\n", timeutil.Format(c.DeliveryDate, timeutil.DisplayLayout))
	fmt.Fprintf(&b, "Return by: %s\n", timeutil.Format(c.ReturnDate, timeutil.DisplayLayout))

	pieces := 0
	for _, it := range c.Items {
		pieces += it.Quantity
	}
	fmt.Fprintf(&b, "Pieces: %d\n", pieces)
	fmt.Fprintf(&b, "Total: %s\n", c.TotalValue.StringFixed(2))

	quote := commission.Calculate(c.TotalValue)
	fmt.Fprintf(&b, "Commission: %s%% = %s", quote.Rate.Shift(2).StringFixed(0), quote.Payout.StringFixed(2))
	if commission.IsPremium(c.TotalValue) {
		b.WriteString("\nPremium case")
	}
	return b.String()
}
