package whatsapp

import (
	"context"

	"github.com/rs/zerolog"
)

// SimulatedService logs messages instead of sending them.
type SimulatedService struct {
	log zerolog.Logger
}

func NewSimulatedService(log zerolog.Logger) *SimulatedService {
	return &SimulatedService{log: log.With().Str("component", "whatsapp").Logger()}
}

func (s *SimulatedService) Send(ctx context.Context, msg Message) error {
	s.log.Info().
		Str("to", msg.To).
		Str("body", msg.Body).
		Bool("has_photo", msg.Photo != "").
		Bool("has_document", msg.Document != "").
		Msg("simulated whatsapp message")
	return nil
}

func (s *SimulatedService) Name() string {
	return "simulated"
}

func (s *SimulatedService) Simulated() bool {
	return true
}
