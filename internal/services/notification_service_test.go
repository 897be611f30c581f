package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"
	"consign-backend/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationFixture(provider *fakeProvider) (*NotificationService, *caseFixture) {
	f := newCaseFixture()
	reports := NewReportService(f.cases, nil)
	svc := NewNotificationService(f.agents, f.logs, provider, reports, storage.Passthrough{}, "55", zerolog.Nop())
	return svc, f
}

func TestSendMessage_Preview(t *testing.T) {
	provider := &fakeProvider{}
	svc, _ := newNotificationFixture(provider)

	preview, err := svc.SendMessage(context.Background(), &models.MessageRequest{
		AgentID: 7,
		Message: "Restock on Monday",
		Photo:   "data:image/png;base64,AAAA",
	})
	require.NoError(t, err)

	assert.Equal(t, "5511999990000", preview.To)
	assert.Equal(t, "https://wa.me/5511999990000?text=Restock+on+Monday", preview.DeepLink)
	assert.True(t, preview.HasPhoto)
	assert.False(t, preview.HasPDF)
	assert.True(t, preview.Simulated)
	require.Len(t, provider.sent, 1)
	assert.Equal(t, "Restock on Monday", provider.sent[0].Body)
}

func TestSendMessage_Errors(t *testing.T) {
	svc, _ := newNotificationFixture(&fakeProvider{})
	_, err := svc.SendMessage(context.Background(), &models.MessageRequest{AgentID: 99, Message: "x"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	failing, _ := newNotificationFixture(&fakeProvider{err: errors.New("timeout")})
	_, err = failing.SendMessage(context.Background(), &models.MessageRequest{AgentID: 7, Message: "x"})
	assert.True(t, apperr.Is(err, apperr.CodeAdapterFailure))
}

func TestNotifyCase(t *testing.T) {
	provider := &fakeProvider{}
	svc, f := newNotificationFixture(provider)
	ctx := context.Background()

	c, err := f.svc.CreateCase(ctx, &models.CreateCaseRequest{
		Name:    "Kit A",
		AgentID: intPtr(7),
		Items:   []models.CaseItemInput{{ProductID: 2, Quantity: 4}},
	})
	require.NoError(t, err)

	preview, err := svc.NotifyCase(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, preview.HasPDF)
	assert.Contains(t, preview.Message, "Kit A")
	assert.Contains(t, preview.Message, "Total: 10002.00")
	assert.Contains(t, preview.Message, "Premium case")

	logs, err := f.logs.ListByCase(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionNotify, logs[0].Action)
	assert.True(t, strings.HasPrefix(logs[0].Details, "Manifest sent to Ana"))
}

func TestNotifyCase_RequiresAgent(t *testing.T) {
	svc, f := newNotificationFixture(&fakeProvider{})
	ctx := context.Background()

	c, err := f.svc.CreateCase(ctx, &models.CreateCaseRequest{Name: "Idle kit"})
	require.NoError(t, err)

	_, err = svc.NotifyCase(ctx, c.ID)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = svc.NotifyCase(ctx, 99)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
