package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type memAgents struct {
	byID   map[int]*models.Agent
	busy   map[int]bool
	nextID int
}

func newMemAgents(agents ...*models.Agent) *memAgents {
	m := &memAgents{byID: map[int]*models.Agent{}, busy: map[int]bool{}}
	for _, a := range agents {
		m.byID[a.ID] = a
		if a.ID > m.nextID {
			m.nextID = a.ID
		}
	}
	return m
}

func (m *memAgents) Create(ctx context.Context, a *models.Agent) error {
	m.nextID++
	a.ID = m.nextID
	m.byID[a.ID] = a
	return nil
}

func (m *memAgents) Get(ctx context.Context, id int) (*models.Agent, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return nil, apperr.NotFound("agent", id)
}

func (m *memAgents) List(ctx context.Context) ([]*models.Agent, error) {
	out := []*models.Agent{}
	for _, a := range m.byID {
		out = append(out, a)
	}
	return out, nil
}

func (m *memAgents) Update(ctx context.Context, a *models.Agent) error {
	if _, ok := m.byID[a.ID]; !ok {
		return apperr.NotFound("agent", a.ID)
	}
	m.byID[a.ID] = a
	return nil
}

func (m *memAgents) Delete(ctx context.Context, id int) error {
	if _, ok := m.byID[id]; !ok {
		return apperr.NotFound("agent", id)
	}
	if m.busy[id] {
		return apperr.Conflict("agent has a case in the field")
	}
	delete(m.byID, id)
	return nil
}

type memProducts struct {
	byID map[int]*models.Product
}

func (m *memProducts) Create(ctx context.Context, p *models.Product) error {
	p.ID = len(m.byID) + 1
	p.Status = models.ProductActive
	m.byID[p.ID] = p
	return nil
}

func (m *memProducts) Get(ctx context.Context, id int) (*models.Product, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("product", id)
}

func (m *memProducts) GetMany(ctx context.Context, ids []int) (map[int]*models.Product, error) {
	out := map[int]*models.Product{}
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *memProducts) List(ctx context.Context, includeRemoved bool) ([]*models.Product, error) {
	out := []*models.Product{}
	for _, p := range m.byID {
		if includeRemoved || p.Status == models.ProductActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Update(ctx context.Context, p *models.Product) error {
	if _, ok := m.byID[p.ID]; !ok {
		return apperr.NotFound("product", p.ID)
	}
	m.byID[p.ID] = p
	return nil
}

func (m *memProducts) SoftDelete(ctx context.Context, id int) error {
	p, ok := m.byID[id]
	if !ok {
		return apperr.NotFound("product", id)
	}
	p.Status = models.ProductRemoved
	return nil
}

func (m *memProducts) FindActiveByName(ctx context.Context, name string) (*models.Product, error) {
	for _, p := range m.byID {
		if p.Status == models.ProductActive && strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, nil
}

// do runs one request through handler with the given route vars.
func do(handler http.HandlerFunc, method, target, body string, vars map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

type errorEnvelope struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
