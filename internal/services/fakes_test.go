package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"
	"consign-backend/internal/repositories"
	"consign-backend/internal/whatsapp"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(i int) *int {
	return &i
}

type fakeProducts struct {
	byID map[int]*models.Product
}

func newFakeProducts(products ...*models.Product) *fakeProducts {
	f := &fakeProducts{byID: map[int]*models.Product{}}
	for _, p := range products {
		if p.Status == "" {
			p.Status = models.ProductActive
		}
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Create(ctx context.Context, p *models.Product) error {
	p.ID = len(f.byID) + 1
	p.Status = models.ProductActive
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProducts) Get(ctx context.Context, id int) (*models.Product, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("product", id)
}

func (f *fakeProducts) GetMany(ctx context.Context, ids []int) (map[int]*models.Product, error) {
	out := map[int]*models.Product{}
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProducts) List(ctx context.Context, includeRemoved bool) ([]*models.Product, error) {
	out := []*models.Product{}
	for _, p := range f.byID {
		if includeRemoved || p.Status == models.ProductActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Update(ctx context.Context, p *models.Product) error {
	if _, ok := f.byID[p.ID]; !ok {
		return apperr.NotFound("product", p.ID)
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProducts) SoftDelete(ctx context.Context, id int) error {
	p, ok := f.byID[id]
	if !ok {
		return apperr.NotFound("product", id)
	}
	p.Status = models.ProductRemoved
	return nil
}

func (f *fakeProducts) FindActiveByName(ctx context.Context, name string) (*models.Product, error) {
	for _, p := range f.byID {
		if p.Status == models.ProductActive && strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, nil
}

type fakeAgents struct {
	byID map[int]*models.Agent
}

func newFakeAgents(agents ...*models.Agent) *fakeAgents {
	f := &fakeAgents{byID: map[int]*models.Agent{}}
	for _, a := range agents {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAgents) Create(ctx context.Context, a *models.Agent) error {
	a.ID = len(f.byID) + 1
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAgents) Get(ctx context.Context, id int) (*models.Agent, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, apperr.NotFound("agent", id)
}

func (f *fakeAgents) List(ctx context.Context) ([]*models.Agent, error) {
	out := []*models.Agent{}
	for _, a := range f.byID {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAgents) Update(ctx context.Context, a *models.Agent) error {
	if _, ok := f.byID[a.ID]; !ok {
		return apperr.NotFound("agent", a.ID)
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAgents) Delete(ctx context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return apperr.NotFound("agent", id)
	}
	delete(f.byID, id)
	return nil
}

// fakeCases mirrors the repository contract: the total is always derived from
// the stored items.
type fakeCases struct {
	products *fakeProducts
	agents   *fakeAgents
	byID     map[int]*models.Case
	nextID   int
}

func newFakeCases(products *fakeProducts, agents *fakeAgents) *fakeCases {
	return &fakeCases{products: products, agents: agents, byID: map[int]*models.Case{}}
}

func (f *fakeCases) Create(ctx context.Context, c *models.Case, items []models.CaseItem) error {
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	f.setItems(c, items)
	stored := *c
	f.byID[c.ID] = &stored
	return nil
}

func (f *fakeCases) Update(ctx context.Context, c *models.Case, items *[]models.CaseItem) error {
	stored, ok := f.byID[c.ID]
	if !ok {
		return apperr.NotFound("case", c.ID)
	}
	stored.Name, stored.AgentID, stored.Status, stored.Photo = c.Name, c.AgentID, c.Status, c.Photo
	if items != nil {
		f.setItems(stored, *items)
	}
	c.TotalValue = stored.TotalValue
	return nil
}

func (f *fakeCases) setItems(c *models.Case, items []models.CaseItem) {
	c.Items = make([]models.CaseItem, len(items))
	for i, it := range items {
		it.ID = i + 1
		it.CaseID = c.ID
		it.Subtotal = it.PriceAtTime.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if p, ok := f.products.byID[it.ProductID]; ok {
			it.ProductName, it.Category = p.Name, p.Category
		}
		c.Items[i] = it
	}
	c.TotalValue = models.ItemsTotal(c.Items)
}

func (f *fakeCases) Delete(ctx context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return apperr.NotFound("case", id)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCases) Get(ctx context.Context, id int) (*models.Case, error) {
	stored, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("case", id)
	}
	c := *stored
	c.Items = append([]models.CaseItem(nil), stored.Items...)
	if c.AgentID != nil {
		if a, ok := f.agents.byID[*c.AgentID]; ok {
			c.AgentName, c.AgentContact = a.Name, a.Contact
		}
	}
	c.Decorate()
	return &c, nil
}

func (f *fakeCases) List(ctx context.Context) ([]*models.Case, error) {
	out := []*models.Case{}
	for id := range f.byID {
		c, _ := f.Get(ctx, id)
		out = append(out, c)
	}
	return out, nil
}

type fakeLogs struct {
	entries []*models.LogEntry
	cases   *fakeCases
}

func (f *fakeLogs) AppendToCase(ctx context.Context, caseID int, action, details string) (*models.LogEntry, error) {
	if f.cases != nil {
		if _, ok := f.cases.byID[caseID]; !ok {
			return nil, apperr.NotFound("case", caseID)
		}
	}
	e := &models.LogEntry{ID: len(f.entries) + 1, CaseID: &caseID, Action: action, Details: details, CreatedAt: time.Now()}
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeLogs) ListByCase(ctx context.Context, caseID int) ([]*models.LogEntry, error) {
	out := []*models.LogEntry{}
	for _, e := range f.entries {
		if e.CaseID != nil && *e.CaseID == caseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLogs) List(ctx context.Context, limit int) ([]*models.LogEntry, error) {
	if limit > 0 && limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

type fakeStats struct {
	dashboard models.DashboardStats
	sales     []models.AgentSales
	manual    map[int]repositories.ManualTotals
	items     []models.CommissionedItem
}

func (f *fakeStats) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	d := f.dashboard
	return &d, nil
}

func (f *fakeStats) AgentSales(ctx context.Context) ([]models.AgentSales, error) {
	return append([]models.AgentSales(nil), f.sales...), nil
}

func (f *fakeStats) ManualCommissionTotals(ctx context.Context) (map[int]repositories.ManualTotals, error) {
	return f.manual, nil
}

func (f *fakeStats) CommissionedItems(ctx context.Context) ([]models.CommissionedItem, error) {
	return f.items, nil
}

type fakeProvider struct {
	sent []whatsapp.Message
	err  error
}

func (f *fakeProvider) Send(ctx context.Context, msg whatsapp.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeProvider) Name() string    { return "fake" }
func (f *fakeProvider) Simulated() bool { return true }

type fakeScanner struct {
	items []models.ScannedItem
	err   error
}

func (f *fakeScanner) ExtractFromImages(ctx context.Context, images []models.ScanImage) ([]models.ScannedItem, error) {
	return f.items, f.err
}

func (f *fakeScanner) ExtractFromText(ctx context.Context, text string) ([]models.ScannedItem, error) {
	return f.items, f.err
}

type failingStore struct{}

func (failingStore) SavePhoto(ctx context.Context, prefix, photo string) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (failingStore) SaveFile(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "", errors.New("bucket unavailable")
}
