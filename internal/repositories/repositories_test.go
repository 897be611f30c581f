package repositories

import (
	"context"
	"testing"
	"time"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Category: models.CategoryRing, Price: dec(price)}
	require.NoError(t, NewProductRepository(pool).Create(context.Background(), p))
	return p
}

func seedAgent(t *testing.T, pool *pgxpool.Pool, name string) *models.Agent {
	t.Helper()
	a := &models.Agent{Name: name, Contact: "11999990000"}
	require.NoError(t, NewAgentRepository(pool).Create(context.Background(), a))
	return a
}

func seedCase(t *testing.T, pool *pgxpool.Pool, agentID *int, status models.CaseStatus, items ...models.CaseItem) *models.Case {
	t.Helper()
	now := time.Now()
	c := &models.Case{
		Name:         "Kit",
		AgentID:      agentID,
		DeliveryDate: now,
		ReturnDate:   now.AddDate(0, 0, models.ConsignmentDays),
		Status:       status,
	}
	require.NoError(t, NewCaseRepository(pool).Create(context.Background(), c, items))
	return c
}

func TestProductRepository_SoftDeleteKeepsRow(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewProductRepository(pool)

	p := seedProduct(t, pool, "Gold Ring", "150.00")
	require.NoError(t, repo.SoftDelete(ctx, p.ID))

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.ProductRemoved, all[0].Status)

	err = repo.SoftDelete(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestProductRepository_FindActiveByName(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewProductRepository(pool)

	p := seedProduct(t, pool, "Pearl Necklace", "320.00")

	found, err := repo.FindActiveByName(ctx, "pearl NECKLACE")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, p.ID, found.ID)

	missing, err := repo.FindActiveByName(ctx, "Pearl")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCaseRepository_RoundTrip(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewCaseRepository(pool)

	p := seedProduct(t, pool, "Product X", "100.00")
	c := seedCase(t, pool, nil, models.CaseIdle, models.CaseItem{ProductID: p.ID, Quantity: 2, PriceAtTime: dec("100")})
	assert.True(t, dec("200").Equal(c.TotalValue))

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, dec("200").Equal(got.TotalValue))
	require.Len(t, got.Items, 1)
	assert.Equal(t, p.ID, got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, dec("100").Equal(got.Items[0].PriceAtTime))
	assert.Equal(t, "Product X", got.Items[0].ProductName)

	logs, err := NewLogRepository(pool).ListByCase(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionCreate, logs[0].Action)
}

func TestCaseRepository_UpdateReplacesItemsAndTotal(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewCaseRepository(pool)

	p1 := seedProduct(t, pool, "A", "100.00")
	p2 := seedProduct(t, pool, "B", "2500.50")
	c := seedCase(t, pool, nil, models.CaseIdle, models.CaseItem{ProductID: p1.ID, Quantity: 1, PriceAtTime: dec("100")})

	items := []models.CaseItem{
		{ProductID: p1.ID, Quantity: 3, PriceAtTime: dec("90")},
		{ProductID: p2.ID, Quantity: 2, PriceAtTime: dec("2500.50")},
	}
	c.Status = models.CaseRestockNeeded
	require.NoError(t, repo.Update(ctx, c, &items))
	assert.True(t, dec("5271").Equal(c.TotalValue), c.TotalValue.String())

	// scalar-only update keeps items
	c.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, c, nil))

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Len(t, got.Items, 2)
	assert.True(t, models.ItemsTotal(got.Items).Equal(got.TotalValue))

	missing := &models.Case{ID: 999, Name: "x", Status: models.CaseIdle}
	err = repo.Update(ctx, missing, nil)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestCaseRepository_DeleteLeavesNothingBehind(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewCaseRepository(pool)
	logs := NewLogRepository(pool)

	p := seedProduct(t, pool, "A", "10.00")
	c := seedCase(t, pool, nil, models.CaseIdle, models.CaseItem{ProductID: p.ID, Quantity: 1, PriceAtTime: dec("10")})
	_, err := logs.AppendToCase(ctx, c.ID, "NOTE", "checked")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, c.ID))

	var items, caseLogs int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM case_items WHERE case_id=$1`, c.ID).Scan(&items))
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM logs WHERE case_id=$1`, c.ID).Scan(&caseLogs))
	assert.Zero(t, items)
	assert.Zero(t, caseLogs)

	all, err := logs.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.ActionDelete, all[0].Action)
	assert.Nil(t, all[0].CaseID)

	err = repo.Delete(ctx, c.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestLogRepository_AppendToUnknownCase(t *testing.T) {
	pool := requireDB(t)

	_, err := NewLogRepository(pool).AppendToCase(context.Background(), 42, "NOTE", "x")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestAgentRepository_DeleteGuard(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewAgentRepository(pool)

	busy := seedAgent(t, pool, "Busy")
	seedCase(t, pool, &busy.ID, models.CaseInField)

	err := repo.Delete(ctx, busy.ID)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
	_, err = repo.Get(ctx, busy.ID)
	assert.NoError(t, err)

	free := seedAgent(t, pool, "Free")
	old := seedCase(t, pool, &free.ID, models.CaseIdle)
	require.NoError(t, repo.Delete(ctx, free.ID))

	got, err := NewCaseRepository(pool).Get(ctx, old.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AgentID)

	err = repo.Delete(ctx, free.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestStatsRepository_DashboardAndRanking(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()

	p := seedProduct(t, pool, "Set", "6000.00")
	a := seedAgent(t, pool, "Ana")
	seedCase(t, pool, &a.ID, models.CaseInField, models.CaseItem{ProductID: p.ID, Quantity: 1, PriceAtTime: dec("6000")})
	require.NoError(t, NewManualCommissionRepository(pool).Create(ctx, &models.ManualCommission{
		AgentID: &a.ID, ProductName: "Loose ring", Price: dec("200"), CommissionValue: dec("60"),
	}))

	stats := NewStatsRepository(pool)
	d, err := stats.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, dec("6200").Equal(d.VGV), d.VGV.String())
	assert.Equal(t, 1, d.InFieldCount)
	assert.Equal(t, 0, d.PremiumCount)
	assert.Equal(t, 1, d.AgentCount)

	sales, err := stats.AgentSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, a.ID, sales[0].AgentID)
	assert.True(t, dec("6200").Equal(sales[0].Total))

	items, err := stats.CommissionedItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	manual, err := stats.ManualCommissionTotals(ctx)
	require.NoError(t, err)
	assert.True(t, dec("60").Equal(manual[a.ID].Commission))
}

func TestAgentRepository_TotalSales(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewAgentRepository(pool)

	p := seedProduct(t, pool, "Bracelet", "100.00")
	a := seedAgent(t, pool, "Ana")
	idle := seedAgent(t, pool, "Bia")
	seedCase(t, pool, &a.ID, models.CaseInField, models.CaseItem{ProductID: p.ID, Quantity: 3, PriceAtTime: dec("100")})
	seedCase(t, pool, &a.ID, models.CaseRestockNeeded, models.CaseItem{ProductID: p.ID, Quantity: 1, PriceAtTime: dec("250.50")})
	require.NoError(t, NewManualCommissionRepository(pool).Create(ctx, &models.ManualCommission{
		AgentID: &a.ID, ProductName: "Loose earring", Price: dec("49.50"), CommissionValue: dec("15"),
	}))

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, dec("600").Equal(got.TotalSales), got.TotalSales.String())

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	byID := map[int]*models.Agent{}
	for _, ag := range list {
		byID[ag.ID] = ag
	}
	assert.True(t, dec("600").Equal(byID[a.ID].TotalSales), byID[a.ID].TotalSales.String())
	assert.True(t, byID[idle.ID].TotalSales.IsZero(), byID[idle.ID].TotalSales.String())

	empty, err := repo.Get(ctx, idle.ID)
	require.NoError(t, err)
	assert.True(t, empty.TotalSales.IsZero())
}

func TestStatsRepository_PremiumBoundary(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()

	p := seedProduct(t, pool, "Necklace", "8000.00")
	seedCase(t, pool, nil, models.CaseIdle, models.CaseItem{ProductID: p.ID, Quantity: 1, PriceAtTime: dec("8000.00")})
	seedCase(t, pool, nil, models.CaseIdle, models.CaseItem{ProductID: p.ID, Quantity: 1, PriceAtTime: dec("8000.01")})

	d, err := NewStatsRepository(pool).Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, d.PremiumCount)
}
