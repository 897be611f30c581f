package services

import (
	"context"
	"sort"

	"consign-backend/internal/commission"
	"consign-backend/internal/models"
	"consign-backend/internal/repositories"
	"consign-backend/internal/timeutil"

	"github.com/shopspring/decimal"
)

type StatsStore interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	AgentSales(ctx context.Context) ([]models.AgentSales, error)
	ManualCommissionTotals(ctx context.Context) (map[int]repositories.ManualTotals, error)
	CommissionedItems(ctx context.Context) ([]models.CommissionedItem, error)
}

// StatsService computes every aggregate from the tables on each call.
type StatsService struct {
	Repo StatsStore
}

func NewStatsService(repo StatsStore) *StatsService {
	return &StatsService{Repo: repo}
}

func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.Repo.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	ranking, err := s.Repo.AgentSales(ctx)
	if err != nil {
		return nil, err
	}
	SortRanking(ranking)
	stats.Ranking = ranking

	return stats, nil
}

// SortRanking orders by total descending, then by name.
func SortRanking(ranking []models.AgentSales) {
	sort.SliceStable(ranking, func(i, j int) bool {
		if c := ranking[i].Total.Cmp(ranking[j].Total); c != 0 {
			return c > 0
		}
		return ranking[i].AgentName < ranking[j].AgentName
	})
}

// CommissionReport applies the tiered rate to each agent's case sales and
// adds the manual commission values on top.
func (s *StatsService) CommissionReport(ctx context.Context) (*models.CommissionReport, error) {
	sales, err := s.Repo.AgentSales(ctx)
	if err != nil {
		return nil, err
	}
	manual, err := s.Repo.ManualCommissionTotals(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.CommissionedItems(ctx)
	if err != nil {
		return nil, err
	}

	SortRanking(sales)

	report := &models.CommissionReport{
		GeneratedAt: timeutil.Now(),
		Agents:      make([]models.AgentCommission, 0, len(sales)),
		Items:       items,
		TotalPayout: decimal.Zero,
	}
	for _, a := range sales {
		quote := commission.Calculate(a.CaseTotal)
		m := manual[a.AgentID]

		row := models.AgentCommission{
			AgentID:          a.AgentID,
			AgentName:        a.AgentName,
			CaseSales:        a.CaseTotal,
			Rate:             quote.Rate,
			CasePayout:       quote.Payout,
			ManualSales:      m.Sales,
			ManualCommission: m.Commission,
			TotalPayout:      quote.Payout.Add(m.Commission),
		}
		report.Agents = append(report.Agents, row)
		report.TotalPayout = report.TotalPayout.Add(row.TotalPayout)
	}
	return report, nil
}
