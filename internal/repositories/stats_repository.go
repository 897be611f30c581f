package repositories

import (
	"context"

	"consign-backend/internal/commission"
	"consign-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StatsRepository runs the read-side aggregations. Every call reads the
// tables directly.
type StatsRepository struct {
	DB *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{DB: db}
}

// Dashboard fills everything except the ranking.
func (r *StatsRepository) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var s models.DashboardStats
	err := r.DB.QueryRow(ctx,
		`SELECT
            (SELECT COALESCE(SUM(total_value), 0) FROM cases WHERE status <> 'idle')
              + (SELECT COALESCE(SUM(price), 0) FROM manual_commissions),
            (SELECT COUNT(*) FROM cases WHERE status = 'in-field'),
            (SELECT COUNT(*) FROM cases WHERE total_value > $1),
            (SELECT COUNT(*) FROM agents)`,
		commission.PremiumThreshold,
	).Scan(&s.VGV, &s.InFieldCount, &s.PremiumCount, &s.AgentCount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AgentSales returns case and manual totals for every agent, unordered.
func (r *StatsRepository) AgentSales(ctx context.Context) ([]models.AgentSales, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT a.id, a.name,
                COALESCE(c.total, 0),
                COALESCE(m.total, 0)
         FROM agents a
         LEFT JOIN (SELECT agent_id, SUM(total_value) AS total FROM cases GROUP BY agent_id) c ON c.agent_id = a.id
         LEFT JOIN (SELECT agent_id, SUM(price) AS total FROM manual_commissions GROUP BY agent_id) m ON m.agent_id = a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.AgentSales{}
	for rows.Next() {
		var s models.AgentSales
		if err := rows.Scan(&s.AgentID, &s.AgentName, &s.CaseTotal, &s.ManualTotal); err != nil {
			return nil, err
		}
		s.Total = s.CaseTotal.Add(s.ManualTotal)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ManualTotals is one agent's manual commission sums.
type ManualTotals struct {
	Sales      decimal.Decimal
	Commission decimal.Decimal
}

// ManualCommissionTotals returns price and commission_value sums per agent id.
func (r *StatsRepository) ManualCommissionTotals(ctx context.Context) (map[int]ManualTotals, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT agent_id, SUM(price), SUM(commission_value)
         FROM manual_commissions
         WHERE agent_id IS NOT NULL
         GROUP BY agent_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]ManualTotals)
	for rows.Next() {
		var id int
		var t ManualTotals
		if err := rows.Scan(&id, &t.Sales, &t.Commission); err != nil {
			return nil, err
		}
		out[id] = t
	}
	return out, rows.Err()
}

// CommissionedItems lists manual commissions and the items of non-idle cases,
// newest first.
func (r *StatsRepository) CommissionedItems(ctx context.Context) ([]models.CommissionedItem, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT 'manual', NULL::int, '', m.agent_id, COALESCE(a.name, ''), m.product_name, '',
                1, m.price, m.price, m.created_at
         FROM manual_commissions m
         LEFT JOIN agents a ON a.id = m.agent_id
         UNION ALL
         SELECT 'case', c.id, c.name, c.agent_id, COALESCE(a.name, ''), p.name, p.category,
                ci.quantity, ci.price_at_time, ci.price_at_time * ci.quantity, c.delivery_date
         FROM case_items ci
         JOIN cases c ON c.id = ci.case_id
         JOIN products p ON p.id = ci.product_id
         LEFT JOIN agents a ON a.id = c.agent_id
         WHERE c.status <> 'idle'
         ORDER BY 11 DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CommissionedItem{}
	for rows.Next() {
		var it models.CommissionedItem
		if err := rows.Scan(&it.Source, &it.CaseID, &it.CaseName, &it.AgentID, &it.AgentName,
			&it.ProductName, &it.Category, &it.Quantity, &it.Price, &it.Subtotal, &it.Date); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
