package repositories

import (
	"context"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ManualCommissionRepository struct {
	DB *pgxpool.Pool
}

func NewManualCommissionRepository(db *pgxpool.Pool) *ManualCommissionRepository {
	return &ManualCommissionRepository{DB: db}
}

func (r *ManualCommissionRepository) Create(ctx context.Context, m *models.ManualCommission) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO manual_commissions(agent_id, product_name, price, commission_value)
         VALUES($1, $2, $3, $4)
         RETURNING id, created_at`,
		m.AgentID, m.ProductName, m.Price, m.CommissionValue,
	).Scan(&m.ID, &m.CreatedAt)
}

// List returns all manual commissions joined with the agent name, newest first.
func (r *ManualCommissionRepository) List(ctx context.Context) ([]*models.ManualCommission, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT m.id, m.agent_id, COALESCE(a.name, ''), m.product_name, m.price, m.commission_value, m.created_at
         FROM manual_commissions m
         LEFT JOIN agents a ON a.id = m.agent_id
         ORDER BY m.created_at DESC, m.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.ManualCommission{}
	for rows.Next() {
		var m models.ManualCommission
		if err := rows.Scan(&m.ID, &m.AgentID, &m.AgentName, &m.ProductName,
			&m.Price, &m.CommissionValue, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *ManualCommissionRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM manual_commissions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("commission", id)
	}
	return nil
}
