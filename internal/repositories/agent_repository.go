package repositories

import (
	"context"
	"errors"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAgentInField is the conflict returned when deleting an agent that still
// holds a case in the field.
var ErrAgentInField = apperr.Conflict("agent has cases in field")

type AgentRepository struct {
	DB *pgxpool.Pool
}

func NewAgentRepository(db *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{DB: db}
}

// total_sales = every case ever assigned + every manual commission price
const agentSelect = `
	SELECT a.id, a.name, a.contact, a.created_at,
	       COALESCE(cs.total, 0) + COALESCE(mc.total, 0) AS total_sales
	FROM agents a
	LEFT JOIN (
		SELECT agent_id, SUM(total_value) AS total
		FROM cases WHERE agent_id IS NOT NULL GROUP BY agent_id
	) cs ON cs.agent_id = a.id
	LEFT JOIN (
		SELECT agent_id, SUM(price) AS total
		FROM manual_commissions WHERE agent_id IS NOT NULL GROUP BY agent_id
	) mc ON mc.agent_id = a.id`

func scanAgent(row pgx.Row) (*models.Agent, error) {
	var a models.Agent
	if err := row.Scan(&a.ID, &a.Name, &a.Contact, &a.CreatedAt, &a.TotalSales); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgentRepository) Create(ctx context.Context, a *models.Agent) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO agents(name, contact) VALUES($1, $2) RETURNING id, created_at`,
		a.Name, a.Contact,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *AgentRepository) Get(ctx context.Context, id int) (*models.Agent, error) {
	a, err := scanAgent(r.DB.QueryRow(ctx, agentSelect+` WHERE a.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("agent", id)
	}
	return a, err
}

func (r *AgentRepository) List(ctx context.Context) ([]*models.Agent, error) {
	rows, err := r.DB.Query(ctx, agentSelect+` ORDER BY a.name, a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := []*models.Agent{}
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *AgentRepository) Update(ctx context.Context, a *models.Agent) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE agents SET name=$1, contact=$2 WHERE id=$3`, a.Name, a.Contact, a.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("agent", a.ID)
	}
	return nil
}

// Delete hard-deletes the agent unless any linked case is in the field. The
// agent row stays locked from the guard query until commit.
func (r *AgentRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var locked int
	err = tx.QueryRow(ctx, `SELECT id FROM agents WHERE id=$1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("agent", id)
	}
	if err != nil {
		return err
	}

	var inField bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM cases WHERE agent_id=$1 AND status=$2)`,
		id, models.CaseInField,
	).Scan(&inField); err != nil {
		return err
	}
	if inField {
		return ErrAgentInField
	}

	if _, err := tx.Exec(ctx, `DELETE FROM agents WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
