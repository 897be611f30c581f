package repositories

import (
	"context"
	"errors"
	"fmt"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CaseRepository struct {
	DB *pgxpool.Pool
}

func NewCaseRepository(db *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{DB: db}
}

// Create inserts the case, its line items and a CREATE log entry in one
// transaction. c.ID, c.CreatedAt and c.TotalValue are filled from the database.
func (r *CaseRepository) Create(ctx context.Context, c *models.Case, items []models.CaseItem) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO cases(name, agent_id, photo, delivery_date, return_date, status, total_value)
         VALUES($1, $2, $3, $4, $5, $6, 0)
         RETURNING id, created_at`,
		c.Name, c.AgentID, c.Photo, c.DeliveryDate, c.ReturnDate, c.Status,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return err
	}

	if err := insertItems(ctx, tx, c.ID, items); err != nil {
		return err
	}
	if c.TotalValue, err = recomputeTotal(ctx, tx, c.ID); err != nil {
		return err
	}

	details := fmt.Sprintf("Case created with %d items, total %s", len(items), c.TotalValue.StringFixed(2))
	if _, err := appendLog(ctx, tx, &c.ID, models.ActionCreate, details); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update overwrites the scalar fields. When items is non-nil the existing line
// items are deleted and replaced, and total_value is recomputed in the same
// transaction.
func (r *CaseRepository) Update(ctx context.Context, c *models.Case, items *[]models.CaseItem) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`UPDATE cases SET name=$1, agent_id=$2, status=$3, photo=$4
         WHERE id=$5
         RETURNING delivery_date, return_date, total_value, created_at`,
		c.Name, c.AgentID, c.Status, c.Photo, c.ID,
	).Scan(&c.DeliveryDate, &c.ReturnDate, &c.TotalValue, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("case", c.ID)
	}
	if err != nil {
		return err
	}

	details := fmt.Sprintf("Case updated: status %s", c.Status)
	if items != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM case_items WHERE case_id=$1`, c.ID); err != nil {
			return err
		}
		if err := insertItems(ctx, tx, c.ID, *items); err != nil {
			return err
		}
		if c.TotalValue, err = recomputeTotal(ctx, tx, c.ID); err != nil {
			return err
		}
		details = fmt.Sprintf("%s, items replaced (%d), total %s", details, len(*items), c.TotalValue.StringFixed(2))
	}

	if _, err := appendLog(ctx, tx, &c.ID, models.ActionUpdate, details); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes the case with all its line items and log entries. A DELETE
// entry without a case reference records the removal.
func (r *CaseRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM case_items WHERE case_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM logs WHERE case_id=$1`, id); err != nil {
		return err
	}

	var name string
	err = tx.QueryRow(ctx, `DELETE FROM cases WHERE id=$1 RETURNING name`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("case", id)
	}
	if err != nil {
		return err
	}

	if _, err := appendLog(ctx, tx, nil, models.ActionDelete, fmt.Sprintf("Case #%d (%s) deleted", id, name)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const caseSelect = `
	SELECT c.id, c.name, c.agent_id, COALESCE(a.name, ''), COALESCE(a.contact, ''),
	       c.photo, c.delivery_date, c.return_date, c.status, c.total_value, c.created_at
	FROM cases c
	LEFT JOIN agents a ON a.id = c.agent_id`

func scanCase(row pgx.Row) (*models.Case, error) {
	var c models.Case
	err := row.Scan(&c.ID, &c.Name, &c.AgentID, &c.AgentName, &c.AgentContact,
		&c.Photo, &c.DeliveryDate, &c.ReturnDate, &c.Status, &c.TotalValue, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepository) Get(ctx context.Context, id int) (*models.Case, error) {
	c, err := scanCase(r.DB.QueryRow(ctx, caseSelect+` WHERE c.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("case", id)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, `WHERE ci.case_id = $1`, id)
	if err != nil {
		return nil, err
	}
	c.Items = items[c.ID]
	c.Decorate()
	return c, nil
}

// List returns every case with its agent and nested items. Two queries
// regardless of the number of cases.
func (r *CaseRepository) List(ctx context.Context) ([]*models.Case, error) {
	rows, err := r.DB.Query(ctx, caseSelect+` ORDER BY c.delivery_date DESC, c.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cases := []*models.Case{}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, c := range cases {
		c.Items = items[c.ID]
		c.Decorate()
	}
	return cases, nil
}

// listItems loads line items joined with the current product metadata,
// grouped by case id and ordered by item id.
func (r *CaseRepository) listItems(ctx context.Context, where string, args ...any) (map[int][]models.CaseItem, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT ci.id, ci.case_id, ci.product_id, ci.quantity, ci.price_at_time,
		        p.name, p.category, p.photo
         FROM case_items ci
         JOIN products p ON p.id = ci.product_id `+where+`
         ORDER BY ci.case_id, ci.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[int][]models.CaseItem)
	for rows.Next() {
		var it models.CaseItem
		if err := rows.Scan(&it.ID, &it.CaseID, &it.ProductID, &it.Quantity, &it.PriceAtTime,
			&it.ProductName, &it.Category, &it.Photo); err != nil {
			return nil, err
		}
		it.Subtotal = it.PriceAtTime.Mul(decimal.NewFromInt(int64(it.Quantity)))
		grouped[it.CaseID] = append(grouped[it.CaseID], it)
	}
	return grouped, rows.Err()
}

func insertItems(ctx context.Context, tx pgx.Tx, caseID int, items []models.CaseItem) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO case_items(case_id, product_id, quantity, price_at_time) VALUES($1, $2, $3, $4)`,
			caseID, it.ProductID, it.Quantity, it.PriceAtTime,
		); err != nil {
			return err
		}
	}
	return nil
}

// recomputeTotal rewrites cases.total_value from the rows currently in
// case_items. It is the only writer of total_value.
func recomputeTotal(ctx context.Context, tx pgx.Tx, caseID int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.QueryRow(ctx,
		`UPDATE cases SET total_value = (
             SELECT COALESCE(SUM(price_at_time * quantity), 0) FROM case_items WHERE case_id = $1
         )
         WHERE id = $1
         RETURNING total_value`, caseID,
	).Scan(&total)
	return total, err
}
