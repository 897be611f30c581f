package repositories

import (
	"context"
	"errors"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `id, name, category, price, photo, status, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Photo, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO products(name, category, price, photo, status)
         VALUES($1, $2, $3, $4, 'active')
         RETURNING id, status, created_at, updated_at`,
		p.Name, p.Category, p.Price, p.Photo,
	).Scan(&p.ID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("product", id)
	}
	return p, err
}

// GetMany returns the products with the given ids keyed by id; unknown ids are
// simply absent from the map.
func (r *ProductRepository) GetMany(ctx context.Context, ids []int) (map[int]*models.Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]*models.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// List returns active products ordered by name, or every product when
// includeRemoved is set.
func (r *ProductRepository) List(ctx context.Context, includeRemoved bool) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE status = 'active' ORDER BY name, id`
	if includeRemoved {
		query = `SELECT ` + productColumns + ` FROM products ORDER BY name, id`
	}

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE products SET name=$1, category=$2, price=$3, photo=$4, updated_at=CURRENT_TIMESTAMP
         WHERE id=$5
         RETURNING status, created_at, updated_at`,
		p.Name, p.Category, p.Price, p.Photo, p.ID,
	).Scan(&p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("product", p.ID)
	}
	return err
}

// SoftDelete flips the product to removed. Line items that reference it are
// left untouched.
func (r *ProductRepository) SoftDelete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE products SET status='removed', updated_at=CURRENT_TIMESTAMP WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}

// FindActiveByName matches an active product by case-insensitive exact name.
// It returns nil without error when nothing matches.
func (r *ProductRepository) FindActiveByName(ctx context.Context, name string) (*models.Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products
         WHERE status = 'active' AND LOWER(name) = LOWER($1)
         ORDER BY id LIMIT 1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}
