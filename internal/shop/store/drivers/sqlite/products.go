package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/wattlecart/storefront/internal/shop/domain"
	"github.com/wattlecart/storefront/internal/shop/store"
)

type productsRepo struct {
	db *sql.DB
}

const productColumns = `id, name, description, price_cents, image_url, category, is_featured, created_at, updated_at`

func scanProductRows(rows *sql.Rows) ([]domain.Product, error) {
	defer rows.Close()

	out := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		var image sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.PriceCents, &image,
			&p.Category, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.ImageURL = mapNullString(image)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *productsRepo) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	var image sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id,
	).Scan(
		&p.ID, &p.Name, &p.Description, &p.PriceCents, &image,
		&p.Category, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, mapNotFound(err)
	}
	p.ImageURL = mapNullString(image)
	return p, nil
}

func (r *productsRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return scanProductRows(rows)
}

func (r *productsRepo) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = ? ORDER BY created_at DESC`,
		category)
	if err != nil {
		return nil, err
	}
	return scanProductRows(rows)
}

func (r *productsRepo) ListFeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_featured = 1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return scanProductRows(rows)
}

// SampleProducts is the sqlite stand-in for a document-store sampling query.
func (r *productsRepo) SampleProducts(ctx context.Context, n int) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY RANDOM() LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	return scanProductRows(rows)
}

func (r *productsRepo) CreateProduct(ctx context.Context, p domain.Product) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price_cents, image_url, category, is_featured, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.PriceCents, mapStringNull(p.ImageURL),
		p.Category, p.IsFeatured, now, now,
	)
	return mapConflict(err)
}

func (r *productsRepo) SetProductFeatured(ctx context.Context, productID string, featured bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_featured = ?, updated_at = ? WHERE id = ?`,
		featured, time.Now().UTC(), productID,
	)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

func (r *productsRepo) DeleteProduct(ctx context.Context, productID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, productID)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

// requireRowChanged maps a zero-row UPDATE/DELETE to ErrNotFound.
func requireRowChanged(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
