package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/wattlecart/storefront/internal/shop/domain"
)

type cartItemsRepo struct {
	db *sql.DB
}

func (r *cartItemsRepo) ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, quantity FROM cart_items WHERE user_id = ? ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.CartItem{}
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *cartItemsRepo) UpsertCartItem(ctx context.Context, userID, productID string, quantity int) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, product_id)
		 DO UPDATE SET quantity = excluded.quantity, updated_at = excluded.updated_at`,
		userID, productID, quantity, now, now,
	)
	return err
}

func (r *cartItemsRepo) DeleteCartItem(ctx context.Context, userID, productID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID, productID)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}
