package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmeshcher/marketplace-system/internal/model"
)

// AddCartItem добавляет товар в корзину пользователя. Повторное добавление
// того же товара отклоняется ограничением уникальности.
func (r *PostgresRepository) AddCartItem(ctx context.Context, userID, productID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cart_items (user_id, product_id) VALUES ($1, $2)`,
		userID, productID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.UniqueViolation {
				return ErrProductAlreadyInCart
			}
			if pgErr.Code == pgerrcode.ForeignKeyViolation {
				return ErrProductNotFound
			}
		}
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// RemoveCartItem удаляет товар из корзины. Отсутствие товара в корзине
// ошибкой не считается.
func (r *PostgresRepository) RemoveCartItem(ctx context.Context, userID, productID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// GetCartItems возвращает корзину пользователя в порядке добавления,
// с разрешёнными данными товара, продавца и категории.
func (r *PostgresRepository) GetCartItems(ctx context.Context, userID int64) ([]model.CartItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productCardColumns+`, ci.added_at
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 JOIN users u ON u.id = p.seller_id
		 JOIN categories c ON c.id = p.category_id
		 WHERE ci.user_id = $1
		 ORDER BY ci.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	var res []model.CartItem
	for rows.Next() {
		var (
			item   model.CartItem
			status string
		)
		err := rows.Scan(
			&item.Product.ID, &item.Product.Title, &item.Product.Description,
			&item.Product.PriceCents, &item.Product.Images,
			&item.Product.CategoryID, &item.Product.SellerID, &status,
			&item.Product.CreatedAt, &item.Product.UpdatedAt,
			&item.Product.SellerUsername, &item.Product.SellerEmail,
			&item.Product.SellerProfileImage, &item.Product.CategoryName,
			&item.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		item.Product.Status = model.ProductStatus(status)
		res = append(res, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}
