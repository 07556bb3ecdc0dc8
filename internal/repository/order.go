package repository

import (
	"context"
	"fmt"

	"github.com/mmeshcher/marketplace-system/internal/model"
)

// CreateOrder оформляет заказ из корзины покупателя. Проверка доступности,
// создание заказа, пометка товаров проданными и очистка корзины выполняются
// в одной транзакции: строки товаров блокируются через SELECT ... FOR UPDATE,
// поэтому из двух конкурирующих покупателей одного товара второй увидит
// статус Sold и получит ProductUnavailableError без каких-либо записей.
func (r *PostgresRepository) CreateOrder(ctx context.Context, buyerID int64) (*model.Order, error) {
	var order *model.Order

	err := r.withRetry(ctx, func() error {
		var txErr error
		order, txErr = r.createOrderTx(ctx, buyerID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *PostgresRepository) createOrderTx(ctx context.Context, buyerID int64) (*model.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Блокируем строки товаров корзины до конца транзакции.
	rows, err := tx.Query(ctx,
		`SELECT p.id, p.title, p.images, p.price_cents, p.status
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_id = $1
		 ORDER BY ci.id
		 FOR UPDATE OF p`,
		buyerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select cart products: %w", err)
	}

	type cartProduct struct {
		id         int64
		title      string
		images     []string
		priceCents int64
		status     string
	}

	var cart []cartProduct
	for rows.Next() {
		var p cartProduct
		if err := rows.Scan(&p.id, &p.title, &p.images, &p.priceCents, &p.status); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cart product: %w", err)
		}
		cart = append(cart, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(cart) == 0 {
		return nil, ErrCartEmpty
	}

	var totalCents int64
	productIDs := make([]int64, 0, len(cart))
	for _, p := range cart {
		if model.ProductStatus(p.status) != model.ProductStatusAvailable {
			return nil, &ProductUnavailableError{Title: p.title}
		}
		totalCents += p.priceCents
		productIDs = append(productIDs, p.id)
	}

	order := &model.Order{
		BuyerID:    buyerID,
		TotalCents: totalCents,
	}
	var orderStatus string
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (buyer_id, total_cents) VALUES ($1, $2)
		 RETURNING id, status, created_at`,
		buyerID, totalCents,
	).Scan(&order.ID, &orderStatus, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	order.Status = model.OrderStatus(orderStatus)

	for _, p := range cart {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, sold_price_cents)
			 VALUES ($1, $2, 1, $3)`,
			order.ID, p.id, p.priceCents,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}

		order.Items = append(order.Items, model.OrderItem{
			ProductID:      p.id,
			ProductTitle:   p.title,
			ProductImages:  p.images,
			Quantity:       1,
			SoldPriceCents: p.priceCents,
		})
	}

	_, err = tx.Exec(ctx,
		`UPDATE products SET status = 'Sold', updated_at = now() WHERE id = ANY($1)`,
		productIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("mark products sold: %w", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return order, nil
}

// GetOrdersByBuyer возвращает заказы покупателя, новые первыми, вместе со
// строками заказов и проекцией товара (название и изображения).
func (r *PostgresRepository) GetOrdersByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, buyer_id, total_cents, status, created_at
		 FROM orders
		 WHERE buyer_id = $1
		 ORDER BY created_at DESC`,
		buyerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	index := make(map[int64]int)
	for rows.Next() {
		var (
			o      model.Order
			status string
		)
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.TotalCents, &status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = model.OrderStatus(status)
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	orderIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	itemRows, err := r.pool.Query(ctx,
		`SELECT oi.order_id, oi.product_id, p.title, p.images, oi.quantity, oi.sold_price_cents
		 FROM order_items oi
		 JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = ANY($1)
		 ORDER BY oi.id`,
		orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID int64
			item    model.OrderItem
		)
		err := itemRows.Scan(&orderID, &item.ProductID, &item.ProductTitle, &item.ProductImages,
			&item.Quantity, &item.SoldPriceCents)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}
