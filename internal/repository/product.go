package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmeshcher/marketplace-system/internal/model"
)

const productCardColumns = `p.id, p.title, p.description, p.price_cents, p.images,
	p.category_id, p.seller_id, p.status, p.created_at, p.updated_at,
	u.username, u.email, u.profile_image, c.name`

// ProductFilter задаёт параметры выборки каталога.
type ProductFilter struct {
	CategoryID *int64
	Keyword    string
}

// ProductUpdate описывает частичное обновление товара. Поля со значением nil
// остаются без изменений.
type ProductUpdate struct {
	Title       *string
	Description *string
	PriceCents  *int64
	Images      []string
	CategoryID  *int64
}

// CreateProduct сохраняет новый товар и возвращает его идентификатор.
func (r *PostgresRepository) CreateProduct(ctx context.Context, p *model.Product) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (title, description, price_cents, images, category_id, seller_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		p.Title, p.Description, p.PriceCents, p.Images, p.CategoryID, p.SellerID, string(p.Status),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return 0, ErrCategoryNotFound
		}
		return 0, fmt.Errorf("create product: %w", err)
	}
	return id, nil
}

// GetProducts возвращает доступные товары каталога по фильтру, новые первыми.
// Ключевое слово ищется регистронезависимо в названии и описании.
func (r *PostgresRepository) GetProducts(ctx context.Context, filter ProductFilter) ([]model.ProductCard, error) {
	query := `SELECT ` + productCardColumns + `
		 FROM products p
		 JOIN users u ON u.id = p.seller_id
		 JOIN categories c ON c.id = p.category_id
		 WHERE p.status = 'Available'`
	args := []any{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += ` AND p.category_id = $` + strconv.Itoa(len(args))
	}
	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (p.title ILIKE $` + n + ` OR p.description ILIKE $` + n + `)`
	}

	query += ` ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	return scanProductCards(rows)
}

// GetProductByID возвращает товар с данными продавца и категории.
func (r *PostgresRepository) GetProductByID(ctx context.Context, id int64) (*model.ProductCard, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productCardColumns+`
		 FROM products p
		 JOIN users u ON u.id = p.seller_id
		 JOIN categories c ON c.id = p.category_id
		 WHERE p.id = $1`,
		id,
	)

	p, err := scanProductCard(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetProductsBySeller возвращает все объявления продавца независимо от статуса,
// новые первыми.
func (r *PostgresRepository) GetProductsBySeller(ctx context.Context, sellerID int64) ([]model.ProductCard, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productCardColumns+`
		 FROM products p
		 JOIN users u ON u.id = p.seller_id
		 JOIN categories c ON c.id = p.category_id
		 WHERE p.seller_id = $1
		 ORDER BY p.created_at DESC`,
		sellerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select seller products: %w", err)
	}
	defer rows.Close()

	return scanProductCards(rows)
}

// UpdateProduct применяет частичное обновление товара и возвращает результат.
func (r *PostgresRepository) UpdateProduct(ctx context.Context, id int64, upd ProductUpdate) (*model.ProductCard, error) {
	_, err := r.pool.Exec(ctx,
		`UPDATE products
		 SET title = COALESCE($2, title),
		     description = COALESCE($3, description),
		     price_cents = COALESCE($4, price_cents),
		     images = COALESCE($5, images),
		     category_id = COALESCE($6, category_id),
		     updated_at = now()
		 WHERE id = $1`,
		id, upd.Title, upd.Description, upd.PriceCents, upd.Images, upd.CategoryID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	return r.GetProductByID(ctx, id)
}

// DeleteProduct удаляет товар. Позиции корзин, ссылающиеся на него,
// удаляются каскадно.
func (r *PostgresRepository) DeleteProduct(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func scanProductCard(row pgx.Row) (*model.ProductCard, error) {
	var (
		p      model.ProductCard
		status string
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.PriceCents, &p.Images,
		&p.CategoryID, &p.SellerID, &status, &p.CreatedAt, &p.UpdatedAt,
		&p.SellerUsername, &p.SellerEmail, &p.SellerProfileImage, &p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	p.Status = model.ProductStatus(status)
	return &p, nil
}

func scanProductCards(rows pgx.Rows) ([]model.ProductCard, error) {
	var res []model.ProductCard
	for rows.Next() {
		p, err := scanProductCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		res = append(res, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}
