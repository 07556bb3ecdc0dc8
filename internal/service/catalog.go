package service

import (
	"context"
	"errors"
	"math"

	"github.com/mmeshcher/marketplace-system/internal/model"
	"github.com/mmeshcher/marketplace-system/internal/repository"
)

// ProductInput содержит данные нового товара.
type ProductInput struct {
	Title       string
	Description string
	Price       float64
	CategoryID  int64
	Images      []string
}

// ProductPatch описывает частичное обновление товара. Поля со значением nil
// остаются без изменений.
type ProductPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Images      []string
	CategoryID  *int64
}

func priceToCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CreateProduct создаёт объявление о продаже от имени продавца.
// Пустой список изображений заменяется заглушкой.
func (s *Service) CreateProduct(ctx context.Context, sellerID int64, in ProductInput) (*model.ProductCard, error) {
	if in.Title == "" || in.Description == "" || in.CategoryID == 0 {
		return nil, newValidationError("please provide all required fields: title, description, price, and category")
	}
	if in.Price < 0 {
		return nil, newValidationError("price must be a positive number")
	}

	images := in.Images
	if len(images) == 0 {
		images = []string{model.DefaultProductImage}
	}

	id, err := s.repo.CreateProduct(ctx, &model.Product{
		Title:       in.Title,
		Description: in.Description,
		PriceCents:  priceToCents(in.Price),
		Images:      images,
		CategoryID:  in.CategoryID,
		SellerID:    sellerID,
		Status:      model.ProductStatusAvailable,
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetProductByID(ctx, id)
}

// GetProducts возвращает доступные товары каталога, новые первыми.
func (s *Service) GetProducts(ctx context.Context, categoryID *int64, keyword string) ([]model.ProductCard, error) {
	return s.repo.GetProducts(ctx, repository.ProductFilter{
		CategoryID: categoryID,
		Keyword:    keyword,
	})
}

// GetProductByID возвращает товар с данными продавца и категории.
func (s *Service) GetProductByID(ctx context.Context, id int64) (*model.ProductCard, error) {
	return s.repo.GetProductByID(ctx, id)
}

// GetUserListings возвращает все объявления пользователя, включая проданные.
func (s *Service) GetUserListings(ctx context.Context, sellerID int64) ([]model.ProductCard, error) {
	return s.repo.GetProductsBySeller(ctx, sellerID)
}

// UpdateProduct применяет частичное обновление товара. Изменять товар может
// только его продавец, проданный товар неизменяем.
func (s *Service) UpdateProduct(ctx context.Context, sellerID, productID int64, patch ProductPatch) (*model.ProductCard, error) {
	p, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if p.SellerID != sellerID {
		return nil, ErrNotSeller
	}
	if p.Status == model.ProductStatusSold {
		return nil, ErrProductSoldImmutable
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, newValidationError("price must be a positive number")
	}

	upd := repository.ProductUpdate{
		Title:       patch.Title,
		Description: patch.Description,
		Images:      patch.Images,
		CategoryID:  patch.CategoryID,
	}
	if patch.Price != nil {
		cents := priceToCents(*patch.Price)
		upd.PriceCents = &cents
	}

	return s.repo.UpdateProduct(ctx, productID, upd)
}

// DeleteProduct удаляет объявление. Удалять товар может только его продавец;
// проданный товар не удаляется, чтобы не ломать историю заказов покупателя.
func (s *Service) DeleteProduct(ctx context.Context, sellerID, productID int64) error {
	p, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}

	if p.SellerID != sellerID {
		return ErrNotSeller
	}
	if p.Status == model.ProductStatusSold {
		return ErrProductSoldImmutable
	}

	err = s.repo.DeleteProduct(ctx, productID)
	if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
		return err
	}
	return nil
}

// CreateCategory создаёт новую категорию с уникальным именем.
func (s *Service) CreateCategory(ctx context.Context, name, description string) (*model.Category, error) {
	if name == "" {
		return nil, newValidationError("category name is required")
	}
	return s.repo.CreateCategory(ctx, name, description)
}

// GetCategories возвращает все категории, отсортированные по имени.
func (s *Service) GetCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.GetCategories(ctx)
}
