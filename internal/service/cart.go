package service

import (
	"context"

	"github.com/mmeshcher/marketplace-system/internal/model"
)

// AddToCart добавляет товар в корзину пользователя и возвращает её новое
// содержимое. Порядок проверок: товар существует, не продан, не принадлежит
// самому покупателю, ещё не в корзине.
func (s *Service) AddToCart(ctx context.Context, userID, productID int64) ([]model.CartItem, error) {
	p, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if p.Status == model.ProductStatusSold {
		return nil, ErrProductSold
	}
	if p.SellerID == userID {
		return nil, ErrOwnProduct
	}

	if err := s.repo.AddCartItem(ctx, userID, productID); err != nil {
		return nil, err
	}

	return s.repo.GetCartItems(ctx, userID)
}

// RemoveFromCart удаляет товар из корзины и возвращает её новое содержимое.
// Операция идемпотентна: удаление отсутствующего товара не является ошибкой.
func (s *Service) RemoveFromCart(ctx context.Context, userID, productID int64) ([]model.CartItem, error) {
	if err := s.repo.RemoveCartItem(ctx, userID, productID); err != nil {
		return nil, err
	}

	return s.repo.GetCartItems(ctx, userID)
}

// GetCart возвращает корзину пользователя с разрешёнными товарами.
func (s *Service) GetCart(ctx context.Context, userID int64) ([]model.CartItem, error) {
	return s.repo.GetCartItems(ctx, userID)
}
