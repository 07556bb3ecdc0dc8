package service

import (
	"context"

	"github.com/mmeshcher/marketplace-system/internal/model"
)

// CreateOrder оформляет заказ из корзины покупателя: фиксирует цены,
// помечает товары проданными и очищает корзину одной транзакцией хранилища.
func (s *Service) CreateOrder(ctx context.Context, buyerID int64) (*model.Order, error) {
	return s.repo.CreateOrder(ctx, buyerID)
}

// GetPurchaseHistory возвращает историю покупок пользователя, новые первыми.
func (s *Service) GetPurchaseHistory(ctx context.Context, buyerID int64) ([]model.Order, error) {
	return s.repo.GetOrdersByBuyer(ctx, buyerID)
}
