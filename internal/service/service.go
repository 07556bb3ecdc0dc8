// Package service реализует бизнес-логику сервиса маркетплейса.
package service

import (
	"context"
	"errors"

	"github.com/mmeshcher/marketplace-system/internal/model"
	"github.com/mmeshcher/marketplace-system/internal/repository"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
// Сообщение намеренно не уточняет, что именно неверно.
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrProductSold возвращается при попытке добавить в корзину проданный товар.
	ErrProductSold = errors.New("this product is already sold")
	// ErrOwnProduct возвращается при попытке купить собственный товар.
	ErrOwnProduct = errors.New("you cannot add your own product to the cart")
	// ErrNotSeller возвращается, если товар пытается изменить не его продавец.
	ErrNotSeller = errors.New("not authorized to modify this product")
	// ErrProductSoldImmutable возвращается при изменении или удалении проданного товара.
	ErrProductSoldImmutable = errors.New("product has already been sold and cannot be modified")
)

// ValidationError описывает отклонённый пользовательский ввод.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func newValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateUser(ctx context.Context, username, email string, passwordHash []byte) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id int64, username, profileImage *string) (*model.User, error)
	CreateCategory(ctx context.Context, name, description string) (*model.Category, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	CreateProduct(ctx context.Context, p *model.Product) (int64, error)
	GetProducts(ctx context.Context, filter repository.ProductFilter) ([]model.ProductCard, error)
	GetProductByID(ctx context.Context, id int64) (*model.ProductCard, error)
	GetProductsBySeller(ctx context.Context, sellerID int64) ([]model.ProductCard, error)
	UpdateProduct(ctx context.Context, id int64, upd repository.ProductUpdate) (*model.ProductCard, error)
	DeleteProduct(ctx context.Context, id int64) error
	AddCartItem(ctx context.Context, userID, productID int64) error
	RemoveCartItem(ctx context.Context, userID, productID int64) error
	GetCartItems(ctx context.Context, userID int64) ([]model.CartItem, error)
	CreateOrder(ctx context.Context, buyerID int64) (*model.Order, error)
	GetOrdersByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)
}

// Service содержит бизнес-логику сервиса маркетплейса.
type Service struct {
	repo Repository
}

// NewService создаёт новый сервис с указанным репозиторием.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}
