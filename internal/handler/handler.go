// Package handler содержит HTTP-обработчики API сервиса маркетплейса.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/marketplace-system/internal/middleware"
	"github.com/mmeshcher/marketplace-system/internal/model"
	"github.com/mmeshcher/marketplace-system/internal/repository"
	"github.com/mmeshcher/marketplace-system/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	SignupUser(ctx context.Context, username, email, password string) (*model.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, username, profileImage *string) (*model.User, error)
	CreateProduct(ctx context.Context, sellerID int64, in service.ProductInput) (*model.ProductCard, error)
	GetProducts(ctx context.Context, categoryID *int64, keyword string) ([]model.ProductCard, error)
	GetProductByID(ctx context.Context, id int64) (*model.ProductCard, error)
	GetUserListings(ctx context.Context, sellerID int64) ([]model.ProductCard, error)
	UpdateProduct(ctx context.Context, sellerID, productID int64, patch service.ProductPatch) (*model.ProductCard, error)
	DeleteProduct(ctx context.Context, sellerID, productID int64) error
	CreateCategory(ctx context.Context, name, description string) (*model.Category, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	AddToCart(ctx context.Context, userID, productID int64) ([]model.CartItem, error)
	RemoveFromCart(ctx context.Context, userID, productID int64) ([]model.CartItem, error)
	GetCart(ctx context.Context, userID int64) ([]model.CartItem, error)
	CreateOrder(ctx context.Context, buyerID int64) (*model.Order, error)
	GetPurchaseHistory(ctx context.Context, buyerID int64) ([]model.Order, error)
}

// Handler реализует HTTP-обработчики API сервиса маркетплейса.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, map[string]string{"error": msg})
}

// statusForError отображает ошибки бизнес-логики на таксономию HTTP-статусов:
// нарушения бизнес-правил и плохой ввод — 400, отсутствие сущности — 404,
// действие чужого продавца — 401.
func statusForError(err error) (int, bool) {
	var validationErr *service.ValidationError
	var unavailableErr *repository.ProductUnavailableError

	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &unavailableErr),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrProductSold),
		errors.Is(err, service.ErrOwnProduct),
		errors.Is(err, service.ErrProductSoldImmutable),
		errors.Is(err, repository.ErrEmailTaken),
		errors.Is(err, repository.ErrUsernameTaken),
		errors.Is(err, repository.ErrCategoryExists),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrProductAlreadyInCart),
		errors.Is(err, repository.ErrCartEmpty):
		return http.StatusBadRequest, true
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProductNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, service.ErrNotSeller):
		return http.StatusUnauthorized, true
	default:
		return 0, false
	}
}

// handleServiceError пишет клиенту ошибку бизнес-логики или, для неожиданных
// сбоев, логирует их и отвечает обезличенной 500.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, logMsg string, fields ...zap.Field) {
	if statusCode, ok := statusForError(err); ok {
		writeError(w, statusCode, err.Error())
		return
	}

	h.logger.Error(logMsg, append(fields, zap.Error(err))...)
	writeError(w, http.StatusInternalServerError, "server error")
}

func currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	u, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "request not authorized")
		return nil, false
	}
	return u, true
}

func centsToPrice(cents int64) float64 {
	return float64(cents) / 100
}
