package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/marketplace-system/internal/model"
	"github.com/mmeshcher/marketplace-system/internal/service"
)

type sellerResponse struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

type categoryRefResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type productResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Price       float64             `json:"price"`
	Images      []string            `json:"images"`
	Category    categoryRefResponse `json:"category"`
	Seller      sellerResponse      `json:"seller"`
	Status      string              `json:"status"`
	CreatedAt   string              `json:"createdAt"`
	UpdatedAt   string              `json:"updatedAt"`
}

func toProductResponse(p *model.ProductCard) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       centsToPrice(p.PriceCents),
		Images:      p.Images,
		Category: categoryRefResponse{
			ID:   p.CategoryID,
			Name: p.CategoryName,
		},
		Seller: sellerResponse{
			ID:           p.SellerID,
			Username:     p.SellerUsername,
			Email:        p.SellerEmail,
			ProfileImage: p.SellerProfileImage,
		},
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func toProductResponses(products []model.ProductCard) []productResponse {
	res := make([]productResponse, 0, len(products))
	for i := range products {
		res = append(res, toProductResponse(&products[i]))
	}
	return res
}

func parsePathID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type createProductRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    int64    `json:"category"`
	Images      []string `json:"images"`
}

// CreateProduct создаёт объявление о продаже от имени текущего пользователя.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.service.CreateProduct(r.Context(), user.ID, service.ProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.Category,
		Images:      req.Images,
	})
	if err != nil {
		h.handleServiceError(w, err, "create product error", zap.Int64("sellerID", user.ID))
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

// GetProducts возвращает доступные товары каталога с фильтрацией по категории
// и поиском по ключевому слову.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	var categoryID *int64
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category ID")
			return
		}
		categoryID = &id
	}

	products, err := h.service.GetProducts(r.Context(), categoryID, r.URL.Query().Get("keyword"))
	if err != nil {
		h.handleServiceError(w, err, "get products error")
		return
	}

	writeJSON(w, http.StatusOK, toProductResponses(products))
}

// GetProductByID возвращает один товар с данными продавца и категории.
func (h *Handler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get product error", zap.Int64("productID", id))
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// GetMyListings возвращает все объявления текущего пользователя.
func (h *Handler) GetMyListings(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	products, err := h.service.GetUserListings(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, err, "get listings error", zap.Int64("sellerID", user.ID))
		return
	}

	writeJSON(w, http.StatusOK, toProductResponses(products))
}

type updateProductRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *int64   `json:"category"`
	Images      []string `json:"images"`
}

// UpdateProduct применяет частичное обновление объявления текущего продавца.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), user.ID, id, service.ProductPatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		CategoryID:  req.Category,
	})
	if err != nil {
		h.handleServiceError(w, err, "update product error", zap.Int64("productID", id))
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// DeleteProduct удаляет объявление текущего продавца.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.service.DeleteProduct(r.Context(), user.ID, id); err != nil {
		h.handleServiceError(w, err, "delete product error", zap.Int64("productID", id))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted successfully"})
}
