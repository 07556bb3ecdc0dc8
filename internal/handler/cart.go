package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/marketplace-system/internal/model"
)

func toCartResponse(items []model.CartItem) []productResponse {
	res := make([]productResponse, 0, len(items))
	for i := range items {
		res = append(res, toProductResponse(&items[i].Product))
	}
	return res
}

// GetCart возвращает корзину текущего пользователя с разрешёнными товарами.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	items, err := h.service.GetCart(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, err, "get cart error", zap.Int64("userID", user.ID))
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(items))
}

type addToCartRequest struct {
	ProductID int64 `json:"productId"`
}

// AddToCart добавляет товар в корзину текущего пользователя.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	items, err := h.service.AddToCart(r.Context(), user.ID, req.ProductID)
	if err != nil {
		h.handleServiceError(w, err, "add to cart error",
			zap.Int64("userID", user.ID), zap.Int64("productID", req.ProductID))
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(items))
}

// RemoveFromCart удаляет товар из корзины текущего пользователя.
// Операция идемпотентна.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	productID, ok := parsePathID(r, "productId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	items, err := h.service.RemoveFromCart(r.Context(), user.ID, productID)
	if err != nil {
		h.handleServiceError(w, err, "remove from cart error",
			zap.Int64("userID", user.ID), zap.Int64("productID", productID))
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(items))
}
