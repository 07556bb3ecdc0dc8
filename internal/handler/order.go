package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/marketplace-system/internal/model"
)

type orderProductResponse struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Images []string `json:"images"`
}

type orderItemResponse struct {
	ProductDetails orderProductResponse `json:"productDetails"`
	Quantity       int                  `json:"quantity"`
	SoldPrice      float64              `json:"soldPrice"`
}

type orderResponse struct {
	ID          int64               `json:"id"`
	Buyer       int64               `json:"buyer"`
	Products    []orderItemResponse `json:"products"`
	TotalAmount float64             `json:"totalAmount"`
	Status      string              `json:"status"`
	CreatedAt   string              `json:"createdAt"`
}

func toOrderResponse(o *model.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductDetails: orderProductResponse{
				ID:     item.ProductID,
				Title:  item.ProductTitle,
				Images: item.ProductImages,
			},
			Quantity:  item.Quantity,
			SoldPrice: centsToPrice(item.SoldPriceCents),
		})
	}

	return orderResponse{
		ID:          o.ID,
		Buyer:       o.BuyerID,
		Products:    items,
		TotalAmount: centsToPrice(o.TotalCents),
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
}

// CreateOrder оформляет заказ из корзины текущего пользователя.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	order, err := h.service.CreateOrder(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, err, "create order error", zap.Int64("buyerID", user.ID))
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// GetPurchaseHistory возвращает историю покупок текущего пользователя,
// новые заказы первыми.
func (h *Handler) GetPurchaseHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	orders, err := h.service.GetPurchaseHistory(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, err, "get purchase history error", zap.Int64("buyerID", user.ID))
		return
	}

	res := make([]orderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, toOrderResponse(&orders[i]))
	}

	writeJSON(w, http.StatusOK, res)
}
