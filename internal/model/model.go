// Package model содержит доменные сущности сервиса маркетплейса.
package model

import "time"

// DefaultProfileImage используется, если пользователь не загрузил свой аватар.
const DefaultProfileImage = "https://placehold.co/150x150/EFEFEF/3A3A3A?text=No+Image"

// DefaultProductImage используется, если продавец не указал изображения товара.
const DefaultProductImage = "https://placehold.co/600x400/EFEFEF/3A3A3A?text=No+Image"

// User представляет зарегистрированного пользователя маркетплейса.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash []byte
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Category представляет категорию товаров.
type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// ProductStatus описывает статус товара.
type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "Available"
	ProductStatusSold      ProductStatus = "Sold"
)

// Product описывает товар, выставленный пользователем на продажу.
// Цена хранится в копейках и конвертируется на границе API.
type Product struct {
	ID          int64
	Title       string
	Description string
	PriceCents  int64
	Images      []string
	CategoryID  int64
	SellerID    int64
	Status      ProductStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductCard — проекция товара для чтения: сам товар вместе с данными
// продавца и названием категории, разрешёнными на стороне БД.
type ProductCard struct {
	Product
	SellerUsername     string
	SellerEmail        string
	SellerProfileImage string
	CategoryName       string
}

// CartItem — позиция корзины пользователя с разрешённым товаром.
// Количество не хранится: позиция корзины ссылается ровно на один товар.
type CartItem struct {
	Product ProductCard
	AddedAt time.Time
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// OrderItem — строка заказа с зафиксированной на момент покупки ценой.
type OrderItem struct {
	ProductID      int64
	ProductTitle   string
	ProductImages  []string
	Quantity       int
	SoldPriceCents int64
}

// Order описывает заказ, созданный из корзины покупателя.
type Order struct {
	ID         int64
	BuyerID    int64
	Items      []OrderItem
	TotalCents int64
	Status     OrderStatus
	CreatedAt  time.Time
}
