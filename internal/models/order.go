package models

import "time"

// Order represents a placed burger order as reported by the backend
type Order struct {
	ID          string      `json:"_id"`
	Number      int         `json:"number"`
	Status      OrderStatus `json:"status"`
	Name        string      `json:"name"`
	Ingredients []string    `json:"ingredients"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// OrderStatus represents the possible states of an order
type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPending OrderStatus = "pending"
	OrderStatusDone    OrderStatus = "done"
)

// FeedPage is the public order feed with its aggregate counters
type FeedPage struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	TotalToday int     `json:"totalToday"`
}
