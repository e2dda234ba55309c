package model

import "time"

// OrderStatus is derived from the statuses of the order's donations; the
// donation records stay the source of truth for pickup and delivery state.
type OrderStatus string

const (
	OrderStatusPendingPickup OrderStatus = "pending_pickup"
	OrderStatusInProgress    OrderStatus = "in_progress"
	OrderStatusCompleted     OrderStatus = "completed"
)

// OrderItem is one reserved donation within an NGO order
type OrderItem struct {
	DonationID string  `json:"donation_id"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	DonorName  string  `json:"donor_name"`
	FoodType   string  `json:"food_type"`
	QRPayload  string  `json:"qr_payload"`
}

// Order is an NGO's batch reservation of donations
type Order struct {
	ID              string      `json:"id"`
	NGOID           string      `json:"ngo_id"`
	NGOName         string      `json:"ngo_name"`
	Items           []OrderItem `json:"items"`
	Status          OrderStatus `json:"status"`
	DeliveryAddress string      `json:"delivery_address"`
	TotalItems      int         `json:"total_items"`
	CreatedAt       time.Time   `json:"created_at"`
}

// CreateOrderRequest represents order creation parameters
type CreateOrderRequest struct {
	DonationIDs     []string `json:"donation_ids" binding:"required,min=1"`
	DeliveryAddress string   `json:"delivery_address" binding:"required"`
}
