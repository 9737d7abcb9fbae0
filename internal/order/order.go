package order

import "errors"

// Status values an order moves through. Transitions are validated; anything
// outside CanTransition is rejected.
const (
	StatusPlaced    = "placed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusRejected  = "rejected"
)

var ErrBadTransition = errors.New("illegal status transition")

// Item is one line of an order: a product reference frozen at purchase time.
type Item struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order represents a confirmed purchase. Items keep their insertion order.
type Order struct {
	ID         int     `json:"id"`
	BuyerID    int     `json:"buyerId"`
	Items      []Item  `json:"items"`
	TotalPrice float64 `json:"totalPrice"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPlaced, StatusShipped, StatusDelivered, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
// placed -> shipped (rider accepts), shipped -> delivered, placed -> rejected.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPlaced:
		return to == StatusShipped || to == StatusRejected
	case StatusShipped:
		return to == StatusDelivered
	}
	return false
}
