package apiclient

import (
	"errors"
	"fmt"

	"github.com/swiftlogi/marketplace/internal/order"
	"github.com/swiftlogi/marketplace/internal/user"
)

// ErrConnection marks failures where no response arrived at all. The UI shows
// these as a connection error, distinct from a server-side rejection.
var ErrConnection = errors.New("connection error")

// APIError is a non-2xx response carrying the server's {error} payload.
// Resubmitting with corrected input is the expected recovery.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (%d)", e.StatusCode)
}

type errorResponse struct {
	Error string `json:"error"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     user.Role `json:"role"`
}

// CreateProductRequest is the payload for a seller listing a product.
type CreateProductRequest struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Location  string  `json:"location"`
	ImageData *string `json:"image,omitempty"`
}

type createOrderRequest struct {
	BuyerID    int          `json:"buyerId"`
	Items      []order.Item `json:"items"`
	TotalPrice float64      `json:"totalPrice"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

type registerResponse struct {
	User user.User `json:"user"`
}

type createOrderResponse struct {
	Order order.Order `json:"order"`
}

type statusRequest struct {
	Status string `json:"status"`
}
