package order

import (
	"errors"
	"math"
	"time"
)

var (
	ErrEmptyCart     = errors.New("cart cannot be empty")
	ErrBadQuantity   = errors.New("item quantity must be at least 1")
	ErrBadPrice      = errors.New("item price must be non-negative")
	ErrTotalMismatch = errors.New("total does not match cart contents")
)

// ServiceInterface lets other packages depend on the order service without
// binding to the concrete type.
type ServiceInterface interface {
	Create(ord Order) (Order, error)
	GetByID(id int) (Order, error)
	ListByBuyer(buyerID int) ([]Order, error)
	ListUndelivered() ([]Order, error)
	SetStatus(id int, status string) (Order, error)
}

// Service provides business logic for orders.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

// Create validates and persists a checkout. The submitted total must match
// the sum over items; the server never trusts a client-computed price alone.
func (s *Service) Create(ord Order) (Order, error) {
	if ord.BuyerID <= 0 {
		return Order{}, errors.New("invalid buyer")
	}
	if len(ord.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	sum := 0.0
	for _, item := range ord.Items {
		if item.Quantity < 1 {
			return Order{}, ErrBadQuantity
		}
		if item.Price < 0 {
			return Order{}, ErrBadPrice
		}
		sum += item.Price * float64(item.Quantity)
	}
	if math.Abs(sum-ord.TotalPrice) > 0.001 {
		return Order{}, ErrTotalMismatch
	}

	ord.Status = StatusPlaced
	now := time.Now().UTC().Format(time.RFC3339)
	ord.CreatedAt = now
	ord.UpdatedAt = now
	return s.repo.Create(ord)
}

func (s *Service) GetByID(id int) (Order, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByBuyer(buyerID int) ([]Order, error) {
	return s.repo.ListByBuyer(buyerID)
}

func (s *Service) ListUndelivered() ([]Order, error) {
	return s.repo.ListUndelivered()
}

// SetStatus moves an order through its lifecycle, enforcing the transition
// table in CanTransition.
func (s *Service) SetStatus(id int, status string) (Order, error) {
	if !ValidStatus(status) {
		return Order{}, ErrBadTransition
	}

	current, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(current.Status, status) {
		return Order{}, ErrBadTransition
	}

	return s.repo.UpdateStatus(id, status, time.Now().UTC().Format(time.RFC3339))
}
