package order

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("order not found")

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ord Order) (Order, error)
	GetByID(id int) (Order, error)
	ListByBuyer(buyerID int) ([]Order, error)
	// ListUndelivered returns orders still in flight (placed or shipped),
	// oldest first. The rider feed is derived from this.
	ListUndelivered() ([]Order, error)
	UpdateStatus(id int, status string, updatedAt string) (Order, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
	nextID int
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{
		orders: make([]Order, 0, len(seed)),
		nextID: 1,
	}

	maxID := 0
	for _, ord := range seed {
		r.orders = append(r.orders, ord)
		if ord.ID > maxID {
			maxID = ord.ID
		}
	}

	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) Create(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ord.ID == 0 {
		ord.ID = r.nextID
		r.nextID++
	}

	r.orders = append(r.orders, ord)
	return ord, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ord := range r.orders {
		if ord.ID == id {
			return ord, nil
		}
	}

	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByBuyer(buyerID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.BuyerID == buyerID {
			out = append(out, ord)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListUndelivered() ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.Status == StatusPlaced || ord.Status == StatusShipped {
			out = append(out, ord)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id int, status string, updatedAt string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, ord := range r.orders {
		if ord.ID == id {
			ord.Status = status
			if updatedAt != "" {
				ord.UpdatedAt = updatedAt
			}
			r.orders[i] = ord
			return ord, nil
		}
	}

	return Order{}, ErrNotFound
}
