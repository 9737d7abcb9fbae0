package job

import (
	"github.com/swiftlogi/marketplace/internal/order"
)

// Service derives the rider feed from the order store and drives delivery
// status transitions.
type Service struct {
	orders order.ServiceInterface
}

func NewService(orders order.ServiceInterface) *Service {
	return &Service{orders: orders}
}

// List returns open jobs, one per undelivered order, oldest first.
func (s *Service) List() ([]Job, error) {
	undelivered, err := s.orders.ListUndelivered()
	if err != nil {
		return nil, err
	}

	jobs := make([]Job, 0, len(undelivered))
	for _, ord := range undelivered {
		jobs = append(jobs, FromOrder(ord))
	}
	return jobs, nil
}

// Accept marks an order as picked up by a rider.
func (s *Service) Accept(orderID int) (Job, error) {
	ord, err := s.orders.SetStatus(orderID, order.StatusShipped)
	if err != nil {
		return Job{}, err
	}
	return FromOrder(ord), nil
}

// Deliver marks an accepted order as delivered.
func (s *Service) Deliver(orderID int) (Job, error) {
	ord, err := s.orders.SetStatus(orderID, order.StatusDelivered)
	if err != nil {
		return Job{}, err
	}
	return FromOrder(ord), nil
}

// SetStatus applies an arbitrary (validated) status to an order.
func (s *Service) SetStatus(orderID int, status string) (Job, error) {
	ord, err := s.orders.SetStatus(orderID, status)
	if err != nil {
		return Job{}, err
	}
	return FromOrder(ord), nil
}
