package product

import "errors"

var (
	ErrInvalidName  = errors.New("product name is required")
	ErrInvalidPrice = errors.New("product price must be non-negative")
)

// ServiceInterface lets other packages depend on the product service without
// binding to the concrete type.
type ServiceInterface interface {
	List() []Product
	ListBySeller(sellerID int) []Product
	GetByID(id int) (Product, error)
	Create(p Product) (Product, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) List() []Product {
	return s.repo.List()
}

func (s *Service) ListBySeller(sellerID int) []Product {
	return s.repo.ListBySeller(sellerID)
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	if p.Name == "" {
		return Product{}, ErrInvalidName
	}
	if p.Price < 0 {
		return Product{}, ErrInvalidPrice
	}
	return s.repo.Create(p)
}
