package product

// Product represents an item listed on the marketplace by a seller. Prices
// are whole currency units, never negative.
type Product struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	SellerID   int     `json:"sellerId"`
	SellerName string  `json:"sellerName"`
	Location   string  `json:"location"`
	ImageData  *string `json:"imageData,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
	UpdatedAt  string  `json:"updatedAt,omitempty"`
}
