// Package cart implements the transient client-side shopping cart. A cart
// lives only for the duration of a session; nothing here persists.
package cart

import (
	"github.com/swiftlogi/marketplace/internal/product"
)

// Line is one cart entry. Adding a product already in the cart increments its
// quantity instead of appending a duplicate line.
type Line struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal is price times quantity for this line.
func (l Line) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Cart holds lines in insertion order with an index by product id. It is not
// safe for concurrent use; the dispatcher serializes access.
type Cart struct {
	lines []Line
	index map[int]int
}

func New() *Cart {
	return &Cart{index: make(map[int]int)}
}

// Add merges a product into the cart by id.
func (c *Cart) Add(p product.Product) {
	if i, ok := c.index[p.ID]; ok {
		c.lines[i].Quantity++
		return
	}
	c.index[p.ID] = len(c.lines)
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
	})
}

// Clear empties the cart. Called after a confirmed checkout or on explicit
// user request, never on a failed one.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[int]int)
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is the sum of subtotals over all lines.
func (c *Cart) Total() float64 {
	sum := 0.0
	for _, l := range c.lines {
		sum += l.Subtotal()
	}
	return sum
}

// ItemCount is the sum of quantities over all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}
