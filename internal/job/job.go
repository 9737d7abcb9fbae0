package job

import (
	"fmt"

	"github.com/swiftlogi/marketplace/internal/order"
)

// Job is the rider-facing projection of an order awaiting delivery. It is
// derived, never persisted.
type Job struct {
	OrderID     int     `json:"orderId"`
	ProductName string  `json:"productName"`
	ItemCount   int     `json:"itemCount"`
	Payout      float64 `json:"payout"`
	Pickup      string  `json:"pickup"`
	Dropoff     string  `json:"dropoff"`
	Status      string  `json:"status"`
}

// flat delivery fee per job, matching the fixed payout shown in the rider feed
const deliveryPayout = 2500

// FromOrder projects an order into its rider view.
func FromOrder(ord order.Order) Job {
	name := ""
	count := 0
	for _, item := range ord.Items {
		count += item.Quantity
	}
	if len(ord.Items) > 0 {
		name = ord.Items[0].Name
		if len(ord.Items) > 1 {
			name = fmt.Sprintf("%s +%d more", name, len(ord.Items)-1)
		}
	}
	return Job{
		OrderID:     ord.ID,
		ProductName: name,
		ItemCount:   count,
		Payout:      deliveryPayout,
		Pickup:      "Seller warehouse",
		Dropoff:     fmt.Sprintf("Buyer #%d", ord.BuyerID),
		Status:      ord.Status,
	}
}
