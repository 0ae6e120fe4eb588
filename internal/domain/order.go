package domain

import "time"

// Order statuses. An order is only written after the payment relay has
// confirmed the charge, so it is born paid.
const (
	OrderStatusPaid = "paid"
)

// Order is the durable record of a completed checkout: the shipping form,
// a snapshot of the cart's line items at purchase time, the total charged,
// and the payment reference returned by the relay. Orders are written once
// and never mutated here; fulfilment owns them afterwards.
type Order struct {
	ID         string     `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	Postcode   string     `json:"postcode"`
	Items      []LineItem `json:"items"`
	Total      float64    `json:"total"`
	PaymentRef string     `json:"payment_ref"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}
