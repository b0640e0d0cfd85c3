package domain

// ShippingQuote is the server-computed shipping cost for a delivery order,
// held as the authoritative cost for the rest of the checkout session.
type ShippingQuote struct {
	ShippingCost float64  `json:"shippingCost"`
	DistanceKm   *float64 `json:"distanceKm,omitempty"`
}

// Order is the transient copy of the record created by submission. The
// authoritative order is owned entirely by the backend.
type Order struct {
	ID               int64    `json:"id"`
	OrderNumber      string   `json:"orderNumber"`
	TotalAmount      float64  `json:"totalAmount"`
	Status           string   `json:"status"`
	PaymentStatus    string   `json:"paymentStatus"`
	RemiseUsedAmount *float64 `json:"remiseUsedAmount,omitempty"`
	IsSolde          bool     `json:"isSolde,omitempty"`
	SoldeAmount      *float64 `json:"soldeAmount,omitempty"`
}
