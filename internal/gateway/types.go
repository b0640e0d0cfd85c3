package gateway

import "github.com/nounrr/boukir-storefront/internal/domain"

// LatLng carries optional coordinates for a shipping quote.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OrderItem is the reduced line shape sent for guest orders and quotes.
// Display fields are stripped; the backend reprices from its catalog.
type OrderItem struct {
	ProductID int64  `json:"productId"`
	VariantID *int64 `json:"variantId,omitempty"`
	UnitID    *int64 `json:"unitId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// QuoteRequest asks the backend to price shipping for a delivery order.
// UseCart tells it to source items from the server-side cart; guests send
// the items explicitly instead.
type QuoteRequest struct {
	UseCart          bool                  `json:"useCart"`
	DeliveryMethod   domain.DeliveryMethod `json:"deliveryMethod"`
	ShippingLocation *LatLng               `json:"shippingLocation,omitempty"`
	PromoCode        string                `json:"promoCode,omitempty"`
	Items            []OrderItem           `json:"items,omitempty"`
}

// OrderRequest is the full order-creation payload. ShippingAddress is
// omitted entirely for pickup orders.
type OrderRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`

	ShippingAddress *domain.Address `json:"shippingAddress,omitempty"`

	DeliveryMethod   domain.DeliveryMethod `json:"deliveryMethod"`
	PickupLocationID *int64                `json:"pickupLocationId,omitempty"`
	PaymentMethod    domain.PaymentMethod  `json:"paymentMethod"`
	Notes            string                `json:"notes,omitempty"`
	PromoCode        string                `json:"promoCode,omitempty"`

	UseCart bool        `json:"useCart"`
	Items   []OrderItem `json:"items,omitempty"`

	UseRemise    bool     `json:"useRemise,omitempty"`
	RemiseAmount *float64 `json:"remiseAmount,omitempty"`
}

// Profile is the current-user snapshot used for draft prefill and for the
// solde ceiling refresh after a plafond rejection.
type Profile struct {
	ID            int64    `json:"id"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	RemiseBalance float64  `json:"remiseBalance"`
	Plafond       *float64 `json:"plafond,omitempty"`
	SoldeCumule   float64  `json:"soldeCumule"`
}
