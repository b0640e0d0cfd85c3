package domain

type DeliveryMethod string

const (
	DeliveryMethodDelivery DeliveryMethod = "delivery"
	DeliveryMethodPickup   DeliveryMethod = "pickup"
)

func (m DeliveryMethod) Valid() bool {
	return m == DeliveryMethodDelivery || m == DeliveryMethodPickup
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCard           PaymentMethod = "card"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
	PaymentMobile         PaymentMethod = "mobile_payment"
	PaymentSolde          PaymentMethod = "solde" // deferred payment against the customer's approved balance
	PaymentInStore        PaymentMethod = "pay_in_store"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCashOnDelivery, PaymentCard, PaymentBankTransfer,
		PaymentMobile, PaymentSolde, PaymentInStore:
		return true
	}
	return false
}

// Address holds the shipping or billing contact block of the checkout form.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Postal    string `json:"postal"`
}

// CardDetails is presentational only; actual authorization happens on the
// backend, these fields are never stored.
type CardDetails struct {
	Number string `json:"number"`
	Holder string `json:"holder"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
}

// CheckoutDraft is the in-progress form state of the checkout wizard. It is
// created when checkout starts (prefilled from the profile where available)
// and discarded after a successful order or when the user walks away.
type CheckoutDraft struct {
	DeliveryMethod   DeliveryMethod `json:"deliveryMethod"`
	PickupLocationID *int64         `json:"pickupLocationId,omitempty"`
	Shipping         Address        `json:"shipping"`
	Billing          *Address       `json:"billing,omitempty"`
	PaymentMethod    PaymentMethod  `json:"paymentMethod"`
	Card             *CardDetails   `json:"card,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	Email            string         `json:"email,omitempty"`

	UseRemise    bool     `json:"useRemise"`
	RemiseAmount *float64 `json:"remiseAmount,omitempty"` // requested deduction; nil means "use the max"

	PromoCode     string  `json:"promoCode,omitempty"`
	PromoDiscount float64 `json:"promoDiscount,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
