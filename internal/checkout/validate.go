package checkout

import (
	"strings"

	"github.com/nounrr/boukir-storefront/internal/domain"
)

const (
	minAddressLen = 5
	minCityLen    = 2
)

// validateShipping checks the fields owned by the shipping step. Delivery
// needs a usable address; pickup needs a selected location.
func validateShipping(d domain.CheckoutDraft) FieldErrors {
	errs := FieldErrors{}

	if !d.DeliveryMethod.Valid() {
		errs["deliveryMethod"] = "choose delivery or pickup"
	}
	if strings.TrimSpace(d.Shipping.FirstName) == "" {
		errs["firstName"] = "first name is required"
	}
	if strings.TrimSpace(d.Shipping.LastName) == "" {
		errs["lastName"] = "last name is required"
	}
	if strings.TrimSpace(d.Shipping.Phone) == "" {
		errs["phone"] = "phone is required"
	}

	switch d.DeliveryMethod {
	case domain.DeliveryMethodDelivery:
		if len(strings.TrimSpace(d.Shipping.Address)) < minAddressLen {
			errs["address"] = "address is too short"
		}
		if len(strings.TrimSpace(d.Shipping.City)) < minCityLen {
			errs["city"] = "city is too short"
		}
	case domain.DeliveryMethodPickup:
		if d.PickupLocationID == nil {
			errs["pickupLocationId"] = "select a pickup location"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validatePayment checks the payment step: method sub-fields plus the
// cross-field rules the backend would reject anyway.
func validatePayment(d domain.CheckoutDraft, balance, orderTotal float64) FieldErrors {
	errs := FieldErrors{}

	if !d.PaymentMethod.Valid() {
		errs["paymentMethod"] = "choose a payment method"
	}

	if d.PaymentMethod == domain.PaymentCashOnDelivery && d.DeliveryMethod == domain.DeliveryMethodPickup {
		errs["paymentMethod"] = "cash on delivery is not available for pickup orders"
	}

	if d.PaymentMethod == domain.PaymentCard {
		if d.Card == nil {
			errs["card"] = "card details are required"
		} else {
			if strings.TrimSpace(d.Card.Number) == "" {
				errs["cardNumber"] = "card number is required"
			}
			if strings.TrimSpace(d.Card.Holder) == "" {
				errs["cardHolder"] = "card holder is required"
			}
			if strings.TrimSpace(d.Card.Expiry) == "" {
				errs["cardExpiry"] = "expiry is required"
			}
			if strings.TrimSpace(d.Card.CVC) == "" {
				errs["cardCvc"] = "security code is required"
			}
		}
	}

	if d.UseRemise && d.RemiseAmount != nil {
		maxUsable := balance
		if orderTotal < maxUsable {
			maxUsable = orderTotal
		}
		if *d.RemiseAmount < 0 || *d.RemiseAmount > maxUsable {
			errs["remiseAmount"] = "amount exceeds what can be deducted"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
