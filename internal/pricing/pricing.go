// Package pricing derives all checkout amounts from cart, quote and remise
// inputs. Pure functions only; amounts are recomputed from scratch on every
// call, never accumulated.
package pricing

import "github.com/nounrr/boukir-storefront/internal/domain"

func Subtotal(items []domain.LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// GrandTotal is subtotal minus promo discount plus shipping. Shipping is 0
// until a quote is obtained; the discount is 0 until a promo validates.
func GrandTotal(subtotal, promoDiscount, shippingCost float64) float64 {
	return subtotal - promoDiscount + shippingCost
}

// EffectiveRemiseDeduction clamps what the customer asked to deduct against
// both their loyalty balance and the order total. A nil request means "use
// the maximum". Without opt-in the deduction is always 0.
func EffectiveRemiseDeduction(optIn bool, requested *float64, balance, orderTotal float64) float64 {
	if !optIn {
		return 0
	}
	maxUsable := clamp(balance, 0, orderTotal)
	amount := maxUsable
	if requested != nil {
		amount = *requested
	}
	return clamp(amount, 0, maxUsable)
}

func RemainingToPay(orderTotal, deduction float64) float64 {
	remaining := orderTotal - deduction
	if remaining < 0 {
		return 0
	}
	return remaining
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
