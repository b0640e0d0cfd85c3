package domain

import (
	"math"
	"strconv"
)

// LineItem is one product (optionally a variant/unit) in a cart. Field names
// follow the backend wire shape; the purchase limit may arrive under several
// historical aliases, see ResolvePurchaseLimit.
type LineItem struct {
	ItemID      int64   `json:"id,omitempty"` // server-assigned cart item id, authenticated carts only
	ProductID   int64   `json:"productId"`
	VariantID   *int64  `json:"variantId,omitempty"`
	UnitID      *int64  `json:"unitId,omitempty"`
	Name        string  `json:"name"`
	VariantName string  `json:"variantName,omitempty"`
	UnitName    string  `json:"unitName,omitempty"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`

	PurchaseLimit      *float64   `json:"purchase_limit,omitempty"`
	PurchaseLimitAlias *float64   `json:"purchaseLimit,omitempty"`
	Stock              *StockInfo `json:"stock,omitempty"`
}

// StockInfo carries the per-product stock rules nested form of the purchase
// limit. Both spellings exist in the wild.
type StockInfo struct {
	PurchaseLimit      *float64 `json:"purchase_limit,omitempty"`
	PurchaseLimitAlias *float64 `json:"purchaseLimit,omitempty"`
}

// Key returns the guest-cart identity key for the line. Two adds with the
// same key merge into one line. The exact format is shared by every surface
// that touches the guest cart, so it must never change shape.
func (li LineItem) Key() string {
	if li.VariantID != nil {
		return strconv.FormatInt(li.ProductID, 10) + "-" + strconv.FormatInt(*li.VariantID, 10)
	}
	return strconv.FormatInt(li.ProductID, 10)
}

// ResolvePurchaseLimit walks the known aliases in precedence order and
// returns the first finite value as a quantity ceiling. Returns false when
// no alias holds a usable number, meaning no limit applies.
func (li LineItem) ResolvePurchaseLimit() (int, bool) {
	candidates := []*float64{li.PurchaseLimit, li.PurchaseLimitAlias}
	if li.Stock != nil {
		candidates = append(candidates, li.Stock.PurchaseLimit, li.Stock.PurchaseLimitAlias)
	}
	for _, c := range candidates {
		if c == nil {
			continue
		}
		v := *c
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		return int(v), true
	}
	return 0, false
}

// Cart is the ordered collection of line items for the active session.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Total is always recomputed from the lines, never stored.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindByKey returns the index of the line matching the identity key, or -1.
func (c *Cart) FindByKey(key string) int {
	for i, item := range c.Items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}
