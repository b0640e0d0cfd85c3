package cart

import (
	"context"
	"errors"

	"github.com/nounrr/boukir-storefront/internal/domain"
)

// Store is the single cart abstraction every UI surface talks to, regardless
// of whether the session is a guest or an authenticated customer.
type Store interface {
	Get(ctx context.Context) (*domain.Cart, error)
	Add(ctx context.Context, item domain.LineItem) error
	UpdateQuantity(ctx context.Context, ref ItemRef, quantity int) error
	Remove(ctx context.Context, ref ItemRef) error
	Clear(ctx context.Context) error
}

// ItemRef identifies a cart line. Authenticated carts address lines by the
// server-assigned ItemID; guest carts address them by the identity key
// derived from ProductID and VariantID.
type ItemRef struct {
	ItemID    int64
	ProductID int64
	VariantID *int64
}

func (r ItemRef) Key() string {
	return domain.LineItem{ProductID: r.ProductID, VariantID: r.VariantID}.Key()
}

var (
	ErrQuantityFloor    = errors.New("quantity below 1, remove the item instead")
	ErrPurchaseLimit    = errors.New("purchase limit reached for this item")
	ErrOutOfStock       = errors.New("item is out of stock")
	ErrNotAuthenticated = errors.New("operation requires an authenticated session")
)
