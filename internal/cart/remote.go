package cart

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/nounrr/boukir-storefront/internal/domain"
	"github.com/nounrr/boukir-storefront/internal/gateway"
)

// Backend is the slice of the remote gateway the cart needs.
type Backend interface {
	GetCart(ctx context.Context, token string) ([]domain.LineItem, error)
	AddCartItem(ctx context.Context, token string, productID int64, variantID *int64, quantity int) error
	UpdateCartItem(ctx context.Context, token string, itemID int64, quantity int) error
	RemoveCartItem(ctx context.Context, token string, itemID int64) error
	ClearCart(ctx context.Context, token string) error
}

func NewRemoteStore(backend Backend, token string) *RemoteStore {
	return &RemoteStore{backend: backend, token: token}
}

// RemoteStore is the authenticated cart. The server owns it: the store never
// trusts a locally computed total and always refetches after a mutation
// instead of patching its own copy.
type RemoteStore struct {
	backend Backend
	token   string
	sfg     singleflight.Group // collapses concurrent fetches per token
}

func (r *RemoteStore) Get(ctx context.Context) (*domain.Cart, error) {
	v, err, _ := r.sfg.Do(r.token, func() (interface{}, error) {
		items, err := r.backend.GetCart(ctx, r.token)
		if err != nil {
			return nil, err
		}
		return &domain.Cart{Items: items}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

func (r *RemoteStore) Add(ctx context.Context, item domain.LineItem) error {
	if item.Quantity < 1 {
		return ErrQuantityFloor
	}
	if err := r.backend.AddCartItem(ctx, r.token, item.ProductID, item.VariantID, item.Quantity); err != nil {
		return mapStockError(err)
	}
	return nil
}

func (r *RemoteStore) UpdateQuantity(ctx context.Context, ref ItemRef, quantity int) error {
	if quantity < 1 {
		return ErrQuantityFloor
	}

	// Proactive limit check against the fetched line, to avoid a round trip
	// the server would reject anyway. The server stays authoritative.
	cart, err := r.Get(ctx)
	if err == nil {
		for _, item := range cart.Items {
			if item.ItemID == ref.ItemID {
				if limit, ok := item.ResolvePurchaseLimit(); ok && quantity > limit {
					return ErrPurchaseLimit
				}
				break
			}
		}
	}

	if err := r.backend.UpdateCartItem(ctx, r.token, ref.ItemID, quantity); err != nil {
		return mapStockError(err)
	}
	return nil
}

func (r *RemoteStore) Remove(ctx context.Context, ref ItemRef) error {
	err := r.backend.RemoveCartItem(ctx, r.token, ref.ItemID)
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil // already gone
	}
	return err
}

func (r *RemoteStore) Clear(ctx context.Context) error {
	return r.backend.ClearCart(ctx, r.token)
}

// mapStockError translates classified backend failures to the store's
// sentinel errors so callers handle guest and remote carts uniformly.
func mapStockError(err error) error {
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Kind {
	case gateway.KindPurchaseLimit:
		return ErrPurchaseLimit
	case gateway.KindOutOfStock:
		return ErrOutOfStock
	}
	return err
}
