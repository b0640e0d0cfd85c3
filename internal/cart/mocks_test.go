package cart

import (
	"context"
	"sync"

	"github.com/nounrr/boukir-storefront/internal/domain"
)

type mockBackend struct {
	m     sync.Mutex
	items []domain.LineItem

	getErr    error
	updateErr error
	removeErr error
	clearErr  error
	addErrFor map[int64]error // per-product add failures

	addCalls    int
	updateCalls int
	getCalls    int
	nextItemID  int64
}

func (b *mockBackend) GetCart(context.Context, string) ([]domain.LineItem, error) {
	b.m.Lock()
	defer b.m.Unlock()
	b.getCalls++
	if b.getErr != nil {
		return nil, b.getErr
	}
	out := make([]domain.LineItem, len(b.items))
	copy(out, b.items)
	return out, nil
}

func (b *mockBackend) AddCartItem(_ context.Context, _ string, productID int64, variantID *int64, quantity int) error {
	b.m.Lock()
	defer b.m.Unlock()
	b.addCalls++
	if err := b.addErrFor[productID]; err != nil {
		return err
	}
	b.nextItemID++
	b.items = append(b.items, domain.LineItem{
		ItemID:    b.nextItemID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	})
	return nil
}

func (b *mockBackend) UpdateCartItem(_ context.Context, _ string, itemID int64, quantity int) error {
	b.m.Lock()
	defer b.m.Unlock()
	b.updateCalls++
	if b.updateErr != nil {
		return b.updateErr
	}
	for i := range b.items {
		if b.items[i].ItemID == itemID {
			b.items[i].Quantity = quantity
			return nil
		}
	}
	return nil
}

func (b *mockBackend) RemoveCartItem(_ context.Context, _ string, itemID int64) error {
	b.m.Lock()
	defer b.m.Unlock()
	if b.removeErr != nil {
		return b.removeErr
	}
	for i, item := range b.items {
		if item.ItemID == itemID {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (b *mockBackend) ClearCart(context.Context, string) error {
	b.m.Lock()
	defer b.m.Unlock()
	if b.clearErr != nil {
		return b.clearErr
	}
	b.items = nil
	return nil
}

func (b *mockBackend) snapshot() []domain.LineItem {
	b.m.Lock()
	defer b.m.Unlock()
	out := make([]domain.LineItem, len(b.items))
	copy(out, b.items)
	return out
}
