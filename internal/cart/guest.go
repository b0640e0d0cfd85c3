package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/nounrr/boukir-storefront/internal/domain"
	"github.com/nounrr/boukir-storefront/internal/storage"
)

func NewGuestStore(store storage.SessionStore, sessionID string) *GuestStore {
	return &GuestStore{store: store, sessionID: sessionID}
}

// GuestStore keeps the unauthenticated cart as one JSON array in the session
// store. The client is authoritative here: no backend re-check is possible,
// so the purchase-limit guard runs locally before any mutation is persisted.
type GuestStore struct {
	store     storage.SessionStore
	sessionID string
}

func (g *GuestStore) Get(ctx context.Context) (*domain.Cart, error) {
	items, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Cart{Items: items}, nil
}

// Add merges by identity key: a second add of the same product/variant pair
// increments the existing line instead of creating a new row.
func (g *GuestStore) Add(ctx context.Context, item domain.LineItem) error {
	if item.Quantity < 1 {
		return ErrQuantityFloor
	}
	items, err := g.load(ctx)
	if err != nil {
		return err
	}

	key := item.Key()
	merged := false
	for i := range items {
		if items[i].Key() == key {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}
	return g.save(ctx, items)
}

func (g *GuestStore) UpdateQuantity(ctx context.Context, ref ItemRef, quantity int) error {
	if quantity < 1 {
		return ErrQuantityFloor
	}
	items, err := g.load(ctx)
	if err != nil {
		return err
	}

	idx := -1
	key := ref.Key()
	for i := range items {
		if items[i].Key() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	if limit, ok := items[idx].ResolvePurchaseLimit(); ok && quantity > limit {
		return ErrPurchaseLimit
	}

	items[idx].Quantity = quantity
	return g.save(ctx, items)
}

// Remove filters the line out by identity key. Removing an absent line is
// not an error.
func (g *GuestStore) Remove(ctx context.Context, ref ItemRef) error {
	items, err := g.load(ctx)
	if err != nil {
		return err
	}

	key := ref.Key()
	kept := items[:0]
	for _, item := range items {
		if item.Key() != key {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return g.save(ctx, kept)
}

func (g *GuestStore) Clear(ctx context.Context) error {
	return g.store.Delete(ctx, g.sessionID)
}

// load treats a missing document as an empty cart and a corrupt one the same
// way, after logging it. A broken blob must never take the storefront down.
func (g *GuestStore) load(ctx context.Context) ([]domain.LineItem, error) {
	data, err := g.store.Get(ctx, g.sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load guest cart failed: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("corrupt guest cart for session %s, starting empty: %v", g.sessionID, err)
		return nil, nil
	}
	return items, nil
}

func (g *GuestStore) save(ctx context.Context, items []domain.LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal guest cart failed: %w", err)
	}
	return g.store.Set(ctx, g.sessionID, data)
}

// replace overwrites the stored lines wholesale; the migration path uses it
// to keep only the lines that failed to transfer.
func (g *GuestStore) replace(ctx context.Context, items []domain.LineItem) error {
	if len(items) == 0 {
		return g.Clear(ctx)
	}
	return g.save(ctx, items)
}
