package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nounrr/boukir-storefront/internal/cart"
	"github.com/nounrr/boukir-storefront/internal/checkout"
	"github.com/nounrr/boukir-storefront/internal/domain"
	"github.com/nounrr/boukir-storefront/internal/storage"
)

// Backend is everything the BFF needs from the commerce API.
type Backend interface {
	cart.Backend
	checkout.Gateway
}

type CartHandler struct {
	backend  Backend
	sessions storage.SessionStore
}

func NewCartHandler(backend Backend, sessions storage.SessionStore) *CartHandler {
	return &CartHandler{backend: backend, sessions: sessions}
}

// reconcilerFor builds the per-request cart view: guest storage plus the
// remote store, with the session deciding which one is live.
func (h *CartHandler) reconcilerFor(r *http.Request) *cart.Reconciler {
	sess := sessionFrom(r.Context())
	return cart.NewReconciler(
		cart.NewGuestStore(h.sessions, sess.ID),
		cart.NewRemoteStore(h.backend, sess.Token),
		sess,
	)
}

type cartResponse struct {
	Items []domain.LineItem `json:"items"`
	Total float64           `json:"total"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.reconcilerFor(r).Get(r.Context())
	if err != nil {
		handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse{Items: c.Items, Total: c.Total()})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var item domain.LineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if item.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return
	}
	if item.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	rec := h.reconcilerFor(r)
	if err := rec.Add(r.Context(), item); err != nil {
		handleCartError(w, err)
		return
	}
	c, err := rec.Get(r.Context())
	if err != nil {
		handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse{Items: c.Items, Total: c.Total()})
}

type updateQuantityRequest struct {
	ItemID    int64  `json:"itemId,omitempty"`
	ProductID int64  `json:"productId,omitempty"`
	VariantID *int64 `json:"variantId,omitempty"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	ref := cart.ItemRef{ItemID: req.ItemID, ProductID: req.ProductID, VariantID: req.VariantID}
	rec := h.reconcilerFor(r)
	if err := rec.UpdateQuantity(r.Context(), ref, req.Quantity); err != nil {
		handleCartError(w, err)
		return
	}
	c, err := rec.Get(r.Context())
	if err != nil {
		handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse{Items: c.Items, Total: c.Total()})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ref := cart.ItemRef{}
	if v := r.URL.Query().Get("itemId"); v != "" {
		ref.ItemID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := r.URL.Query().Get("productId"); v != "" {
		ref.ProductID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := r.URL.Query().Get("variantId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			ref.VariantID = &id
		}
	}

	rec := h.reconcilerFor(r)
	if err := rec.Remove(r.Context(), ref); err != nil {
		handleCartError(w, err)
		return
	}
	c, err := rec.Get(r.Context())
	if err != nil {
		handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse{Items: c.Items, Total: c.Total()})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.reconcilerFor(r).Clear(r.Context()); err != nil {
		handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse{Items: nil, Total: 0})
}

type migrateResponse struct {
	Migrated bool               `json:"migrated"`
	Failed   []migrationFailure `json:"failed,omitempty"`
}

type migrationFailure struct {
	ProductID int64  `json:"productId"`
	VariantID *int64 `json:"variantId,omitempty"`
	Reason    string `json:"reason"`
}

// Migrate replays the guest cart into the freshly authenticated remote cart.
// The UI calls it right after login so the pre-login cart does not vanish.
func (h *CartHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	failures, err := h.reconcilerFor(r).MigrateGuestCart(r.Context())
	if err != nil {
		handleCartError(w, err)
		return
	}

	resp := migrateResponse{Migrated: len(failures) == 0}
	for _, f := range failures {
		reason := "could not be added"
		switch f.Err {
		case cart.ErrOutOfStock:
			reason = "out of stock"
		case cart.ErrPurchaseLimit:
			reason = "purchase limit reached"
		}
		resp.Failed = append(resp.Failed, migrationFailure{
			ProductID: f.Item.ProductID,
			VariantID: f.Item.VariantID,
			Reason:    reason,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}
