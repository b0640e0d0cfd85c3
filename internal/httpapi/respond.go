package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/nounrr/boukir-storefront/internal/cart"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`

	// solde context, present only on plafond rejections with full figures
	Plafond        *float64 `json:"plafond,omitempty"`
	SoldeCumule    *float64 `json:"soldeCumule,omitempty"`
	SoldeAmount    *float64 `json:"soldeAmount,omitempty"`
	SoldeProjected *float64 `json:"soldeProjected,omitempty"`

	Redirect string `json:"redirect,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleCartError maps store sentinels to user-facing conditions. Anything
// unclassified is a generic failure, never a raw transport error string.
func handleCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrQuantityFloor):
		respondError(w, http.StatusBadRequest, "quantity_floor", "quantity cannot go below 1, remove the item instead")
	case errors.Is(err, cart.ErrPurchaseLimit):
		respondError(w, http.StatusConflict, "purchase_limit_exceeded", "purchase limit reached for this item")
	case errors.Is(err, cart.ErrOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock", "this item is no longer in stock")
	case errors.Is(err, cart.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "unauthorized", "sign in to continue")
	default:
		log.Printf("cart operation failed: %v", err)
		respondError(w, http.StatusBadGateway, "cart_unavailable", "cart is temporarily unavailable")
	}
}
