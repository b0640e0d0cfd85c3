package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/nounrr/boukir-storefront/internal/cart"
	"github.com/nounrr/boukir-storefront/internal/checkout"
	"github.com/nounrr/boukir-storefront/internal/domain"
	"github.com/nounrr/boukir-storefront/internal/session"
	"github.com/nounrr/boukir-storefront/internal/storage"
)

// wizardRegistry holds the live checkout per session. Abandoned wizards are
// dropped when the session starts checkout again.
type wizardRegistry struct {
	m       sync.Mutex
	wizards map[string]*checkout.Wizard
}

func newWizardRegistry() *wizardRegistry {
	return &wizardRegistry{wizards: make(map[string]*checkout.Wizard)}
}

func (r *wizardRegistry) get(sessionID string) (*checkout.Wizard, bool) {
	r.m.Lock()
	defer r.m.Unlock()
	w, ok := r.wizards[sessionID]
	return w, ok
}

func (r *wizardRegistry) put(sessionID string, w *checkout.Wizard) {
	r.m.Lock()
	defer r.m.Unlock()
	r.wizards[sessionID] = w
}

func (r *wizardRegistry) drop(sessionID string) {
	r.m.Lock()
	defer r.m.Unlock()
	delete(r.wizards, sessionID)
}

type CheckoutHandler struct {
	backend  Backend
	sessions storage.SessionStore
	registry *wizardRegistry
}

func NewCheckoutHandler(backend Backend, sessions storage.SessionStore) *CheckoutHandler {
	return &CheckoutHandler{
		backend:  backend,
		sessions: sessions,
		registry: newWizardRegistry(),
	}
}

func (h *CheckoutHandler) cartFor(sess *session.Session) *cart.Reconciler {
	return cart.NewReconciler(
		cart.NewGuestStore(h.sessions, sess.ID),
		cart.NewRemoteStore(h.backend, sess.Token),
		sess,
	)
}

type checkoutState struct {
	Step         int                   `json:"step"`
	StepName     string                `json:"stepName"`
	SubmitState  checkout.SubmitState  `json:"submitState"`
	ShippingCost float64               `json:"shippingCost"`
	Quote        *domain.ShippingQuote `json:"quote,omitempty"`
	Draft        domain.CheckoutDraft  `json:"draft"`
	Order        *domain.Order         `json:"order,omitempty"`
}

func stateOf(w *checkout.Wizard) checkoutState {
	return checkoutState{
		Step:         int(w.Step()),
		StepName:     w.Step().String(),
		SubmitState:  w.State(),
		ShippingCost: w.ShippingCost(),
		Quote:        w.Quote(),
		Draft:        w.Draft(),
		Order:        w.Order(),
	}
}

// Start opens a fresh wizard for the session, prefilling the draft from the
// profile when the caller is authenticated. Any previous wizard is replaced.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	if sess.Authenticated() {
		profile, err := h.backend.GetProfile(r.Context(), sess.Token)
		if err != nil {
			// prefill is convenience, checkout still works without it
			log.Printf("profile prefill failed for session %s: %v", sess.ID, err)
		} else {
			sess.SetProfile(profile)
		}
	}

	wiz := checkout.NewWizard(sess, h.cartFor(sess), h.backend)
	h.registry.put(sess.ID, wiz)
	respondJSON(w, http.StatusCreated, stateOf(wiz))
}

func (h *CheckoutHandler) wizard(w http.ResponseWriter, r *http.Request) (*checkout.Wizard, bool) {
	sess := sessionFrom(r.Context())
	wiz, ok := h.registry.get(sess.ID)
	if !ok {
		respondError(w, http.StatusNotFound, "no_checkout", "no checkout in progress, start one first")
		return nil, false
	}
	return wiz, true
}

func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	wiz, ok := h.wizard(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, stateOf(wiz))
}

func (h *CheckoutHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	wiz, ok := h.wizard(w, r)
	if !ok {
		return
	}
	var draft domain.CheckoutDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := wiz.SetDraft(draft); err != nil {
		respondError(w, http.StatusConflict, "submit_in_flight", "order submission is in progress")
		return
	}
	respondJSON(w, http.StatusOK, stateOf(wiz))
}

func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	wiz, ok := h.wizard(w, r)
	if !ok {
		return
	}
	if err := wiz.Next(r.Context()); err != nil {
		h.respondFlowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stateOf(wiz))
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	wiz, ok := h.wizard(w, r)
	if !ok {
		return
	}
	if err := wiz.Back(); err != nil {
		respondError(w, http.StatusBadRequest, "cannot_go_back", "already at the first step")
		return
	}
	respondJSON(w, http.StatusOK, stateOf(wiz))
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	wiz, ok := h.wizard(w, r)
	if !ok {
		return
	}
	if wiz.Step() != checkout.StepReview {
		respondError(w, http.StatusConflict, "not_at_review", "complete the previous steps first")
		return
	}
	if err := wiz.Submit(r.Context()); err != nil {
		h.respondFlowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stateOf(wiz))
}

// Ack consumes the pending redirect once the success animation finished,
// and retires the wizard.
func (h *CheckoutHandler) Ack(w http.ResponseWriter, r *http.Request) {
	wiz, ok := h.wizard(w, r)
	if !ok {
		return
	}
	target, ready := wiz.AcknowledgeSuccess()
	if !ready {
		respondError(w, http.StatusConflict, "not_succeeded", "no successful submission to acknowledge")
		return
	}
	h.registry.drop(sessionFrom(r.Context()).ID)
	respondJSON(w, http.StatusOK, map[string]string{"redirect": target})
}

func (h *CheckoutHandler) respondFlowError(w http.ResponseWriter, err error) {
	var fieldErrs checkout.FieldErrors
	if errors.As(err, &fieldErrs) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "some fields are invalid",
			Code:   "validation_failed",
			Fields: fieldErrs,
		})
		return
	}

	var flowErr *checkout.FlowError
	if errors.As(err, &flowErr) {
		status := http.StatusUnprocessableEntity
		if flowErr.Redirect != "" {
			status = http.StatusUnauthorized
		}
		respondJSON(w, status, ErrorResponse{
			Error:          flowErr.Message,
			Code:           flowErr.Code,
			Redirect:       flowErr.Redirect,
			Plafond:        flowErr.Plafond,
			SoldeCumule:    flowErr.SoldeCumule,
			SoldeAmount:    flowErr.SoldeAmount,
			SoldeProjected: flowErr.SoldeProjected,
		})
		return
	}

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "your cart is empty")
	case errors.Is(err, checkout.ErrSubmitInFlight):
		respondError(w, http.StatusConflict, "submit_in_flight", "order submission is in progress")
	case errors.Is(err, checkout.ErrAlreadyPlaced):
		respondError(w, http.StatusConflict, "already_placed", "this order was already placed")
	case errors.Is(err, checkout.ErrCannotAdvance):
		respondError(w, http.StatusBadRequest, "cannot_advance", "submit from the review step")
	default:
		log.Printf("checkout step failed: %v", err)
		respondError(w, http.StatusBadGateway, "checkout_unavailable", "checkout is temporarily unavailable")
	}
}
