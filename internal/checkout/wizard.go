package checkout

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/nounrr/boukir-storefront/internal/domain"
	"github.com/nounrr/boukir-storefront/internal/gateway"
	"github.com/nounrr/boukir-storefront/internal/pricing"
	"github.com/nounrr/boukir-storefront/internal/session"
)

// Step is the wizard position. Steps are strictly ordered; validation and
// side effects of step N run before step N+1 becomes reachable.
type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "SHIPPING"
	case StepPayment:
		return "PAYMENT"
	case StepReview:
		return "REVIEW"
	}
	return "UNKNOWN"
}

// SubmitState is the submission sub-state layered over the steps.
type SubmitState string

const (
	StateIdle       SubmitState = "IDLE"
	StateConfirming SubmitState = "CONFIRMING"
	StateSucceeded  SubmitState = "SUCCEEDED"
	StateFailed     SubmitState = "FAILED"
)

// Gateway is the slice of the backend the wizard needs.
type Gateway interface {
	RequestQuote(ctx context.Context, token string, req gateway.QuoteRequest) (*domain.ShippingQuote, error)
	CreateOrder(ctx context.Context, token string, idempotencyKey string, req gateway.OrderRequest) (*domain.Order, error)
	GetProfile(ctx context.Context, token string) (*gateway.Profile, error)
}

// CartAccess is what the wizard needs from the cart reconciler.
type CartAccess interface {
	Get(ctx context.Context) (*domain.Cart, error)
	Clear(ctx context.Context) error
	ClearLocal(ctx context.Context) error
}

// Wizard drives the Shipping → Payment → Review flow for one checkout
// session and owns the submission sub-state.
type Wizard struct {
	mu   sync.Mutex
	sess *session.Session
	cart CartAccess
	gw   Gateway

	draft        domain.CheckoutDraft
	step         Step
	quote        *domain.ShippingQuote
	shippingCost float64
	state        SubmitState
	order        *domain.Order

	// idemKey is reused across retries of the same checkout so a retry after
	// an ambiguous failure can never create a second order.
	idemKey         string
	pendingRedirect string
}

func NewWizard(sess *session.Session, cart CartAccess, gw Gateway) *Wizard {
	w := &Wizard{
		sess:    sess,
		cart:    cart,
		gw:      gw,
		step:    StepShipping,
		state:   StateIdle,
		idemKey: uuid.NewString(),
		draft: domain.CheckoutDraft{
			DeliveryMethod: domain.DeliveryMethodDelivery,
		},
	}
	if p := sess.Profile(); p != nil {
		w.draft.Shipping.FirstName = p.FirstName
		w.draft.Shipping.LastName = p.LastName
		w.draft.Shipping.Phone = p.Phone
		w.draft.Email = p.Email
	}
	return w
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) State() SubmitState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Wizard) Draft() domain.CheckoutDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// SetDraft replaces the form state. Refused while a submission is in flight.
func (w *Wizard) SetDraft(d domain.CheckoutDraft) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateConfirming {
		return ErrSubmitInFlight
	}
	w.draft = d
	return nil
}

func (w *Wizard) ShippingCost() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shippingCost
}

func (w *Wizard) Quote() *domain.ShippingQuote {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.quote
}

// Order returns the transient copy of the created order, nil before success.
func (w *Wizard) Order() *domain.Order {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.order
}

// Next advances one step after validating the current one. Quote failures on
// the shipping step are soft: the cost resets to 0 and the step advances.
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepShipping:
		if errs := validateShipping(w.draft); errs != nil {
			return errs
		}
		if w.draft.DeliveryMethod == domain.DeliveryMethodPickup {
			w.shippingCost = 0
			w.quote = nil
			w.step = StepPayment
			return nil
		}
		w.fetchQuoteLocked(ctx)
		w.step = StepPayment
		return nil

	case StepPayment:
		total, err := w.orderTotalLocked(ctx)
		if err != nil {
			return err
		}
		if errs := validatePayment(w.draft, w.sess.RemiseBalance(), total); errs != nil {
			return errs
		}
		if err := w.soldePrecheckLocked(total); err != nil {
			return err
		}
		w.step = StepReview
		return nil
	}
	return ErrCannotAdvance
}

// Back moves to the previous step without touching the quote or any payment
// state already captured.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step <= StepShipping {
		return ErrCannotGoBack
	}
	w.step--
	return nil
}

// AcknowledgeSuccess consumes the pending navigation target once the success
// animation has finished. Returns false until a submission succeeded, and on
// every call after the first.
func (w *Wizard) AcknowledgeSuccess() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateSucceeded || w.pendingRedirect == "" {
		return "", false
	}
	target := w.pendingRedirect
	w.pendingRedirect = ""
	return target, true
}

// fetchQuoteLocked asks the backend to price shipping. Failure is soft by
// design: cost resets to 0 and checkout continues.
func (w *Wizard) fetchQuoteLocked(ctx context.Context) {
	req := gateway.QuoteRequest{
		UseCart:        w.sess.Authenticated(),
		DeliveryMethod: w.draft.DeliveryMethod,
		PromoCode:      w.draft.PromoCode,
	}
	if w.draft.Latitude != nil && w.draft.Longitude != nil {
		req.ShippingLocation = &gateway.LatLng{
			Latitude:  *w.draft.Latitude,
			Longitude: *w.draft.Longitude,
		}
	}
	if !w.sess.Authenticated() {
		cart, err := w.cart.Get(ctx)
		if err != nil {
			log.Printf("shipping quote skipped, cart read failed: %v", err)
			w.shippingCost = 0
			w.quote = nil
			return
		}
		req.Items = reduceItems(cart.Items)
	}

	quote, err := w.gw.RequestQuote(ctx, w.sess.Token, req)
	if err != nil {
		log.Printf("shipping quote failed, continuing with cost 0: %v", err)
		w.shippingCost = 0
		w.quote = nil
		return
	}
	w.quote = quote
	w.shippingCost = quote.ShippingCost
}

// soldePrecheckLocked mirrors the backend plafond check to save a wasted
// round trip. The backend re-enforces it authoritatively at submission.
func (w *Wizard) soldePrecheckLocked(total float64) error {
	if w.draft.PaymentMethod != domain.PaymentSolde || !w.sess.Authenticated() {
		return nil
	}
	deduction := pricing.EffectiveRemiseDeduction(w.draft.UseRemise, w.draft.RemiseAmount, w.sess.RemiseBalance(), total)
	remaining := pricing.RemainingToPay(total, deduction)
	available, known := w.sess.SoldeAvailable()
	if known && remaining > available {
		return &FlowError{
			Code:    codePlafondExceeded,
			Message: "remaining amount exceeds your deferred payment ceiling",
		}
	}
	return nil
}

func (w *Wizard) orderTotalLocked(ctx context.Context) (float64, error) {
	cart, err := w.cart.Get(ctx)
	if err != nil {
		return 0, err
	}
	subtotal := pricing.Subtotal(cart.Items)
	return pricing.GrandTotal(subtotal, w.draft.PromoDiscount, w.shippingCost), nil
}

func reduceItems(items []domain.LineItem) []gateway.OrderItem {
	out := make([]gateway.OrderItem, len(items))
	for i, item := range items {
		out[i] = gateway.OrderItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			UnitID:    item.UnitID,
			Quantity:  item.Quantity,
		}
	}
	return out
}
