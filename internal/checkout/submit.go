package checkout

import (
	"context"
	"errors"
	"log"

	"github.com/nounrr/boukir-storefront/internal/domain"
	"github.com/nounrr/boukir-storefront/internal/gateway"
	"github.com/nounrr/boukir-storefront/internal/pricing"
)

// Submit runs the order creation flow from the review step. The confirming
// state is observable before the network round trip starts, and every
// failure branch leaves the draft intact so the user can retry.
func (w *Wizard) Submit(ctx context.Context) error {
	cart, err := w.cart.Get(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	switch w.state {
	case StateConfirming:
		w.mu.Unlock()
		return ErrSubmitInFlight
	case StateSucceeded:
		w.mu.Unlock()
		return ErrAlreadyPlaced
	}

	if cart.IsEmpty() {
		w.mu.Unlock()
		return ErrEmptyCart
	}

	subtotal := pricing.Subtotal(cart.Items)
	total := pricing.GrandTotal(subtotal, w.draft.PromoDiscount, w.shippingCost)
	deduction := pricing.EffectiveRemiseDeduction(w.draft.UseRemise, w.draft.RemiseAmount, w.sess.RemiseBalance(), total)
	remaining := pricing.RemainingToPay(total, deduction)

	if w.draft.PaymentMethod == domain.PaymentSolde {
		if !w.sess.Authenticated() {
			w.mu.Unlock()
			return &FlowError{
				Code:     codeAuthRequired,
				Message:  "sign in to pay with your solde balance",
				Redirect: loginRedirect,
			}
		}
		if available, known := w.sess.SoldeAvailable(); known && remaining > 0 && remaining > available {
			w.mu.Unlock()
			return &FlowError{
				Code:    codePlafondExceeded,
				Message: "remaining amount exceeds your deferred payment ceiling",
			}
		}
	}

	w.state = StateConfirming
	req := w.buildOrderRequestLocked(cart, deduction)
	token := w.sess.Token
	idemKey := w.idemKey
	w.mu.Unlock()

	order, submitErr := w.gw.CreateOrder(ctx, token, idemKey, req)

	w.mu.Lock()
	defer w.mu.Unlock()

	if submitErr != nil {
		w.state = StateFailed
		return w.mapSubmitErrorLocked(ctx, submitErr)
	}

	// Best effort: the order already succeeded, a failed remote clear is
	// only logged. The local cart is wiped unconditionally.
	if w.sess.Authenticated() {
		if err := w.cart.Clear(ctx); err != nil {
			log.Printf("clearing server cart after order %s failed: %v", order.OrderNumber, err)
		}
	}
	if err := w.cart.ClearLocal(ctx); err != nil {
		log.Printf("clearing local cart after order %s failed: %v", order.OrderNumber, err)
	}

	w.order = order
	w.state = StateSucceeded
	w.pendingRedirect = ordersRedirect
	return nil
}

func (w *Wizard) buildOrderRequestLocked(cart *domain.Cart, deduction float64) gateway.OrderRequest {
	req := gateway.OrderRequest{
		FirstName:      w.draft.Shipping.FirstName,
		LastName:       w.draft.Shipping.LastName,
		Phone:          w.draft.Shipping.Phone,
		Email:          w.draft.Email,
		DeliveryMethod: w.draft.DeliveryMethod,
		PaymentMethod:  w.draft.PaymentMethod,
		Notes:          w.draft.Notes,
		PromoCode:      w.draft.PromoCode,
		UseCart:        w.sess.Authenticated(),
	}

	if w.draft.DeliveryMethod == domain.DeliveryMethodPickup {
		req.PickupLocationID = w.draft.PickupLocationID
	} else {
		shipping := w.draft.Shipping
		req.ShippingAddress = &shipping
	}

	if !w.sess.Authenticated() {
		req.Items = reduceItems(cart.Items)
	}

	if w.draft.UseRemise {
		req.UseRemise = true
		amount := deduction
		req.RemiseAmount = &amount
	}
	return req
}

// mapSubmitErrorLocked translates the backend's errorType discriminator into
// the user-facing outcome for each failure branch.
func (w *Wizard) mapSubmitErrorLocked(ctx context.Context, err error) error {
	var orderErr *gateway.OrderError
	if !errors.As(err, &orderErr) {
		return &FlowError{Code: codeOrderFailed, Message: "order could not be created, please try again"}
	}

	switch orderErr.Kind {
	case gateway.KindSoldeAuthRequired:
		return &FlowError{
			Code:     codeAuthRequired,
			Message:  "sign in to pay with your solde balance",
			Redirect: loginRedirect,
		}
	case gateway.KindSoldeNotAllowed:
		return &FlowError{
			Code:    codeSoldeNotAllowed,
			Message: "solde payment is not enabled for this account",
		}
	case gateway.KindSoldePlafondExceeded:
		flow := &FlowError{
			Code:    codePlafondExceeded,
			Message: "this order would exceed your deferred payment ceiling",
		}
		if orderErr.Plafond != nil && orderErr.SoldeCumule != nil &&
			orderErr.SoldeAmount != nil && orderErr.SoldeProjected != nil {
			flow.Plafond = orderErr.Plafond
			flow.SoldeCumule = orderErr.SoldeCumule
			flow.SoldeAmount = orderErr.SoldeAmount
			flow.SoldeProjected = orderErr.SoldeProjected
		}
		w.refreshProfileLocked(ctx)
		return flow
	}
	return &FlowError{Code: codeOrderFailed, Message: "order could not be created, please try again"}
}

// refreshProfileLocked re-fetches the balance snapshot so a retry shows the
// current ceiling. Failures are swallowed: the refresh must never mask the
// submission outcome.
func (w *Wizard) refreshProfileLocked(ctx context.Context) {
	profile, err := w.gw.GetProfile(ctx, w.sess.Token)
	if err != nil {
		log.Printf("balance refresh after plafond rejection failed: %v", err)
		return
	}
	w.sess.SetProfile(profile)
}
