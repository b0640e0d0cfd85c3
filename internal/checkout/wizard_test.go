package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nounrr/boukir-storefront/internal/domain"
	"github.com/nounrr/boukir-storefront/internal/gateway"
	"github.com/nounrr/boukir-storefront/internal/session"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int64) *int64     { return &v }

func guestSession() *session.Session {
	return session.New("sess1", "", nil)
}

func authSession(profile *gateway.Profile) *session.Session {
	return session.New("sess1", "tok", profile)
}

func validDeliveryDraft() domain.CheckoutDraft {
	return domain.CheckoutDraft{
		DeliveryMethod: domain.DeliveryMethodDelivery,
		Shipping: domain.Address{
			FirstName: "Nora",
			LastName:  "Bellamy",
			Phone:     "0612345678",
			Address:   "12 rue des Lilas",
			City:      "Tanger",
		},
		PaymentMethod: domain.PaymentCashOnDelivery,
	}
}

func cartWith(price float64, qty int) *mockCart {
	return &mockCart{cart: &domain.Cart{Items: []domain.LineItem{
		{ProductID: 10, Price: price, Quantity: qty},
	}}}
}

func TestNext_InvalidShippingBlocksWithoutQuote(t *testing.T) {
	gw := &mockGateway{quote: &domain.ShippingQuote{ShippingCost: 10}}
	sut := NewWizard(guestSession(), cartWith(25, 1), gw)

	draft := validDeliveryDraft()
	draft.Shipping.Address = "abc" // too short
	require.NoError(t, sut.SetDraft(draft))

	err := sut.Next(context.Background())
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "address")
	assert.Equal(t, StepShipping, sut.Step())
	assert.Equal(t, 0, gw.quoteCalls, "validation failure must not trigger a quote")
}

func TestNext_PickupSetsZeroShippingWithoutQuote(t *testing.T) {
	gw := &mockGateway{quote: &domain.ShippingQuote{ShippingCost: 10}}
	sut := NewWizard(guestSession(), cartWith(25, 1), gw)

	draft := validDeliveryDraft()
	draft.DeliveryMethod = domain.DeliveryMethodPickup
	draft.PickupLocationID = ptrI(4)
	require.NoError(t, sut.SetDraft(draft))

	require.NoError(t, sut.Next(context.Background()))
	assert.Equal(t, StepPayment, sut.Step())
	assert.Zero(t, sut.ShippingCost())
	assert.Equal(t, 0, gw.quoteCalls)
}

func TestNext_DeliveryFetchesQuote_GuestSendsItems(t *testing.T) {
	distance := 8.0
	gw := &mockGateway{quote: &domain.ShippingQuote{ShippingCost: 15, DistanceKm: &distance}}
	sut := NewWizard(guestSession(), cartWith(25, 2), gw)
	require.NoError(t, sut.SetDraft(validDeliveryDraft()))

	require.NoError(t, sut.Next(context.Background()))
	assert.Equal(t, StepPayment, sut.Step())
	assert.InDelta(t, 15.0, sut.ShippingCost(), 1e-9)
	assert.Equal(t, 1, gw.quoteCalls)
	assert.False(t, gw.lastQuote.UseCart)
	require.Len(t, gw.lastQuote.Items, 1)
	assert.Equal(t, 2, gw.lastQuote.Items[0].Quantity)
}

func TestNext_DeliveryAuthenticatedUsesServerCart(t *testing.T) {
	gw := &mockGateway{quote: &domain.ShippingQuote{ShippingCost: 15}}
	sut := NewWizard(authSession(&gateway.Profile{ID: 1}), cartWith(25, 2), gw)
	require.NoError(t, sut.SetDraft(validDeliveryDraft()))

	require.NoError(t, sut.Next(context.Background()))
	assert.True(t, gw.lastQuote.UseCart)
	assert.Empty(t, gw.lastQuote.Items)
}

func TestNext_QuoteFailureIsSoft(t *testing.T) {
	gw := &mockGateway{quoteErr: fmt.Errorf("pricing service down")}
	sut := NewWizard(guestSession(), cartWith(25, 1), gw)
	require.NoError(t, sut.SetDraft(validDeliveryDraft()))

	require.NoError(t, sut.Next(context.Background()), "quote failure must not block the step")
	assert.Equal(t, StepPayment, sut.Step())
	assert.Zero(t, sut.ShippingCost())
}

func TestNext_CardRequiresCardFields(t *testing.T) {
	gw := &mockGateway{quote: &domain.ShippingQuote{}}
	sut := NewWizard(guestSession(), cartWith(25, 1), gw)

	draft := validDeliveryDraft()
	draft.PaymentMethod = domain.PaymentCard
	require.NoError(t, sut.SetDraft(draft))
	require.NoError(t, sut.Next(context.Background()))

	err := sut.Next(context.Background())
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "card")
	assert.Equal(t, StepPayment, sut.Step())
}

func TestNext_CashOnDeliveryForbiddenWithPickup(t *testing.T) {
	gw := &mockGateway{}
	sut := NewWizard(guestSession(), cartWith(25, 1), gw)

	draft := validDeliveryDraft()
	draft.DeliveryMethod = domain.DeliveryMethodPickup
	draft.PickupLocationID = ptrI(4)
	draft.PaymentMethod = domain.PaymentCashOnDelivery
	require.NoError(t, sut.SetDraft(draft))
	require.NoError(t, sut.Next(context.Background()))

	err := sut.Next(context.Background())
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "paymentMethod")
}

func TestNext_SoldePlafondPrecheckBlocks(t *testing.T) {
	// order total 500, no deduction, ceiling 300: advancing from Payment is
	// blocked before any order creation is attempted
	gw := &mockGateway{quote: &domain.ShippingQuote{ShippingCost: 0}}
	profile := &gateway.Profile{ID: 1, Plafond: ptrF(300), SoldeCumule: 0}
	sut := NewWizard(authSession(profile), cartWith(500, 1), gw)

	draft := validDeliveryDraft()
	draft.PaymentMethod = domain.PaymentSolde
	require.NoError(t, sut.SetDraft(draft))
	require.NoError(t, sut.Next(context.Background()))

	err := sut.Next(context.Background())
	var flowErr *FlowError
	require.ErrorAs(t, err, &flowErr)
	assert.Equal(t, codePlafondExceeded, flowErr.Code)
	assert.Equal(t, StepPayment, sut.Step())
	assert.Equal(t, 0, gw.orderCalls)
}

func TestNext_SoldeWithinPlafondAdvances(t *testing.T) {
	gw := &mockGateway{quote: &domain.ShippingQuote{ShippingCost: 0}}
	profile := &gateway.Profile{ID: 1, Plafond: ptrF(300), SoldeCumule: 100}
	sut := NewWizard(authSession(profile), cartWith(150, 1), gw)

	draft := validDeliveryDraft()
	draft.PaymentMethod = domain.PaymentSolde
	require.NoError(t, sut.SetDraft(draft))
	require.NoError(t, sut.Next(context.Background()))
	require.NoError(t, sut.Next(context.Background()))
	assert.Equal(t, StepReview, sut.Step())
}

func TestNext_FromReviewReturnsError(t *testing.T) {
	gw := &mockGateway{quote: &domain.ShippingQuote{}}
	sut := NewWizard(guestSession(), cartWith(25, 1), gw)
	require.NoError(t, sut.SetDraft(validDeliveryDraft()))
	require.NoError(t, sut.Next(context.Background()))
	require.NoError(t, sut.Next(context.Background()))

	assert.ErrorIs(t, sut.Next(context.Background()), ErrCannotAdvance)
}

func TestBack_NeverBelowShipping(t *testing.T) {
	gw := &mockGateway{quote: &domain.ShippingQuote{ShippingCost: 12}}
	sut := NewWizard(guestSession(), cartWith(25, 1), gw)
	require.NoError(t, sut.SetDraft(validDeliveryDraft()))
	require.NoError(t, sut.Next(context.Background()))

	require.NoError(t, sut.Back())
	assert.Equal(t, StepShipping, sut.Step())
	assert.ErrorIs(t, sut.Back(), ErrCannotGoBack)
	assert.InDelta(t, 12.0, sut.ShippingCost(), 1e-9, "back navigation keeps the quote")
}

func TestNewWizard_PrefillsFromProfile(t *testing.T) {
	profile := &gateway.Profile{FirstName: "Nora", LastName: "Bellamy", Phone: "0612", Email: "nora@example.com"}
	sut := NewWizard(authSession(profile), cartWith(25, 1), &mockGateway{})

	draft := sut.Draft()
	assert.Equal(t, "Nora", draft.Shipping.FirstName)
	assert.Equal(t, "nora@example.com", draft.Email)
}
