package cart

import (
	"context"
	"log"

	"github.com/nounrr/boukir-storefront/internal/domain"
	"github.com/nounrr/boukir-storefront/internal/session"
)

func NewReconciler(guest *GuestStore, remote *RemoteStore, sess *session.Session) *Reconciler {
	return &Reconciler{guest: guest, remote: remote, sess: sess}
}

// Reconciler resolves every cart operation to exactly one backing store
// based on the session's authentication state. Exactly one cart is active
// per session; the guest cart stays in storage until explicitly migrated.
type Reconciler struct {
	guest  *GuestStore
	remote *RemoteStore
	sess   *session.Session
}

func (r *Reconciler) active() Store {
	if r.sess.Authenticated() {
		return r.remote
	}
	return r.guest
}

func (r *Reconciler) Get(ctx context.Context) (*domain.Cart, error) {
	return r.active().Get(ctx)
}

func (r *Reconciler) Add(ctx context.Context, item domain.LineItem) error {
	return r.active().Add(ctx, item)
}

func (r *Reconciler) UpdateQuantity(ctx context.Context, ref ItemRef, quantity int) error {
	return r.active().UpdateQuantity(ctx, ref, quantity)
}

func (r *Reconciler) Remove(ctx context.Context, ref ItemRef) error {
	return r.active().Remove(ctx, ref)
}

func (r *Reconciler) Clear(ctx context.Context) error {
	return r.active().Clear(ctx)
}

// ClearLocal wipes the guest cart regardless of authentication state. Order
// submission uses it: local state is cleared unconditionally on success.
func (r *Reconciler) ClearLocal(ctx context.Context) error {
	return r.guest.Clear(ctx)
}

// MigrationFailure reports one guest line that could not be transferred.
type MigrationFailure struct {
	Item domain.LineItem
	Err  error
}

// MigrateGuestCart replays every guest line through the remote cart after
// login. Local storage is cleared only when the whole cart transferred;
// otherwise only the failed lines are kept, so nothing is silently lost and
// a retry does not duplicate the lines that already made it.
func (r *Reconciler) MigrateGuestCart(ctx context.Context) ([]MigrationFailure, error) {
	if !r.sess.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	guestCart, err := r.guest.Get(ctx)
	if err != nil {
		return nil, err
	}
	if guestCart.IsEmpty() {
		return nil, r.guest.Clear(ctx)
	}

	var failures []MigrationFailure
	var failed []domain.LineItem
	for _, item := range guestCart.Items {
		if err := r.remote.Add(ctx, item); err != nil {
			log.Printf("guest cart migration: line %s failed: %v", item.Key(), err)
			failures = append(failures, MigrationFailure{Item: item, Err: err})
			failed = append(failed, item)
		}
	}

	if err := r.guest.replace(ctx, failed); err != nil {
		return failures, err
	}
	return failures, nil
}
