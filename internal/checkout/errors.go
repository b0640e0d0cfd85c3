package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyCart      = errors.New("cart is empty, nothing to submit")
	ErrCannotAdvance  = errors.New("no step after review, submit instead")
	ErrCannotGoBack   = errors.New("already at the first step")
	ErrSubmitInFlight = errors.New("submission already in progress")
	ErrAlreadyPlaced  = errors.New("order already placed for this checkout")
)

// FieldErrors maps form field names to validation messages. They never leave
// the form layer: a non-empty set blocks the step transition and no network
// call is made.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}

// FlowError is a user-facing checkout failure. Code is a stable message key
// for the UI; Redirect, when set, tells the UI where to send the user. The
// solde figures are carried only when the backend provided all of them.
type FlowError struct {
	Code     string
	Message  string
	Redirect string

	Plafond        *float64
	SoldeCumule    *float64
	SoldeAmount    *float64
	SoldeProjected *float64
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("checkout blocked (%s): %s", e.Code, e.Message)
}

const (
	codeAuthRequired    = "solde_auth_required"
	codeSoldeNotAllowed = "solde_not_allowed"
	codePlafondExceeded = "solde_plafond_exceeded"
	codeOrderFailed     = "order_creation_failed"
	loginRedirect       = "/login?next=/checkout"
	ordersRedirect      = "/orders"
)
