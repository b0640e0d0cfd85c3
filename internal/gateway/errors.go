package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorKind is the closed set of backend failure classes the storefront
// reacts to. Everything that does not classify lands on KindGeneric.
type ErrorKind string

const (
	KindGeneric              ErrorKind = "GENERIC"
	KindPurchaseLimit        ErrorKind = "PURCHASE_LIMIT"
	KindOutOfStock           ErrorKind = "OUT_OF_STOCK"
	KindSoldeAuthRequired    ErrorKind = "SOLDE_AUTH_REQUIRED"
	KindSoldeNotAllowed      ErrorKind = "SOLDE_NOT_ALLOWED"
	KindSoldePlafondExceeded ErrorKind = "SOLDE_PLAFOND_EXCEEDED"
)

// APIError is a non-2xx response from a cart or quote endpoint.
type APIError struct {
	Status  int
	Code    string
	Message string
	Kind    ErrorKind
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d %s): %s", e.Status, e.Code, e.Message)
}

// ClassifyStockError maps a backend code/message pair to an ErrorKind. The
// backend is inconsistent about which field carries the marker, so both are
// checked, case-insensitively.
func ClassifyStockError(code, message string) ErrorKind {
	for _, s := range []string{code, message} {
		u := strings.ToUpper(s)
		switch {
		case strings.Contains(u, "PURCHASE_LIMIT_EXCEEDED"):
			return KindPurchaseLimit
		case strings.Contains(u, "OUT_OF_STOCK"), strings.Contains(u, "INSUFFICIENT_STOCK"):
			return KindOutOfStock
		}
	}
	return KindGeneric
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Code    string `json:"code"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	return &APIError{
		Status:  status,
		Code:    payload.Code,
		Message: msg,
		Kind:    ClassifyStockError(payload.Code, msg),
	}
}

// OrderError is the structured failure returned by order creation. The
// numeric context fields are only present on plafond violations.
type OrderError struct {
	Status         int       `json:"-"`
	Kind           ErrorKind `json:"-"`
	Type           string    `json:"errorType"`
	Message        string    `json:"message"`
	Plafond        *float64  `json:"plafond,omitempty"`
	SoldeCumule    *float64  `json:"soldeCumule,omitempty"`
	SoldeAmount    *float64  `json:"soldeAmount,omitempty"`
	SoldeProjected *float64  `json:"soldeProjected,omitempty"`
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("order creation failed (%s): %s", e.Type, e.Message)
}

func classifyOrderError(errorType string) ErrorKind {
	switch strings.ToUpper(errorType) {
	case "AUTH_REQUIRED":
		return KindSoldeAuthRequired
	case "SOLDE_NOT_ALLOWED":
		return KindSoldeNotAllowed
	case "PLAFOND_EXCEEDED":
		return KindSoldePlafondExceeded
	}
	return KindGeneric
}

func newOrderError(status int, body []byte) *OrderError {
	oe := &OrderError{Status: status}
	_ = json.Unmarshal(body, oe)
	oe.Kind = classifyOrderError(oe.Type)
	return oe
}
