package session

import (
	"sync"

	"github.com/nounrr/boukir-storefront/internal/gateway"
)

// Session is the explicit per-request session context injected into the cart
// reconciler and the checkout wizard. It replaces ambient auth lookups so the
// flows stay testable without an HTTP stack.
type Session struct {
	ID    string
	Token string

	mu      sync.RWMutex
	profile *gateway.Profile
}

func New(id, token string, profile *gateway.Profile) *Session {
	return &Session{ID: id, Token: token, profile: profile}
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

func (s *Session) Profile() *gateway.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetProfile replaces the cached profile snapshot, used by the best-effort
// refresh after a plafond rejection.
func (s *Session) SetProfile(p *gateway.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
}

// RemiseBalance is the loyalty balance usable as an order deduction.
func (s *Session) RemiseBalance() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return 0
	}
	return s.profile.RemiseBalance
}

// SoldeAvailable returns the headroom left under the customer's deferred
// payment ceiling. The second return is false when no ceiling is known, in
// which case the backend check is the only authority.
func (s *Session) SoldeAvailable() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil || s.profile.Plafond == nil {
		return 0, false
	}
	available := *s.profile.Plafond - s.profile.SoldeCumule
	if available < 0 {
		available = 0
	}
	return available, true
}
