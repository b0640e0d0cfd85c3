package checkout

import (
	"context"
	"sync"

	"github.com/nounrr/boukir-storefront/internal/domain"
	"github.com/nounrr/boukir-storefront/internal/gateway"
)

type mockCart struct {
	m            sync.Mutex
	cart         *domain.Cart
	getErr       error
	clearErr     error
	cleared      bool
	clearedLocal bool
}

func (c *mockCart) Get(context.Context) (*domain.Cart, error) {
	c.m.Lock()
	defer c.m.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	if c.cart == nil {
		return &domain.Cart{}, nil
	}
	return c.cart, nil
}

func (c *mockCart) Clear(context.Context) error {
	c.m.Lock()
	defer c.m.Unlock()
	if c.clearErr != nil {
		return c.clearErr
	}
	c.cleared = true
	return nil
}

func (c *mockCart) ClearLocal(context.Context) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.clearedLocal = true
	return nil
}

type mockGateway struct {
	m sync.Mutex

	quote      *domain.ShippingQuote
	quoteErr   error
	quoteCalls int
	lastQuote  gateway.QuoteRequest

	order        *domain.Order
	orderErr     error
	orderCalls   int
	lastOrder    gateway.OrderRequest
	lastIdemKeys []string

	profile      *gateway.Profile
	profileErr   error
	profileCalls int
}

func (g *mockGateway) RequestQuote(_ context.Context, _ string, req gateway.QuoteRequest) (*domain.ShippingQuote, error) {
	g.m.Lock()
	defer g.m.Unlock()
	g.quoteCalls++
	g.lastQuote = req
	if g.quoteErr != nil {
		return nil, g.quoteErr
	}
	return g.quote, nil
}

func (g *mockGateway) CreateOrder(_ context.Context, _ string, idempotencyKey string, req gateway.OrderRequest) (*domain.Order, error) {
	g.m.Lock()
	defer g.m.Unlock()
	g.orderCalls++
	g.lastOrder = req
	g.lastIdemKeys = append(g.lastIdemKeys, idempotencyKey)
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	return g.order, nil
}

func (g *mockGateway) GetProfile(context.Context, string) (*gateway.Profile, error) {
	g.m.Lock()
	defer g.m.Unlock()
	g.profileCalls++
	if g.profileErr != nil {
		return nil, g.profileErr
	}
	return g.profile, nil
}
