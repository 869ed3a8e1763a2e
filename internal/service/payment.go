package service

import (
	"context"
	"strings"
	"sync"

	"ridehail/internal/domain"
)

// PaymentGateway charges the passenger for a ride. The boolean result is the
// gateway's approval decision; an error means the charge could not even be
// attempted.
type PaymentGateway interface {
	Charge(ctx context.Context, passengerEmail string, amount float64, method string) (bool, error)
}

// SimulatedGateway stands in for a real processor. Cash rides always settle,
// since the money never passes through the gateway. Everything else approves
// on a positive amount unless the decline mode is armed.
type SimulatedGateway struct {
	mu      sync.Mutex
	decline bool
}

// NewSimulatedGateway creates a new SimulatedGateway.
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

var _ PaymentGateway = (*SimulatedGateway)(nil)

// SetDecline arms or disarms the simulated decline mode for non-cash charges.
func (g *SimulatedGateway) SetDecline(decline bool) {
	g.mu.Lock()
	g.decline = decline
	g.mu.Unlock()
}

// Charge settles cash immediately and otherwise approves any positive amount,
// unless the decline mode is armed.
func (g *SimulatedGateway) Charge(ctx context.Context, passengerEmail string, amount float64, method string) (bool, error) {
	if strings.EqualFold(method, string(domain.PaymentMethodCash)) {
		return true, nil
	}

	g.mu.Lock()
	declined := g.decline
	g.mu.Unlock()
	if declined {
		return false, nil
	}

	return amount > 0, nil
}
