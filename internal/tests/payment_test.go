package tests

import (
	"context"
	"testing"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

func TestSimulatedGateway_ApprovesPositiveAmounts(t *testing.T) {
	ctx := context.Background()
	gateway := service.NewSimulatedGateway()

	approved, err := gateway.Charge(ctx, "alice@example.com", 10.12, string(domain.PaymentMethodCard))
	if err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if !approved {
		t.Error("expected a positive card charge to approve")
	}

	approved, err = gateway.Charge(ctx, "alice@example.com", 0, string(domain.PaymentMethodCard))
	if err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if approved {
		t.Error("a zero amount must not approve")
	}
}

func TestSimulatedGateway_DeclineMode(t *testing.T) {
	ctx := context.Background()
	gateway := service.NewSimulatedGateway()
	gateway.SetDecline(true)

	approved, err := gateway.Charge(ctx, "alice@example.com", 10.12, string(domain.PaymentMethodCard))
	if err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if approved {
		t.Error("armed gateway must decline card charges")
	}

	gateway.SetDecline(false)
	approved, err = gateway.Charge(ctx, "alice@example.com", 10.12, string(domain.PaymentMethodCard))
	if err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if !approved {
		t.Error("disarmed gateway must approve again")
	}
}

func TestSimulatedGateway_CashAlwaysSettles(t *testing.T) {
	ctx := context.Background()
	gateway := service.NewSimulatedGateway()
	gateway.SetDecline(true)

	approved, err := gateway.Charge(ctx, "alice@example.com", 10.12, string(domain.PaymentMethodCash))
	if err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if !approved {
		t.Error("cash settles outside the gateway and must approve even when declining")
	}

	// Case of the method string does not matter.
	approved, err = gateway.Charge(ctx, "alice@example.com", 10.12, "cash")
	if err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if !approved {
		t.Error("lowercase cash must settle too")
	}
}
