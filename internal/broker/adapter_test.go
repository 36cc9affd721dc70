package broker

import (
	"testing"
	"time"

	"condor/internal/domain"
	"condor/internal/ibkr"
)

func shortPutVertical() *domain.Strategy {
	expiration := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	s := domain.NewStrategy("SPVS-7", "SPY", "USD", domain.Seller, 1, 1.05, 0.50)
	s.AddLeg("400P", domain.Option{
		OptionID: domain.OptionID{Code: "SPY", Expiration: expiration, Strike: 400, Right: domain.Put, ConID: 1001},
	}, 1, domain.Seller)
	s.AddLeg("395P", domain.Option{
		OptionID: domain.OptionID{Code: "SPY", Expiration: expiration, Strike: 395, Right: domain.Put, ConID: 1002},
	}, 1, domain.Buyer)
	return s
}

func connectedAdapter(t *testing.T) (*Adapter, *ibkr.SimSession) {
	t.Helper()
	sim := ibkr.NewSimSession()
	a := New(sim, Config{Host: "127.0.0.1", Port: 7497, ClientID: 9})
	if err := a.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return a, sim
}

func TestOpenStrategyPlacesBracket(t *testing.T) {
	a, sim := connectedAdapter(t)

	parentID, takeProfitID, err := a.OpenStrategy(shortPutVertical())
	if err != nil {
		t.Fatalf("OpenStrategy: %v", err)
	}
	if parentID != 1 || takeProfitID != 2 {
		t.Errorf("order ids = %d, %d, want 1, 2", parentID, takeProfitID)
	}
	if len(sim.Placed) != 2 {
		t.Fatalf("placed %d orders, want 2", len(sim.Placed))
	}

	parent := sim.Placed[0]
	child := sim.Placed[1]
	if parent.Order.OrderID != parentID {
		t.Error("entry order was not placed first")
	}
	if child.Order.ParentID != parentID {
		t.Errorf("take-profit ParentID = %d, want %d", child.Order.ParentID, parentID)
	}
	if parent.Order.Action != ibkr.ActionSell || child.Order.Action != ibkr.ActionBuy {
		t.Errorf("actions = %s, %s, want SELL, BUY", parent.Order.Action, child.Order.Action)
	}
	if parent.Order.LmtPrice != 1.05 || child.Order.LmtPrice != 0.50 {
		t.Errorf("limit prices = %v, %v, want 1.05, 0.50", parent.Order.LmtPrice, child.Order.LmtPrice)
	}
	if parent.Order.TotalQuantity != 1 || child.Order.TotalQuantity != 1 {
		t.Errorf("quantities = %v, %v, want 1, 1", parent.Order.TotalQuantity, child.Order.TotalQuantity)
	}

	if parent.Contract.SecType != ibkr.SecTypeCombo {
		t.Errorf("contract SecType = %q, want BAG", parent.Contract.SecType)
	}
	legs := parent.Contract.ComboLegs
	if len(legs) != 2 {
		t.Fatalf("got %d combo legs, want 2", len(legs))
	}
	if legs[0].ConID != 1001 || legs[1].ConID != 1002 {
		t.Errorf("combo legs out of construction order: %+v", legs)
	}
}

func TestOpenStrategyRejectsEmpty(t *testing.T) {
	a, sim := connectedAdapter(t)

	empty := domain.NewStrategy("", "SPY", "USD", domain.Seller, 1, 1.05, 0.50)
	if _, _, err := a.OpenStrategy(empty); err == nil {
		t.Fatal("expected error for strategy with no legs")
	}
	if len(sim.Placed) != 0 {
		t.Errorf("placed %d orders for a rejected strategy, want 0", len(sim.Placed))
	}
}

func TestOpenStrategyNotConnected(t *testing.T) {
	sim := ibkr.NewSimSession()
	a := New(sim, Config{})

	if _, _, err := a.OpenStrategy(shortPutVertical()); err == nil {
		t.Fatal("expected error when session is not connected")
	}
}

func TestOrderStatusCallback(t *testing.T) {
	a, sim := connectedAdapter(t)

	var seen []domain.Trade
	a.OnOrderStatus(func(tr domain.Trade) { seen = append(seen, tr) })

	if _, _, err := a.OpenStrategy(shortPutVertical()); err != nil {
		t.Fatalf("OpenStrategy: %v", err)
	}
	// The simulated session acknowledges each placement synchronously.
	if len(seen) != 2 {
		t.Fatalf("callback saw %d trades, want 2", len(seen))
	}
	if len(sim.Placed) != len(seen) {
		t.Fatalf("placed %d orders but callback saw %d trades", len(sim.Placed), len(seen))
	}
	if seen[0].OrderRef != "SPVS-7_PO" || seen[1].OrderRef != "SPVS-7_TP" {
		t.Errorf("order refs = %q, %q", seen[0].OrderRef, seen[1].OrderRef)
	}
	if seen[0].Status != domain.StatusSubmitted {
		t.Errorf("status = %q, want %q", seen[0].Status, domain.StatusSubmitted)
	}
	if seen[0].Commission != nil {
		t.Error("commission should be nil before a fill report")
	}
}

func TestOrderStatusCallbackReplaced(t *testing.T) {
	a, sim := connectedAdapter(t)

	first := 0
	second := 0
	a.OnOrderStatus(func(domain.Trade) { first++ })
	a.OnOrderStatus(func(domain.Trade) { second++ })

	sim.Emit(ibkr.TradeEvent{
		Order:  ibkr.Order{OrderRef: "SPVS-7_PO"},
		Status: ibkr.OrderState{Status: "Filled"},
	})
	if first != 0 {
		t.Errorf("replaced callback ran %d times, want 0", first)
	}
	if second != 1 {
		t.Errorf("active callback ran %d times, want 1", second)
	}
}

func TestOrderStatusDropsUntranslatable(t *testing.T) {
	a, sim := connectedAdapter(t)

	calls := 0
	a.OnOrderStatus(func(domain.Trade) { calls++ })

	sim.Emit(ibkr.TradeEvent{
		Order:  ibkr.Order{OrderRef: "SPVS-7_PO"},
		Status: ibkr.OrderState{Status: "Exploded"},
	})
	if calls != 0 {
		t.Errorf("callback ran %d times for an unknown status, want 0", calls)
	}
}

func TestOrderStatusCommission(t *testing.T) {
	a, sim := connectedAdapter(t)

	var last domain.Trade
	a.OnOrderStatus(func(tr domain.Trade) { last = tr })

	sim.Emit(ibkr.TradeEvent{
		Order:      ibkr.Order{OrderRef: "SPVS-7_PO"},
		Status:     ibkr.OrderState{Status: "Filled", Remaining: 0},
		Commission: &ibkr.CommissionReport{Commission: 2.27, Currency: "USD"},
	})
	if last.Status != domain.StatusFilled {
		t.Errorf("status = %q, want %q", last.Status, domain.StatusFilled)
	}
	if last.Commission == nil || *last.Commission != 2.27 {
		t.Errorf("commission = %v, want 2.27", last.Commission)
	}
}
