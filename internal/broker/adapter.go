// Package broker owns the trading session: connection lifecycle, combo
// order placement, and delivery of order-status updates. It is the only
// package that mutates broker state; market-data reads live in
// internal/marketdata.
package broker

import (
	"fmt"
	"log/slog"

	"condor/internal/domain"
	"condor/internal/ibkr"
	"condor/internal/translate"
)

// Config identifies the broker endpoint and the API client slot to claim.
type Config struct {
	Host     string
	Port     int
	ClientID int
}

// Adapter executes multi-leg strategies against one broker session. It
// subscribes to the session's order-status stream at construction and
// forwards translated updates to at most one registered callback.
type Adapter struct {
	session ibkr.Session
	cfg     Config
	log     *slog.Logger

	onTrade func(domain.Trade)
}

// New creates an Adapter over the session and hooks its order-status
// stream. The stream handler runs on the session's dispatch path and must
// stay quick; registered callbacks inherit that constraint.
func New(session ibkr.Session, cfg Config) *Adapter {
	a := &Adapter{
		session: session,
		cfg:     cfg,
		log:     slog.Default().With("component", "broker"),
	}
	session.SubscribeOrderStatus(a.handleTradeEvent)
	return a
}

// Connect opens the broker session.
func (a *Adapter) Connect() error {
	if err := a.session.Connect(a.cfg.Host, a.cfg.Port, a.cfg.ClientID); err != nil {
		return fmt.Errorf("connecting to broker at %s:%d: %w", a.cfg.Host, a.cfg.Port, err)
	}
	a.log.Info("broker connected", "host", a.cfg.Host, "port", a.cfg.Port, "client_id", a.cfg.ClientID)
	return nil
}

// Disconnect closes the broker session.
func (a *Adapter) Disconnect() {
	a.session.Disconnect()
	a.log.Info("broker disconnected")
}

// OnOrderStatus registers the order-status callback. A single slot is
// kept: registering replaces any previous callback, and nil unregisters.
func (a *Adapter) OnOrderStatus(fn func(domain.Trade)) {
	a.onTrade = fn
}

func (a *Adapter) handleTradeEvent(ev ibkr.TradeEvent) {
	trade, err := translate.Trade(ev)
	if err != nil {
		a.log.Error("dropping order event", "order_ref", ev.Order.OrderRef, "error", err)
		return
	}
	a.log.Info("order status",
		"order_ref", trade.OrderRef,
		"status", trade.Status,
		"remaining", trade.Remaining,
	)
	if a.onTrade != nil {
		a.onTrade(trade)
	}
}

// OpenStrategy places the strategy as a bracket: a combo limit order at
// the entry price and a linked take-profit child at the target price. The
// parent is placed first so the child's parent reference resolves; both
// order ids are returned in that order.
func (a *Adapter) OpenStrategy(s *domain.Strategy) (parentID, takeProfitID int, err error) {
	contract, err := translate.ComboContract(s)
	if err != nil {
		return 0, 0, fmt.Errorf("building combo for strategy %s: %w", s.ID, err)
	}

	parentID = a.session.NextOrderID()
	takeProfitID = a.session.NextOrderID()

	parent, takeProfit, err := translate.BracketOrders(s, parentID, takeProfitID)
	if err != nil {
		return 0, 0, fmt.Errorf("building bracket for strategy %s: %w", s.ID, err)
	}

	if err := a.session.PlaceOrder(contract, parent); err != nil {
		return 0, 0, fmt.Errorf("placing entry order for strategy %s: %w", s.ID, err)
	}
	if err := a.session.PlaceOrder(contract, takeProfit); err != nil {
		return 0, 0, fmt.Errorf("placing take-profit order for strategy %s: %w", s.ID, err)
	}

	a.log.Info("strategy opened",
		"strategy", s.ID,
		"code", s.Code,
		"legs", len(s.Legs()),
		"entry_order", parentID,
		"take_profit_order", takeProfitID,
	)
	return parentID, takeProfitID, nil
}
