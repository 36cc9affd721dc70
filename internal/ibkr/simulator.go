package ibkr

import (
	"fmt"
	"time"
)

// Compile-time interface check.
var _ Session = (*SimSession)(nil)

// PlacedOrder records one PlaceOrder call made against a SimSession.
type PlacedOrder struct {
	Contract Contract
	Order    Order
}

// SimSession implements Session in memory for paper trading and tests. It
// serves fixture data, qualifies contracts by assigning sequential contract
// ids, and acknowledges placed orders with a synchronous Submitted event.
// Behaviour can be overridden per fixture via QualifyFn and TickerFn.
type SimSession struct {
	Accounts []AccountValue
	Holdings []Position
	Chains   []OptionChain
	Bars     map[string][]Bar // keyed by whatToShow

	// QualifyFn resolves one contract; returning false drops it from the
	// qualification result. Nil means every contract qualifies.
	QualifyFn func(Contract) (Contract, bool)

	// TickerFn produces the snapshot for a qualified contract. Nil means a
	// ticker with every field set to NoQuote.
	TickerFn func(Contract) Ticker

	Placed []PlacedOrder
	Slept  []time.Duration

	connected bool
	nextConID int
	nextID    int
	handler   func(TradeEvent)
}

// NewSimSession creates an empty simulated session.
func NewSimSession() *SimSession {
	return &SimSession{Bars: make(map[string][]Bar)}
}

// Connect marks the session connected.
func (s *SimSession) Connect(host string, port, clientID int) error {
	if s.connected {
		return fmt.Errorf("already connected to %s:%d", host, port)
	}
	s.connected = true
	return nil
}

// Disconnect marks the session disconnected.
func (s *SimSession) Disconnect() { s.connected = false }

// Connected reports whether Connect has been called.
func (s *SimSession) Connected() bool { return s.connected }

// Sleep records the pacing delay instead of blocking.
func (s *SimSession) Sleep(d time.Duration) { s.Slept = append(s.Slept, d) }

// AccountValues returns the account fixture.
func (s *SimSession) AccountValues() ([]AccountValue, error) { return s.Accounts, nil }

// Positions returns the holdings fixture.
func (s *SimSession) Positions() ([]Position, error) { return s.Holdings, nil }

// QualifyContracts resolves contracts through QualifyFn, or assigns
// sequential contract ids when no override is set.
func (s *SimSession) QualifyContracts(contracts ...Contract) ([]Contract, error) {
	out := make([]Contract, 0, len(contracts))
	for _, c := range contracts {
		if s.QualifyFn != nil {
			q, ok := s.QualifyFn(c)
			if !ok {
				continue
			}
			out = append(out, q)
			continue
		}
		s.nextConID++
		c.ConID = s.nextConID
		out = append(out, c)
	}
	return out, nil
}

// ReqTickers returns one snapshot per contract, via TickerFn or all-NoQuote.
func (s *SimSession) ReqTickers(contracts ...Contract) ([]Ticker, error) {
	out := make([]Ticker, 0, len(contracts))
	for _, c := range contracts {
		if s.TickerFn != nil {
			out = append(out, s.TickerFn(c))
			continue
		}
		out = append(out, Ticker{
			Contract: c,
			Bid:      NoQuote, BidSize: NoQuote,
			Ask: NoQuote, AskSize: NoQuote,
			Last: NoQuote, LastSize: NoQuote,
			High: NoQuote, Low: NoQuote, Close: NoQuote,
			Volume: NoQuote,
		})
	}
	return out, nil
}

// HistoricalData returns the bar fixture for whatToShow.
func (s *SimSession) HistoricalData(_ Contract, _, _, whatToShow string, _ bool) ([]Bar, error) {
	return s.Bars[whatToShow], nil
}

// SecDefOptParams returns the chain fixture.
func (s *SimSession) SecDefOptParams(_, _, _ string, _ int) ([]OptionChain, error) {
	return s.Chains, nil
}

// NextOrderID reserves the next order id, starting at 1.
func (s *SimSession) NextOrderID() int {
	s.nextID++
	return s.nextID
}

// PlaceOrder records the order and acknowledges it with a synchronous
// Submitted event carrying the full remaining quantity.
func (s *SimSession) PlaceOrder(c Contract, o Order) error {
	if !s.connected {
		return fmt.Errorf("place order %d: session not connected", o.OrderID)
	}
	s.Placed = append(s.Placed, PlacedOrder{Contract: c, Order: o})
	s.Emit(TradeEvent{
		Contract: c,
		Order:    o,
		Status:   OrderState{Status: "Submitted", Remaining: o.TotalQuantity},
	})
	return nil
}

// SubscribeOrderStatus registers the event handler, replacing any previous.
func (s *SimSession) SubscribeOrderStatus(fn func(TradeEvent)) { s.handler = fn }

// Emit delivers an event to the registered handler, if any.
func (s *SimSession) Emit(ev TradeEvent) {
	if s.handler != nil {
		s.handler(ev)
	}
}
