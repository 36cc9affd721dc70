package ibkr

import "time"

// Historical whatToShow values understood by HistoricalData.
const (
	ShowTrades            = "TRADES"
	ShowImpliedVolatility = "OPTION_IMPLIED_VOLATILITY"
)

// Session is the narrow transport surface the adapters consume. One Session
// maps to one broker connection; the implementation multiplexes requests on
// its own transport and owns retry and pacing policy. All request calls are
// synchronous. Order-status events are pushed from the transport's event
// loop via the handler registered with SubscribeOrderStatus.
type Session interface {
	// Connect opens the session against the given gateway endpoint.
	Connect(host string, port, clientID int) error

	// Disconnect tears the session down. In-flight calls are abandoned.
	Disconnect()

	// Sleep blocks while keeping the session's event loop serviced. Batched
	// operations use it to pace request bursts.
	Sleep(d time.Duration)

	// AccountValues returns the current raw account report.
	AccountValues() ([]AccountValue, error)

	// Positions returns all raw holdings of the account.
	Positions() ([]Position, error)

	// QualifyContracts resolves partially specified contracts to unique
	// tradable instruments. Contracts the broker cannot resolve are absent
	// from the result; ambiguous input may resolve to fewer contracts than
	// were requested.
	QualifyContracts(contracts ...Contract) ([]Contract, error)

	// ReqTickers fetches one market-data snapshot per qualified contract.
	ReqTickers(contracts ...Contract) ([]Ticker, error)

	// HistoricalData fetches bars for a qualified contract. duration is a
	// broker duration string such as "1 Y", barSize e.g. "1 day", and
	// whatToShow one of the Show constants.
	HistoricalData(c Contract, duration, barSize, whatToShow string, useRTH bool) ([]Bar, error)

	// SecDefOptParams returns the option-parameter chains listed for an
	// underlying, one entry per exchange and trading class.
	SecDefOptParams(symbol, futFopExchange, secType string, conID int) ([]OptionChain, error)

	// NextOrderID reserves and returns the next valid order id.
	NextOrderID() int

	// PlaceOrder submits an order for a contract.
	PlaceOrder(c Contract, o Order) error

	// SubscribeOrderStatus registers the handler invoked for every
	// order-status event. A second registration replaces the first. The
	// handler runs on the transport's event goroutine and must not block.
	SubscribeOrderStatus(fn func(TradeEvent))
}
