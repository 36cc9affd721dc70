// Package ibkr defines the broker wire model — the raw contract, order,
// account, and market-data structures exchanged with an Interactive-Brokers
// style session — and the narrow Session interface through which the
// platform consumes the live transport. The transport implementation itself
// (connection management, pacing, reconnects) is an external collaborator;
// this package only names the calls the adapters need.
package ibkr

import "time"

// Wire string constants used when building outbound contracts and orders.
const (
	SecTypeStock  = "STK"
	SecTypeOption = "OPT"
	SecTypeIndex  = "IND"
	SecTypeCombo  = "BAG"

	ExchangeSmart = "SMART"

	ActionBuy  = "BUY"
	ActionSell = "SELL"

	OrderTypeLimit     = "LMT"
	TIFGoodTillCancels = "GTC"
)

// NoQuote is the broker's sentinel for a market-data field it has no value
// for. It must never leak into a domain quote.
const NoQuote = -1.0

// Contract describes an instrument, either as a query (partially filled)
// or as a qualified, uniquely resolved contract (ConID set).
type Contract struct {
	ConID                        int
	Symbol                       string
	SecType                      string
	LastTradeDateOrContractMonth string
	Strike                       float64
	Right                        string
	Multiplier                   string
	Exchange                     string
	PrimaryExchange              string
	Currency                     string
	TradingClass                 string
	ComboLegs                    []ComboLeg
}

// ComboLeg is one leg of a combo (BAG) contract.
type ComboLeg struct {
	ConID    int
	Ratio    int
	Action   string
	Exchange string
}

// Order is a broker order. ParentID links a child order to its parent;
// a child activates only after its parent fills.
type Order struct {
	OrderID       int
	ParentID      int
	Action        string
	OrderType     string
	TotalQuantity float64
	LmtPrice      float64
	TIF           string
	OrderRef      string
	Transmit      bool
}

// AccountValue is one tag/value pair from the broker's account report.
type AccountValue struct {
	Tag      string
	Value    string
	Currency string
	Account  string
}

// Position is a raw holding report. Position (the quantity) is signed:
// negative means short.
type Position struct {
	Account  string
	Contract Contract
	Position float64
	AvgCost  float64
}

// Greeks is the model-greeks block attached to an option ticker when the
// broker has computed one.
type Greeks struct {
	Delta      float64
	Gamma      float64
	Theta      float64
	Vega       float64
	OptPrice   float64
	ImpliedVol float64
	UndPrice   float64
	PvDividend float64
}

// Ticker is a market-data snapshot for one contract. Numeric fields use
// NoQuote when the broker has no value.
type Ticker struct {
	Contract    Contract
	Time        time.Time
	Bid         float64
	BidSize     float64
	Ask         float64
	AskSize     float64
	Last        float64
	LastSize    float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
	ModelGreeks *Greeks
}

// Bar is one historical bar as delivered by the broker, in delivery order.
type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Average  float64
	Volume   float64
	BarCount int
}

// OptionChain is one entry of the broker's security-definition option
// parameters for an underlying: the strikes and expirations listed by one
// exchange for one trading class.
type OptionChain struct {
	Exchange        string
	UnderlyingConID int
	TradingClass    string
	Multiplier      string
	Expirations     []string
	Strikes         []float64
}

// OrderState is the status block of an order event.
type OrderState struct {
	Status       string
	Filled       float64
	Remaining    float64
	AvgFillPrice float64
}

// CommissionReport arrives with (or shortly after) a fill.
type CommissionReport struct {
	Commission  float64
	Currency    string
	RealizedPNL float64
}

// TradeEvent is one order-status event from the broker's event stream.
// Commission is nil until a commission report has been attached.
type TradeEvent struct {
	Contract   Contract
	Order      Order
	Status     OrderState
	Commission *CommissionReport
}
