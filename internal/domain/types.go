// Package domain defines the value types of the trading platform: assets,
// options, positions, accounts, strategies, and order-lifecycle trades. The
// types carry no broker-specific behaviour; translation from and to the
// broker wire model lives in internal/translate.
package domain

import (
	"fmt"
	"strconv"
	"time"
)

// ---------------------------------------------------------------------------
// Enumerations
// ---------------------------------------------------------------------------

// AssetKind is the closed set of instrument kinds the platform understands.
type AssetKind string

const (
	KindStock         AssetKind = "stock"
	KindETF           AssetKind = "etf"
	KindIndex         AssetKind = "index"
	KindOption        AssetKind = "option"
	KindFuture        AssetKind = "future"
	KindCash          AssetKind = "cash"
	KindCFD           AssetKind = "cfd"
	KindBond          AssetKind = "bond"
	KindCommodity     AssetKind = "commodity"
	KindFuturesOption AssetKind = "futures_option"
	KindMutualFund    AssetKind = "mutual_fund"
	KindWarrant       AssetKind = "warrant"
)

// Right is an option right: call or put.
type Right string

const (
	Call Right = "C"
	Put  Right = "P"
)

// Ownership marks the direction of a position or order leg. A flat position
// has OwnershipNone; flat carries no long/short interpretation.
type Ownership string

const (
	Buyer         Ownership = "buyer"
	Seller        Ownership = "seller"
	OwnershipNone Ownership = ""
)

// Opposite returns the reversed ownership, used to build closing orders.
// The opposite of OwnershipNone is OwnershipNone.
func (o Ownership) Opposite() Ownership {
	switch o {
	case Buyer:
		return Seller
	case Seller:
		return Buyer
	default:
		return OwnershipNone
	}
}

// OrderStatus is the order-lifecycle state reported by the broker.
type OrderStatus string

const (
	StatusAPIPending    OrderStatus = "api_pending"
	StatusPendingSubmit OrderStatus = "pending_submit"
	StatusPendingCancel OrderStatus = "pending_cancel"
	StatusPreSubmitted  OrderStatus = "pre_submitted"
	StatusSubmitted     OrderStatus = "submitted"
	StatusAPICancelled  OrderStatus = "api_cancelled"
	StatusCancelled     OrderStatus = "cancelled"
	StatusFilled        OrderStatus = "filled"
	StatusInactive      OrderStatus = "inactive"
)

// ---------------------------------------------------------------------------
// Assets and quotes
// ---------------------------------------------------------------------------

// AssetID identifies a tradable underlying by code, kind, and currency.
// ConID is the broker's contract reference, set once the contract has been
// qualified. An AssetID is immutable after creation.
type AssetID struct {
	Code     string
	Kind     AssetKind
	Currency string
	ConID    int
}

// AssetDefinition describes a watchlist entry before qualification.
// Exchange is required for indexes (their native listing exchange) and
// ignored for equities, which route through the smart venue.
type AssetDefinition struct {
	Code     string
	Kind     AssetKind
	Currency string
	Exchange string
}

// Quote is the latest market snapshot of an asset. Fields the broker did
// not supply are nil, never zero and never the broker's -1 sentinel.
type Quote struct {
	Bid      *float64
	BidSize  *float64
	Ask      *float64
	AskSize  *float64
	Last     *float64
	LastSize *float64
	High     *float64
	Low      *float64
	Close    *float64
	Volume   *float64
	Time     time.Time
}

// MarketPrice returns the best available price estimate for the asset: the
// last trade when known, otherwise the bid/ask midpoint, otherwise the
// previous close. Returns nil when no price is known at all.
func (q Quote) MarketPrice() *float64 {
	if q.Last != nil {
		return q.Last
	}
	if q.Bid != nil && q.Ask != nil {
		mid := (*q.Bid + *q.Ask) / 2
		return &mid
	}
	return q.Close
}

// Asset is a watched underlying: identity, latest quote, and optionally its
// fetched bar history. History is chronological and append-only once set.
type Asset struct {
	AssetID
	Current Quote
	History []Bar
}

// Bar is one sampled interval of trading data. Immutable.
type Bar struct {
	Time    time.Time
	Open    float64
	High    float64
	Low     float64
	Close   float64
	Average float64
	Volume  float64
	Count   int
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// OptionID identifies an option contract. Within one underlying and
// expiration, (Strike, Right) is unique and serves as the chain lookup key.
type OptionID struct {
	Code       string
	Expiration time.Time
	Strike     float64
	Right      Right
	Multiplier string
	ConID      int
}

// Key returns the chain lookup key for the contract, the strike rendered
// with minimal digits followed by the right code, e.g. "400P" or "397.5C".
func (id OptionID) Key() string {
	return strconv.FormatFloat(id.Strike, 'f', -1, 64) + string(id.Right)
}

// Greeks is the broker's model-greeks block for an option quote. It is
// attached to an Option only when the broker supplied one; absent greeks
// are represented by a nil pointer, never zero values.
type Greeks struct {
	Delta               float64
	Gamma               float64
	Theta               float64
	Vega                float64
	OptionPrice         float64
	ImpliedVolatility   float64
	UnderlyingPrice     float64
	UnderlyingDividends float64
}

// Option is an option contract with its market snapshot.
type Option struct {
	OptionID
	Quote
	Greeks *Greeks
}

// ---------------------------------------------------------------------------
// Positions and accounts
// ---------------------------------------------------------------------------

// Position is one holding reported by the broker. Quantity is always
// non-negative; direction lives in Ownership. Expiration and Right are set
// only for option positions.
type Position struct {
	Code        string
	Kind        AssetKind
	Expiration  *time.Time
	Ownership   Ownership
	Quantity    float64
	Strike      float64
	Right       Right
	AverageCost float64
}

// ID returns a stable identifier for the position, composed from the
// contract identity fields.
func (p Position) ID() string {
	exp := ""
	if p.Expiration != nil {
		exp = p.Expiration.Format("20060102")
	}
	strike := ""
	if p.Strike != 0 {
		strike = strconv.FormatFloat(p.Strike, 'f', -1, 64)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s", p.Code, p.Kind, exp, strike, p.Right)
}

// Account is a snapshot of account funds and margin figures. Every field is
// optional: a nil field was not present in the broker's report (or was
// reported in a different currency) and must not be read as zero.
type Account struct {
	Funds              *float64
	BuyingPower        *float64
	Cash               *float64
	DayTradesRemaining *float64
	NetLiquidation     *float64
	InitialMargin      *float64
	MaintenanceMargin  *float64
	ExcessLiquidity    *float64
	Cushion            *float64
	GrossPositionValue *float64
	EquityWithLoan     *float64
	SMA                *float64
}

// ---------------------------------------------------------------------------
// Trades
// ---------------------------------------------------------------------------

// Trade is an order-lifecycle event: the current status of a working order.
// Commission is nil until the broker delivers a fill report; that is an
// expected intermediate state, not an error.
type Trade struct {
	OrderRef   string
	Status     OrderStatus
	Remaining  float64
	Commission *float64
}
