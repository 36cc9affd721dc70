// Package translate maps between the broker wire model (internal/ibkr) and
// the platform domain model (internal/domain). Every function is pure and
// stateless: fixed lookup tables in, values out, no I/O and no logging.
package translate

import (
	"fmt"
	"strconv"

	"condor/internal/domain"
	"condor/internal/ibkr"
)

// ---------------------------------------------------------------------------
// Lookup tables
// ---------------------------------------------------------------------------

var secTypes = map[string]domain.AssetKind{
	"STK":   domain.KindStock,
	"OPT":   domain.KindOption,
	"FUT":   domain.KindFuture,
	"CASH":  domain.KindCash,
	"IND":   domain.KindIndex,
	"CFD":   domain.KindCFD,
	"BOND":  domain.KindBond,
	"CMDTY": domain.KindCommodity,
	"FOP":   domain.KindFuturesOption,
	"FUND":  domain.KindMutualFund,
	"IOPT":  domain.KindWarrant,
}

var rights = map[string]domain.Right{
	"C": domain.Call,
	"P": domain.Put,
}

var orderStatuses = map[string]domain.OrderStatus{
	"ApiPending":    domain.StatusAPIPending,
	"PendingSubmit": domain.StatusPendingSubmit,
	"PendingCancel": domain.StatusPendingCancel,
	"PreSubmitted":  domain.StatusPreSubmitted,
	"Submitted":     domain.StatusSubmitted,
	"ApiCancelled":  domain.StatusAPICancelled,
	"Cancelled":     domain.StatusCancelled,
	"Filled":        domain.StatusFilled,
	"Inactive":      domain.StatusInactive,
}

// ---------------------------------------------------------------------------
// Inbound: wire → domain
// ---------------------------------------------------------------------------

// Account folds the broker's tag/value report into an Account snapshot.
// Only records in the given trading currency are accepted; entries in any
// other currency are ignored, not zeroed. Fields without a matching record
// stay nil. A recognized tag whose value does not parse as a number is a
// data-contract violation and fails the whole translation.
func Account(values []ibkr.AccountValue, currency string) (domain.Account, error) {
	var acct domain.Account
	fields := map[string]**float64{
		"AvailableFunds":      &acct.Funds,
		"BuyingPower":         &acct.BuyingPower,
		"TotalCashValue":      &acct.Cash,
		"DayTradesRemaining":  &acct.DayTradesRemaining,
		"NetLiquidation":      &acct.NetLiquidation,
		"InitMarginReq":       &acct.InitialMargin,
		"MaintMarginReq":      &acct.MaintenanceMargin,
		"ExcessLiquidity":     &acct.ExcessLiquidity,
		"Cushion":             &acct.Cushion,
		"GrossPositionValue":  &acct.GrossPositionValue,
		"EquityWithLoanValue": &acct.EquityWithLoan,
		"SMA":                 &acct.SMA,
	}

	for _, v := range values {
		if v.Currency != currency {
			continue
		}
		slot, ok := fields[v.Tag]
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return domain.Account{}, fmt.Errorf("account tag %s: parsing %q: %w", v.Tag, v.Value, err)
		}
		*slot = &f
	}
	return acct, nil
}

// Position translates a raw holding. Ownership derives from the sign of the
// raw quantity; a flat position has no ownership. Expiration and right are
// translated only when present on the wire contract.
func Position(raw ibkr.Position) (domain.Position, error) {
	kind, ok := secTypes[raw.Contract.SecType]
	if !ok {
		return domain.Position{}, fmt.Errorf("security type %q: %w", raw.Contract.SecType, ErrUnknownAssetType)
	}

	var ownership domain.Ownership
	switch {
	case raw.Position > 0:
		ownership = domain.Buyer
	case raw.Position < 0:
		ownership = domain.Seller
	default:
		ownership = domain.OwnershipNone
	}

	pos := domain.Position{
		Code:        raw.Contract.Symbol,
		Kind:        kind,
		Ownership:   ownership,
		Quantity:    abs(raw.Position),
		Strike:      raw.Contract.Strike,
		AverageCost: raw.AvgCost,
	}

	if exp := raw.Contract.LastTradeDateOrContractMonth; exp != "" {
		t, err := ibkr.ParseDate(exp)
		if err != nil {
			return domain.Position{}, fmt.Errorf("position %s: expiration: %w", raw.Contract.Symbol, err)
		}
		pos.Expiration = &t
	}

	if r := raw.Contract.Right; r != "" {
		right, ok := rights[r]
		if !ok {
			return domain.Position{}, fmt.Errorf("right code %q: %w", r, ErrUnknownRight)
		}
		pos.Right = right
	}

	return pos, nil
}

// Trade translates an order-status event. An unmapped status is an error,
// never a default: order-lifecycle handling keys off this value. A missing
// commission report is the normal pre-fill state and yields nil.
func Trade(ev ibkr.TradeEvent) (domain.Trade, error) {
	status, ok := orderStatuses[ev.Status.Status]
	if !ok {
		return domain.Trade{}, fmt.Errorf("order status %q: %w", ev.Status.Status, ErrUnknownOrderStatus)
	}

	trade := domain.Trade{
		OrderRef:  ev.Order.OrderRef,
		Status:    status,
		Remaining: ev.Status.Remaining,
	}
	if ev.Commission != nil {
		c := ev.Commission.Commission
		trade.Commission = &c
	}
	return trade, nil
}

// Bars translates a historical series one-to-one, preserving the broker's
// chronological delivery order. The result has exactly len(raw) entries.
func Bars(raw []ibkr.Bar) []domain.Bar {
	bars := make([]domain.Bar, len(raw))
	for i, b := range raw {
		bars[i] = domain.Bar{
			Time:    b.Date,
			Open:    b.Open,
			High:    b.High,
			Low:     b.Low,
			Close:   b.Close,
			Average: b.Average,
			Volume:  b.Volume,
			Count:   b.BarCount,
		}
	}
	return bars
}

// Quote normalizes a ticker snapshot. The broker reports fields it has no
// value for as -1; those become nil, never a literal -1.
func Quote(t ibkr.Ticker) domain.Quote {
	return domain.Quote{
		Bid:      known(t.Bid),
		BidSize:  known(t.BidSize),
		Ask:      known(t.Ask),
		AskSize:  known(t.AskSize),
		Last:     known(t.Last),
		LastSize: known(t.LastSize),
		High:     known(t.High),
		Low:      known(t.Low),
		Close:    known(t.Close),
		Volume:   known(t.Volume),
		Time:     t.Time,
	}
}

// Option translates an option ticker into a domain Option. The greeks block
// is attached only when the broker supplied model greeks; it is never
// defaulted to zeros, which would feed a silently wrong value into pricing.
func Option(t ibkr.Ticker) (domain.Option, error) {
	right, ok := rights[t.Contract.Right]
	if !ok {
		return domain.Option{}, fmt.Errorf("right code %q: %w", t.Contract.Right, ErrUnknownRight)
	}
	exp, err := ibkr.ParseDate(t.Contract.LastTradeDateOrContractMonth)
	if err != nil {
		return domain.Option{}, fmt.Errorf("option %s: expiration: %w", t.Contract.Symbol, err)
	}

	opt := domain.Option{
		OptionID: domain.OptionID{
			Code:       t.Contract.Symbol,
			Expiration: exp,
			Strike:     t.Contract.Strike,
			Right:      right,
			Multiplier: t.Contract.Multiplier,
			ConID:      t.Contract.ConID,
		},
		Quote: Quote(t),
	}

	if g := t.ModelGreeks; g != nil {
		opt.Greeks = &domain.Greeks{
			Delta:               g.Delta,
			Gamma:               g.Gamma,
			Theta:               g.Theta,
			Vega:                g.Vega,
			OptionPrice:         g.OptPrice,
			ImpliedVolatility:   g.ImpliedVol,
			UnderlyingPrice:     g.UndPrice,
			UnderlyingDividends: g.PvDividend,
		}
	}

	return opt, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// known converts a wire quote field to an optional domain value: the -1
// "no quote" sentinel becomes nil.
func known(v float64) *float64 {
	if v == ibkr.NoQuote {
		return nil
	}
	return &v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
