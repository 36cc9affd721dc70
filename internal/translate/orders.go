package translate

import (
	"fmt"

	"condor/internal/domain"
	"condor/internal/ibkr"
)

// Order reference suffixes distinguish the two orders of a strategy bracket
// in the broker's order-status events.
const (
	parentRefSuffix     = "_PO"
	takeProfitRefSuffix = "_TP"
)

// actionFor maps a leg or strategy direction to the broker's action code.
func actionFor(o domain.Ownership) (string, error) {
	switch o {
	case domain.Buyer:
		return ibkr.ActionBuy, nil
	case domain.Seller:
		return ibkr.ActionSell, nil
	default:
		return "", fmt.Errorf("ownership %q has no order action", o)
	}
}

// ComboContract builds the combo (BAG) contract for a strategy: one combo
// leg per strategy leg, in the strategy's leg insertion order, each leg
// carrying its ratio and the action derived from its ownership.
func ComboContract(s *domain.Strategy) (ibkr.Contract, error) {
	legs := s.Legs()
	if len(legs) == 0 {
		return ibkr.Contract{}, fmt.Errorf("strategy %s: no legs", s.ID)
	}

	contract := ibkr.Contract{
		Symbol:   s.Code,
		SecType:  ibkr.SecTypeCombo,
		Exchange: ibkr.ExchangeSmart,
		Currency: s.Currency,
	}
	for _, leg := range legs {
		action, err := actionFor(leg.Ownership)
		if err != nil {
			return ibkr.Contract{}, fmt.Errorf("strategy %s leg %s: %w", s.ID, leg.Key, err)
		}
		contract.ComboLegs = append(contract.ComboLegs, ibkr.ComboLeg{
			ConID:    leg.Option.ConID,
			Ratio:    leg.Ratio,
			Action:   action,
			Exchange: ibkr.ExchangeSmart,
		})
	}
	return contract, nil
}

// BracketOrders builds the strategy's order pair: a good-till-cancelled
// parent limit order at the entry price, and a take-profit child limit
// order at the take-profit price with the exact opposite action, linked to
// the parent through ParentID so the broker activates it only once the
// parent fills. Both orders are marked to transmit immediately; the
// parent-link field is the gating contract and is therefore mandatory.
func BracketOrders(s *domain.Strategy, parentID, takeProfitID int) (parent, takeProfit ibkr.Order, err error) {
	if parentID <= 0 {
		return ibkr.Order{}, ibkr.Order{}, fmt.Errorf("strategy %s: parent order id not assigned", s.ID)
	}
	if takeProfitID <= 0 {
		return ibkr.Order{}, ibkr.Order{}, fmt.Errorf("strategy %s: take-profit order id not assigned", s.ID)
	}

	action, err := actionFor(s.Ownership)
	if err != nil {
		return ibkr.Order{}, ibkr.Order{}, fmt.Errorf("strategy %s: %w", s.ID, err)
	}
	reversed, _ := actionFor(s.Ownership.Opposite())

	parent = ibkr.Order{
		OrderID:       parentID,
		Action:        action,
		OrderType:     ibkr.OrderTypeLimit,
		TotalQuantity: s.Quantity,
		LmtPrice:      s.EntryPrice,
		TIF:           ibkr.TIFGoodTillCancels,
		OrderRef:      s.ID + parentRefSuffix,
		Transmit:      true,
	}
	takeProfit = ibkr.Order{
		OrderID:       takeProfitID,
		ParentID:      parentID,
		Action:        reversed,
		OrderType:     ibkr.OrderTypeLimit,
		TotalQuantity: s.Quantity,
		LmtPrice:      s.TakeProfitPrice,
		TIF:           ibkr.TIFGoodTillCancels,
		OrderRef:      s.ID + takeProfitRefSuffix,
		Transmit:      true,
	}
	return parent, takeProfit, nil
}
