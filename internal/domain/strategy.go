package domain

import "github.com/google/uuid"

// Leg is one constituent of a multi-leg option strategy: the contract, its
// ratio within the combo, and its direction.
type Leg struct {
	Key       string
	Option    Option
	Ratio     int
	Ownership Ownership
}

// Strategy is a multi-leg option position request. Legs keep their
// construction order; the combo submitted to the broker lists them in the
// same order. EntryPrice is the limit for the spread as a whole and
// TakeProfitPrice the limit of the closing child order.
type Strategy struct {
	ID              string
	Code            string
	Currency        string
	Ownership       Ownership
	Quantity        float64
	EntryPrice      float64
	TakeProfitPrice float64

	legs []Leg
	keys map[string]int
}

// NewStrategy creates a strategy with no legs. An empty id is replaced with
// a generated UUID.
func NewStrategy(id, code, currency string, ownership Ownership, quantity, entryPrice, takeProfitPrice float64) *Strategy {
	if id == "" {
		id = uuid.NewString()
	}
	return &Strategy{
		ID:              id,
		Code:            code,
		Currency:        currency,
		Ownership:       ownership,
		Quantity:        quantity,
		EntryPrice:      entryPrice,
		TakeProfitPrice: takeProfitPrice,
		keys:            make(map[string]int),
	}
}

// AddLeg appends a leg under the given key, preserving insertion order.
// Adding a key twice replaces the earlier leg in place, keeping its slot.
func (s *Strategy) AddLeg(key string, option Option, ratio int, ownership Ownership) {
	leg := Leg{Key: key, Option: option, Ratio: ratio, Ownership: ownership}
	if s.keys == nil {
		s.keys = make(map[string]int)
	}
	if i, ok := s.keys[key]; ok {
		s.legs[i] = leg
		return
	}
	s.keys[key] = len(s.legs)
	s.legs = append(s.legs, leg)
}

// Leg returns the leg stored under key.
func (s *Strategy) Leg(key string) (Leg, bool) {
	i, ok := s.keys[key]
	if !ok {
		return Leg{}, false
	}
	return s.legs[i], true
}

// Legs returns the legs in insertion order. The returned slice is a copy.
func (s *Strategy) Legs() []Leg {
	out := make([]Leg, len(s.legs))
	copy(out, s.legs)
	return out
}
