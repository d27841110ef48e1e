package production

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type measure int

const (
	measureNone measure = iota
	measureQuantity
	measureWeight
	measureEggCount
	measureMilkVolume
)

func (m measure) String() string {
	switch m {
	case measureQuantity:
		return "quantity"
	case measureWeight:
		return "weight"
	case measureEggCount:
		return "egg_count"
	case measureMilkVolume:
		return "milk_volume"
	}

	return "none"
}

var measures = map[EventType]measure{
	EventBirth:       measureQuantity,
	EventDeath:       measureQuantity,
	EventSale:        measureQuantity,
	EventPurchase:    measureQuantity,
	EventCull:        measureQuantity,
	EventFeedIntake:  measureQuantity,
	EventWeight:      measureWeight,
	EventEggCount:    measureEggCount,
	EventMilkVolume:  measureMilkVolume,
	EventTreatment:   measureNone,
	EventTransfer:    measureNone,
	EventGrazingMove: measureNone,
}

func (t EventType) Valid() bool {
	_, ok := measures[t]
	return ok
}

// Measure names the field t requires, or "none".
func (t EventType) Measure() string {
	return measures[t].String()
}

// Validate checks that r carries exactly the measure its event type requires.
func Validate(r *Record) error {
	want, ok := measures[r.EventType]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidEventType, r.EventType)
	}

	present := map[measure]bool{
		measureQuantity:   r.Quantity != nil,
		measureWeight:     r.Weight != nil,
		measureEggCount:   r.EggCount != nil,
		measureMilkVolume: r.MilkVolume != nil,
	}

	for m, set := range present {
		if set && m != want {
			return fmt.Errorf("%w: %s does not take %s", ErrInvalidRecord, r.EventType, m)
		}
	}

	if want != measureNone && !present[want] {
		return fmt.Errorf("%w: %s requires %s", ErrInvalidRecord, r.EventType, want)
	}

	if negative(r.Quantity) || negative(r.Weight) || negative(r.MilkVolume) || (r.EggCount != nil && *r.EggCount < 0) {
		return fmt.Errorf("%w: measures cannot be negative", ErrInvalidRecord)
	}

	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidRecord)
	}

	return nil
}

func negative(d *decimal.Decimal) bool {
	return d != nil && d.IsNegative()
}
