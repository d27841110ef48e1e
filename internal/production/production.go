package production

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidEventType = errors.New("invalid event type")
	ErrInvalidRecord    = errors.New("invalid production record")
)

type EventType string

const (
	EventBirth       EventType = "birth"
	EventDeath       EventType = "death"
	EventWeight      EventType = "weight"
	EventEggCount    EventType = "egg_count"
	EventMilkVolume  EventType = "milk_volume"
	EventSale        EventType = "sale"
	EventPurchase    EventType = "purchase"
	EventFeedIntake  EventType = "feed_intake"
	EventCull        EventType = "cull"
	EventTreatment   EventType = "treatment"
	EventTransfer    EventType = "transfer"
	EventGrazingMove EventType = "grazing_move"
)

// EventTypes lists every accepted event type in display order.
var EventTypes = []EventType{
	EventBirth, EventDeath, EventWeight, EventEggCount, EventMilkVolume, EventSale,
	EventPurchase, EventFeedIntake, EventCull, EventTreatment, EventTransfer, EventGrazingMove,
}

// Record is a single production event. Only the measure matching the event
// type is set.
type Record struct {
	ID         uuid.UUID
	SpeciesID  *string
	GroupID    *string
	AnimalID   *uuid.UUID
	EventType  EventType
	Date       time.Time
	Quantity   *decimal.Decimal
	Weight     *decimal.Decimal
	EggCount   *int64
	MilkVolume *decimal.Decimal
	Notes      string
	CreatedAt  time.Time
}
