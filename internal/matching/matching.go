package matching

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyPattern    = errors.New("pattern is required")
	ErrNotFound        = errors.New("mapping not found")
	ErrUnknownCategory = errors.New("unknown category")
)

// Mapping sends descriptions containing RawPattern to a category.
type Mapping struct {
	ID           uuid.UUID
	RawPattern   string
	CategoryID   uuid.UUID
	CategoryName string // Loaded via JOIN
	CreatedAt    time.Time
}
