package importer

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/herdbook/internal/finance"
)

// Parser turns an uploaded ledger file into transaction params.
type Parser interface {
	Parse(r io.Reader) ([]finance.CreateParams, error)
}

// Suggester proposes a category for a raw bank description.
type Suggester interface {
	Suggest(ctx context.Context, rawDescription string) (*uuid.UUID, error)
}
