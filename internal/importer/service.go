package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/herdbook/internal/finance"
	"github.com/MrJamesThe3rd/herdbook/internal/importer/ledger"
)

type Service struct {
	parser    Parser
	suggester Suggester
}

// NewService builds an import service. A nil parser selects the ledger CSV
// parser; a nil suggester leaves categories empty.
func NewService(parser Parser, suggester Suggester) *Service {
	if parser == nil {
		parser = ledger.NewParser()
	}

	return &Service{
		parser:    parser,
		suggester: suggester,
	}
}

// Import parses r and fills in a suggested category for every row that has
// none. Suggestion failures are logged and leave the row uncategorised.
func (s *Service) Import(ctx context.Context, r io.Reader) ([]finance.CreateParams, error) {
	params, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse ledger: %w", err)
	}

	if s.suggester == nil {
		return params, nil
	}

	for i, p := range params {
		if p.CategoryID != nil {
			continue
		}

		categoryID, err := s.suggester.Suggest(ctx, p.RawDescription)
		if err != nil {
			slog.Warn("failed to suggest category", "raw_description", p.RawDescription, "error", err)
			continue
		}

		params[i].CategoryID = categoryID
	}

	return params, nil
}
