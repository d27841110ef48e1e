package importer_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/herdbook/internal/finance"
	"github.com/MrJamesThe3rd/herdbook/internal/importer"
)

type fakeParser struct {
	params []finance.CreateParams
	err    error
}

func (f *fakeParser) Parse(io.Reader) ([]finance.CreateParams, error) {
	return f.params, f.err
}

type fakeSuggester struct {
	byRaw map[string]uuid.UUID
	err   error
	calls int
}

func (f *fakeSuggester) Suggest(_ context.Context, raw string) (*uuid.UUID, error) {
	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	id, ok := f.byRaw[raw]
	if !ok {
		return nil, nil
	}

	return &id, nil
}

func TestService_Import(t *testing.T) {
	feed := uuid.New()
	vet := uuid.New()

	type testCase struct {
		name      string
		parser    *fakeParser
		suggester *fakeSuggester
		wantErr   bool
		verify    func(t *testing.T, params []finance.CreateParams, s *fakeSuggester)
	}

	tests := []testCase{
		{
			name: "suggests categories for uncategorised rows",
			parser: &fakeParser{params: []finance.CreateParams{
				{RawDescription: "AGROMAIS RACOES"},
				{RawDescription: "UNKNOWN SHOP"},
				{RawDescription: "VET CLINIC", CategoryID: &vet},
			}},
			suggester: &fakeSuggester{byRaw: map[string]uuid.UUID{"AGROMAIS RACOES": feed}},
			verify: func(t *testing.T, params []finance.CreateParams, s *fakeSuggester) {
				require.Len(t, params, 3)
				require.NotNil(t, params[0].CategoryID)
				assert.Equal(t, feed, *params[0].CategoryID)
				assert.Nil(t, params[1].CategoryID)
				assert.Equal(t, vet, *params[2].CategoryID)
				assert.Equal(t, 2, s.calls)
			},
		},
		{
			name: "suggestion errors leave rows uncategorised",
			parser: &fakeParser{params: []finance.CreateParams{
				{RawDescription: "AGROMAIS RACOES"},
			}},
			suggester: &fakeSuggester{err: errors.New("db down")},
			verify: func(t *testing.T, params []finance.CreateParams, _ *fakeSuggester) {
				require.Len(t, params, 1)
				assert.Nil(t, params[0].CategoryID)
			},
		},
		{
			name:      "parse failure",
			parser:    &fakeParser{err: errors.New("bad csv")},
			suggester: &fakeSuggester{},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := importer.NewService(tt.parser, tt.suggester)

			params, err := svc.Import(context.Background(), strings.NewReader(""))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.verify(t, params, tt.suggester)
		})
	}
}

func TestService_Import_DefaultParser(t *testing.T) {
	svc := importer.NewService(nil, nil)

	params, err := svc.Import(context.Background(), strings.NewReader("date;description;amount\n2026-02-01;HAY BALES;-40,00\n"))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, finance.TypeExpense, params[0].Type)
	assert.Nil(t, params[0].CategoryID)
}
