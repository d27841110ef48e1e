package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	type testCase struct {
		in      string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{in: "10,00", want: "10.00"},
		{in: "-588,74", want: "-588.74"},
		{in: "1.234,56", want: "1234.56"},
		{in: "-1.234.567,89", want: "-1234567.89"},
		{in: "1,234.56", want: "1234.56"},
		{in: "212.40", want: "212.40"},
		{in: "1.234.567", want: "1234567.00"},
		{in: "€ 1 250,00", want: "1250.00"},
		{in: "850", want: "850.00"},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}
