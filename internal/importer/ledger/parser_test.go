package ledger_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/herdbook/internal/finance"
	"github.com/MrJamesThe3rd/herdbook/internal/importer/ledger"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_SpreadsheetExport(t *testing.T) {
	csv := `date,description,amount,currency,species,group
2024-03-01,Layer feed 500kg,-212.40,EUR,poultry,layers-2024
2024-03-02,Egg sales market,"1,180.00",,poultry,layers-2024
2024-03-05,Calf sale,850,usd,cattle,
`

	p := ledger.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, date(2024, 3, 1), txs[0].Date)
	assert.Equal(t, "Layer feed 500kg", txs[0].Description)
	assert.Equal(t, "212.40", txs[0].Amount.StringFixed(2))
	assert.Equal(t, finance.TypeExpense, txs[0].Type)
	assert.Equal(t, "EUR", txs[0].Currency)
	require.NotNil(t, txs[0].SpeciesID)
	assert.Equal(t, "poultry", *txs[0].SpeciesID)
	require.NotNil(t, txs[0].GroupID)
	assert.Equal(t, "layers-2024", *txs[0].GroupID)

	assert.Equal(t, "1180.00", txs[1].Amount.StringFixed(2))
	assert.Equal(t, finance.TypeIncome, txs[1].Type)
	assert.Empty(t, txs[1].Currency)

	assert.Equal(t, "USD", txs[2].Currency)
	assert.Nil(t, txs[2].GroupID)
}

func TestParser_BankStatement(t *testing.T) {
	csv := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE

Dados da conta
Saldo contabilístico;1.000,00 EUR

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;AGROMAIS RACOES;-588,74;48.825,46
09-01-2026;09-01-2026;COOP LEITE PAGAMENTO;8.608,52;52.532,78
`

	p := ledger.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2026, 1, 30), txs[0].Date)
	assert.Equal(t, "AGROMAIS RACOES", txs[0].Description)
	assert.Equal(t, "588.74", txs[0].Amount.StringFixed(2))
	assert.Equal(t, finance.TypeExpense, txs[0].Type)

	assert.Equal(t, date(2026, 1, 9), txs[1].Date)
	assert.Equal(t, "8608.52", txs[1].Amount.StringFixed(2))
	assert.Equal(t, finance.TypeIncome, txs[1].Type)
}

func TestParser_DebitCredit(t *testing.T) {
	csv := `Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;VETERINARIA SAO JOSE ;64,00 ; ;
31-12-2025 ;29-12-2025 ;SUBSIDIO PAC ; ;1.250,00 ;
 ; ; ; ;Página 1/2 ;
`

	p := ledger.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "VETERINARIA SAO JOSE", txs[0].Description)
	assert.Equal(t, "64.00", txs[0].Amount.StringFixed(2))
	assert.Equal(t, finance.TypeExpense, txs[0].Type)

	assert.Equal(t, date(2025, 12, 31), txs[1].Date)
	assert.Equal(t, "1250.00", txs[1].Amount.StringFixed(2))
	assert.Equal(t, finance.TypeIncome, txs[1].Type)
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Data mov.;Descrição;Montante\n30-01-2026;RAÇÃO COELHOS;-10,00\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := ledger.NewParser()
	txs, err := p.Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "RAÇÃO COELHOS", txs[0].RawDescription)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Random;MetaData
Amount;Description;Date;Ignored
-10,00;FENCING;30/01/2026;XXX
`

	p := ledger.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "FENCING", txs[0].Description)
	assert.Equal(t, "10.00", txs[0].Amount.StringFixed(2))
	assert.Equal(t, date(2026, 1, 30), txs[0].Date)
}

func TestParser_EmptyFile(t *testing.T) {
	p := ledger.NewParser()
	_, err := p.Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ledger.ErrUnknownFormat)
}

func TestParser_HeaderOnly(t *testing.T) {
	p := ledger.NewParser()
	txs, err := p.Parse(strings.NewReader("date;description;amount"))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestParser_MissingDescription(t *testing.T) {
	csv := `date;description;amount
2026-01-30;;-10,00
`

	p := ledger.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2: missing description")
}

func TestParser_UnreadableAmount(t *testing.T) {
	csv := `date;description;amount
2026-01-30;HAY;ten euros
`

	p := ledger.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParser_SkipsZeroAndFooterRows(t *testing.T) {
	csv := `date;description;amount
2026-01-30;HAY;-10,00
2026-01-31;REVERSAL;0,00
Totais;;;;
`

	p := ledger.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, txs[0].Description, txs[0].RawDescription)
}
