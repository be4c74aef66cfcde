package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/statements-cli/internal/model"
)

func sampleSheet() model.ConsolidatedSheet {
	p22 := model.Period{Year: 2022}
	p23 := model.Period{Year: 2023}
	return model.ConsolidatedSheet{
		Ticker:  "MSFT",
		Type:    model.StatementIncome,
		Periods: []model.Period{p22, p23},
		Rows: []model.MergedRow{
			{
				CanonicalLabel: "revenue",
				Values:         map[model.Period]model.Amount{p22: model.Num(280), p23: model.Num(300)},
				WasMerged:      true,
			},
			{
				CanonicalLabel: "net income",
				Values:         map[model.Period]model.Amount{p22: model.Num(45), p23: {}},
				Conflicts:      map[model.Period]bool{p22: true},
			},
		},
	}
}

func TestWriteWorkbook_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteWorkbook(path, []model.ConsolidatedSheet{sampleSheet()}))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	tab, ok := f.Sheet["Income Statement"]
	require.True(t, ok)
	require.Len(t, tab.Rows, 3)

	assert.Equal(t, "Line Item", tab.Rows[0].Cells[0].String())
	assert.Equal(t, "2022", tab.Rows[0].Cells[1].String())
	assert.Equal(t, "2023", tab.Rows[0].Cells[2].String())

	assert.Equal(t, "revenue", tab.Rows[1].Cells[0].String())
	v, err := tab.Rows[1].Cells[1].Float()
	require.NoError(t, err)
	assert.Equal(t, 280.0, v)

	// A missing amount leaves the cell blank instead of writing zero.
	assert.Equal(t, "", tab.Rows[2].Cells[2].String())
}

func TestWriteWorkbook_HighlightsMergedAndConflicted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteWorkbook(path, []model.ConsolidatedSheet{sampleSheet()}))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	tab := f.Sheet["Income Statement"]

	merged := tab.Rows[1].Cells[0].GetStyle()
	require.NotNil(t, merged)
	assert.Equal(t, "FFFFFF00", merged.Fill.FgColor)

	conflicted := tab.Rows[2].Cells[1].GetStyle()
	require.NotNil(t, conflicted)
	assert.Equal(t, "FFFFA500", conflicted.Fill.FgColor)
}

func TestWriteWorkbook_EmptySheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	assert.Error(t, WriteWorkbook(path, nil))
}
