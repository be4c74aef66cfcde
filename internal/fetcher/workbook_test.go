package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/statements-cli/internal/model"
)

func writeWorkbook(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, row := range rows {
			r := sheet.AddRow()
			for _, cell := range row {
				r.AddCell().SetString(cell)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "tables.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadWorkbook_SplitsBlocksOnBlankRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"10-K 2023": {
			{"Consolidated Statements of Operations", "2023", "2022"},
			{"Revenue", "300", "280"},
			{"", "", ""},
			{"Consolidated Balance Sheets", "2023", "2022"},
			{"Total assets", "900", "850"},
		},
	})

	tables, err := ReadWorkbook(path, model.Filing{Ticker: "MSFT", FormType: "10-K"})
	require.NoError(t, err)
	require.Len(t, tables, 2)

	assert.Equal(t, "MSFT", tables[0].Filing.Ticker)
	assert.Equal(t, 0, tables[0].HeaderRow)
	assert.Equal(t, "Revenue", tables[0].Rows[1][0])
	assert.Equal(t, "Total assets", tables[1].Rows[1][0])
}

func TestReadWorkbook_HeaderBelowTitleRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"10-K 2023": {
			{"Contoso Corp", "", ""},
			{"Consolidated Statements of Operations", "", ""},
			{"(in thousands)", "2023", "2022"},
			{"Revenue", "300", "280"},
		},
	})

	tables, err := ReadWorkbook(path, model.Filing{Ticker: "CNTS"})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, 2, tables[0].HeaderRow)
}

func TestReadWorkbook_NoHeaderRow(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"notes": {
			{"See accompanying notes", "x"},
		},
	})

	tables, err := ReadWorkbook(path, model.Filing{Ticker: "MSFT"})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, -1, tables[0].HeaderRow)
}

func TestReadWorkbook_MissingFile(t *testing.T) {
	_, err := ReadWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"), model.Filing{})
	assert.Error(t, err)
}
