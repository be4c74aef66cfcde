package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTable_PadsRaggedRows(t *testing.T) {
	tbl := NewTable(Filing{Ticker: "MSFT"}, [][]string{
		{"Revenue", "100", "110"},
		{"Net income", "50"},
	}, 0)

	assert.Equal(t, 3, tbl.Columns())
	assert.Equal(t, []string{"Net income", "50", ""}, tbl.Rows[1])
}

func TestNewTable_DropsEmptyRows(t *testing.T) {
	tbl := NewTable(Filing{}, [][]string{
		{"", "", ""},
		{"2022", "2023"},
		{"Revenue", "100", "110"},
	}, 1)

	assert.Len(t, tbl.Rows, 2)
	// Header index shifts up when rows above it are removed.
	assert.Equal(t, 0, tbl.HeaderRow)
}

func TestNewTable_DropsEmptyColumns(t *testing.T) {
	tbl := NewTable(Filing{}, [][]string{
		{"Revenue", "", "100"},
		{"Net income", "", "50"},
	}, -1)

	assert.Equal(t, 2, tbl.Columns())
	assert.Equal(t, []string{"Revenue", "100"}, tbl.Rows[0])
}

func TestNewTable_Empty(t *testing.T) {
	tbl := NewTable(Filing{}, [][]string{{"", ""}, {""}}, 0)
	assert.True(t, tbl.Empty())
	assert.Equal(t, -1, tbl.HeaderRow)
}

func TestNewTable_CleansWhitespace(t *testing.T) {
	tbl := NewTable(Filing{}, [][]string{{"  Total   revenue ", " 1,234 "}}, -1)
	assert.Equal(t, "Total revenue", tbl.Rows[0][0])
	assert.Equal(t, "1,234", tbl.Rows[0][1])
}

func TestPeriod_String(t *testing.T) {
	assert.Equal(t, "2023", Period{Year: 2023}.String())
	assert.Equal(t, "Q2 2023", Period{Year: 2023, Quarter: 2}.String())
}

func TestPeriod_Before(t *testing.T) {
	assert.True(t, Period{Year: 2022}.Before(Period{Year: 2023}))
	assert.True(t, Period{Year: 2023, Quarter: 1}.Before(Period{Year: 2023, Quarter: 2}))
	assert.False(t, Period{Year: 2023}.Before(Period{Year: 2023}))
}

func TestRunReport_RejectedCount(t *testing.T) {
	r := RunReport{Rejections: []Rejection{
		{Reason: RejectMalformed},
		{Reason: RejectLowConfidence},
		{Reason: RejectLowConfidence},
	}}
	assert.Equal(t, 1, r.RejectedCount(RejectMalformed))
	assert.Equal(t, 2, r.RejectedCount(RejectLowConfidence))
}
