package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument() *Document {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	return &Document{
		Title:       "Sales Report",
		PeriodStart: start,
		PeriodEnd:   end,
		GeneratedAt: time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC),
		Columns:     []string{"Duck", "Customer", "Final Price", "Sold At"},
		Rows: [][]Cell{
			{
				Text("Donald"),
				Text("Alice"),
				Money(decimal.RequireFromString("120.00")),
				Clock(time.Date(2026, 8, 15, 14, 45, 0, 0, time.UTC)),
			},
		},
		Summary: []SummaryItem{
			{Label: "Total Sales", Value: Int(1)},
			{Label: "Total Revenue", Value: Money(decimal.RequireFromString("120.00"))},
		},
	}
}

func TestRenderXLSX(t *testing.T) {
	data, err := RenderXLSX(sampleDocument())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	// The sheet is named after the document title.
	assert.Equal(t, []string{"Sales Report"}, f.GetSheetList())

	title, err := f.GetCellValue("Sales Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sales Report", title)

	period, err := f.GetCellValue("Sales Report", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Period: 01/08/2026 to 31/08/2026", period)

	// Column headers sit on row 5, data starts on row 6.
	header, err := f.GetCellValue("Sales Report", "A5")
	require.NoError(t, err)
	assert.Equal(t, "Duck", header)

	duck, err := f.GetCellValue("Sales Report", "A6")
	require.NoError(t, err)
	assert.Equal(t, "Donald", duck)

	soldAt, err := f.GetCellValue("Sales Report", "D6")
	require.NoError(t, err)
	assert.Equal(t, "15/08/2026 14:45", soldAt)

	// Summary row sits one blank row below the data.
	label, err := f.GetCellValue("Sales Report", "A8")
	require.NoError(t, err)
	assert.Equal(t, "SUMMARY:", label)

	summaryLabel, err := f.GetCellValue("Sales Report", "B8")
	require.NoError(t, err)
	assert.Equal(t, "Total Sales:", summaryLabel)
}

func TestRenderXLSXEmptyDocument(t *testing.T) {
	doc := sampleDocument()
	doc.Rows = nil
	doc.Summary = []SummaryItem{
		{Label: "Total Sales", Value: Int(0)},
		{Label: "Total Revenue", Value: Money(decimal.Zero)},
	}

	data, err := RenderXLSX(doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	label, err := f.GetCellValue("Sales Report", "A7")
	require.NoError(t, err)
	assert.Equal(t, "SUMMARY:", label)
}
