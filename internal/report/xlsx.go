package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	dateTimeLayout = "02/01/2006 15:04"
	dateLayout     = "02/01/2006"

	headerRow    = 5 // column headers; rows 1-3 hold the title block
	firstDataRow = 6
)

// RenderXLSX renders a Document to spreadsheet bytes: a merged title
// block, a styled column-header row, the data rows, a summary row and
// content-sized columns.
func RenderXLSX(doc *Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := doc.Title
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F3864"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("data style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{
		NumFmt:    4, // #,##0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}
	centerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("center style: %w", err)
	}

	cols := len(doc.Columns)
	widths := make([]int, cols)
	for i, name := range doc.Columns {
		widths[i] = len(name)
	}

	// Title block.
	titleLines := []string{
		doc.Title,
		fmt.Sprintf("Period: %s to %s", doc.PeriodStart.Format(dateLayout), doc.PeriodEnd.Format(dateLayout)),
		fmt.Sprintf("Generated at: %s", doc.GeneratedAt.Format(dateTimeLayout)),
	}
	for i, line := range titleLines {
		row := i + 1
		cell, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(cols, row)
		if err := f.SetCellValue(sheet, cell, line); err != nil {
			return nil, err
		}
		if err := f.MergeCell(sheet, cell, last); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, last, headerStyle); err != nil {
			return nil, err
		}
	}

	// Column headers.
	for i, name := range doc.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	// Data rows.
	for r, row := range doc.Rows {
		for cIdx, cell := range row {
			name, _ := excelize.CoordinatesToCellName(cIdx+1, firstDataRow+r)
			style := dataStyle
			var value any
			var rendered string
			switch cell.Kind {
			case IntCell:
				value = cell.Int
				rendered = fmt.Sprintf("%d", cell.Int)
				style = centerStyle
			case MoneyCell:
				fv, _ := cell.Money.Float64()
				value = fv
				rendered = cell.Money.StringFixed(2)
				style = moneyStyle
			case TimeCell:
				rendered = cell.Time.Format(dateTimeLayout)
				value = rendered
				style = centerStyle
			default:
				value = cell.Text
				rendered = cell.Text
			}
			if err := f.SetCellValue(sheet, name, value); err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(sheet, name, name, style); err != nil {
				return nil, err
			}
			if cIdx < cols && len(rendered) > widths[cIdx] {
				widths[cIdx] = len(rendered)
			}
		}
	}

	// Summary row, one blank row below the data.
	summaryRow := firstDataRow + len(doc.Rows) + 1
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	if err := f.SetCellValue(sheet, cell, "SUMMARY:"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
		return nil, err
	}
	col := 2
	for _, item := range doc.Summary {
		labelCell, _ := excelize.CoordinatesToCellName(col, summaryRow)
		valueCell, _ := excelize.CoordinatesToCellName(col+1, summaryRow)
		if err := f.SetCellValue(sheet, labelCell, item.Label+":"); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, labelCell, labelCell, headerStyle); err != nil {
			return nil, err
		}
		switch item.Value.Kind {
		case MoneyCell:
			fv, _ := item.Value.Money.Float64()
			if err := f.SetCellValue(sheet, valueCell, fv); err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(sheet, valueCell, valueCell, moneyStyle); err != nil {
				return nil, err
			}
		default:
			if err := f.SetCellValue(sheet, valueCell, item.Value.Int); err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(sheet, valueCell, valueCell, centerStyle); err != nil {
				return nil, err
			}
		}
		col += 2
	}

	// Size columns to their widest content.
	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, float64(w)+4); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1},
		{Type: "right", Style: 1},
		{Type: "top", Style: 1},
		{Type: "bottom", Style: 1},
	}
}
