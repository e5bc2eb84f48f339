package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter renders a GridSheet into a single-sheet workbook.
type XLSXExporter struct {
	sheetName string
}

// NewXLSXExporter constructs an XLSX exporter writing to the named sheet.
func NewXLSXExporter(sheetName string) *XLSXExporter {
	if sheetName == "" {
		sheetName = "Timetable"
	}
	return &XLSXExporter{sheetName: sheetName}
}

// RenderGrid writes the title row, the column headers and one row per grid row.
func (e *XLSXExporter) RenderGrid(sheet GridSheet) ([]byte, error) {
	if err := sheet.validate(); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if _, err := f.NewSheet(e.sheetName); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if e.sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("drop default sheet: %w", err)
		}
	}
	if idx, err := f.GetSheetIndex(e.sheetName); err == nil {
		f.SetActiveSheet(idx)
	}

	lastCol := columnName(len(sheet.ColumnHeaders))
	if err := f.SetColWidth(e.sheetName, "A", "A", 24); err != nil {
		return nil, fmt.Errorf("set header width: %w", err)
	}
	if err := f.SetColWidth(e.sheetName, "B", lastCol, 22); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#ECF0F1"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	row := 1
	if sheet.Title != "" {
		_ = f.SetCellValue(e.sheetName, "A1", sheet.Title)
		_ = f.MergeCell(e.sheetName, "A1", fmt.Sprintf("%s1", lastCol))
		_ = f.SetCellStyle(e.sheetName, "A1", "A1", headerStyle)
		row++
	}

	_ = f.SetCellValue(e.sheetName, cellName(0, row), sheet.CornerLabel)
	for i, header := range sheet.ColumnHeaders {
		_ = f.SetCellValue(e.sheetName, cellName(i+1, row), header)
	}
	_ = f.SetCellStyle(e.sheetName, cellName(0, row), cellName(len(sheet.ColumnHeaders), row), headerStyle)
	row++

	styles := map[string]int{}
	for _, gridRow := range sheet.Rows {
		_ = f.SetCellValue(e.sheetName, cellName(0, row), gridRow.Header)
		_ = f.SetCellStyle(e.sheetName, cellName(0, row), cellName(0, row), headerStyle)
		_ = f.SetRowHeight(e.sheetName, row, 36)

		for i, cell := range gridRow.Cells {
			if cell.Empty() {
				continue
			}
			ref := cellName(i+1, row)
			_ = f.SetCellValue(e.sheetName, ref, cell.Title+"\n"+cell.Detail)
			if cell.Fill == "" {
				continue
			}
			styleID, ok := styles[cell.Fill]
			if !ok {
				styleID, err = f.NewStyle(&excelize.Style{
					Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
					Fill:      excelize.Fill{Type: "pattern", Color: []string{cell.Fill}, Pattern: 1},
					Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
				})
				if err != nil {
					return nil, fmt.Errorf("cell style %s: %w", cell.Fill, err)
				}
				styles[cell.Fill] = styleID
			}
			_ = f.SetCellStyle(e.sheetName, ref, ref, styleID)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func columnName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
