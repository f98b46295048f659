package xlsexport

import "github.com/xuri/excelize/v2"

const (
	fontFamily = "Calibri"
	colWidth   = 22
	// ширина колонок со свободным текстом
	wideColWidth = 60
)

func writeCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func writeHeader(f *excelize.File, sheet string, columns []column) error {
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: true, Family: fontFamily, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return err
	}
	for idx, c := range columns {
		if err = writeCell(f, sheet, idx+1, 1, c.title); err != nil {
			return err
		}
		name, err := excelize.ColumnNumberToName(idx + 1)
		if err != nil {
			return err
		}
		width := float64(colWidth)
		if c.wide {
			width = wideColWidth
		}
		if err = f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err = f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	// шапка остается видимой при прокрутке
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func applyDataStyle(f *excelize.File, sheet string, colTo, rowTo int) error {
	if rowTo < 2 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		Font:      &excelize.Font{Family: fontFamily, Size: 11},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(colTo, rowTo)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A2", last, style)
}
