package report

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet every report is written to.
const SheetName = "Informe"

// XLSXRenderer writes a Document as a single worksheet, one spreadsheet row
// per text line or table row, with a page break where each page starts.
type XLSXRenderer struct{}

func (XLSXRenderer) Extension() string { return ".xlsx" }
func (XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXRenderer) Render(doc *Document) ([]byte, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{fmt.Sprintf("%02X%02X%02X", headerFill[0], headerFill[1], headerFill[2])},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	w := &sheetWriter{f: f, row: 1}
	for i, page := range doc.Pages {
		if i > 0 {
			cell, _ := excelize.CoordinatesToCellName(1, w.row)
			if err := f.InsertPageBreak(SheetName, cell); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to insert page break: %w", err)
			}
		}
		for _, el := range page.Elements {
			switch el.Kind {
			case ElementText:
				style := 0
				if el.Text.FontSize >= HeadingSize {
					style = titleStyle
				}
				err = w.line([]any{el.Text.Content}, style)
			case ElementTable:
				err = w.table(el.Table, headerStyle)
			}
			if err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(SheetName, "A", "E", 18); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetWriter struct {
	f   *excelize.File
	row int
}

func (w *sheetWriter) line(values []any, style int) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, w.row)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := w.f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
		if style != 0 {
			if err := w.f.SetCellStyle(SheetName, cell, cell, style); err != nil {
				return fmt.Errorf("failed to set style on %s: %w", cell, err)
			}
		}
	}
	w.row++
	return nil
}

func (w *sheetWriter) table(t *Table, headerStyle int) error {
	head := make([]any, len(t.Head))
	for i, h := range t.Head {
		head[i] = h
	}
	if err := w.line(head, headerStyle); err != nil {
		return err
	}
	for _, row := range t.Rows {
		values := make([]any, len(row))
		for i, cell := range row {
			// Measurements stay numeric so the sheet can chart them.
			if n, err := strconv.Atoi(cell); err == nil {
				values[i] = n
			} else {
				values[i] = cell
			}
		}
		if err := w.line(values, 0); err != nil {
			return err
		}
	}
	w.row++
	return nil
}
