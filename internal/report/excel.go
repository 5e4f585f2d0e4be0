package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Puantaj"

// RenderExcel - Puantaj tablosunu biçimlendirilmiş bir xlsx dosyasına çevirir.
func RenderExcel(table Table) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("sayfa oluşturulamadı: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4285F4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("başlık stili oluşturulamadı: %w", err)
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("hücre stili oluşturulamadı: %w", err)
	}

	zebraStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F5F5F5"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("hücre stili oluşturulamadı: %w", err)
	}

	for col, header := range table.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("başlık yazılamadı: %w", err)
		}
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, row := range table.Rows {
		style := cellStyle
		if i%2 == 1 {
			style = zebraStyle
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("hücre yazılamadı: %w", err)
			}
			_ = f.SetCellStyle(sheetName, cell, cell, style)
		}
	}

	// Bilgi sütunları geniş, gün sütunları dar tutulur
	if table.DayColumns > 0 {
		firstInfo, _ := excelize.ColumnNumberToName(1)
		lastInfo, _ := excelize.ColumnNumberToName(table.DayColumns)
		_ = f.SetColWidth(sheetName, firstInfo, lastInfo, 18)
	}
	if len(table.Headers) > table.DayColumns {
		firstDay, _ := excelize.ColumnNumberToName(table.DayColumns + 1)
		lastDay, _ := excelize.ColumnNumberToName(len(table.Headers))
		_ = f.SetColWidth(sheetName, firstDay, lastDay, 12)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("dosya yazılamadı: %w", err)
	}
	return buf, nil
}

func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1, Color: "CCCCCC"},
		{Type: "right", Style: 1, Color: "CCCCCC"},
		{Type: "top", Style: 1, Color: "CCCCCC"},
		{Type: "bottom", Style: 1, Color: "CCCCCC"},
	}
}
