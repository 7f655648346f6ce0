// Package export walks a sheet's evaluated cell values out to xlsx (via
// excelize), csv, or a one-page pdf snapshot (via gofpdf), the inverse of
// feature/importer. Export always writes computed values, never formula
// source, so the result opens cleanly in spreadsheet tools that don't
// understand this engine's function set.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
	"github.com/go-mizu/blueprints/formulaengine/store"
)

// Format selects an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// Grid reads every cell in [0,rows)x[0,cols) from sheetID.
func Grid(ctx context.Context, st store.Store, sheetID string, rows, cols int) ([][]formula.Value, error) {
	if rows == 0 || cols == 0 {
		return [][]formula.Value{}, nil
	}
	return st.Cell().GetRange(ctx, sheetID, 0, 0, rows-1, cols-1)
}

// Write renders grid in format to w.
func Write(w io.Writer, grid [][]formula.Value, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, grid)
	case FormatXLSX:
		return writeXLSX(w, grid)
	case FormatPDF:
		return writePDF(w, grid)
	default:
		return fmt.Errorf("export: unsupported format %q", format)
	}
}

func writeCSV(w io.Writer, grid [][]formula.Value) error {
	cw := csv.NewWriter(w)
	for _, row := range grid {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = v.ToText()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, grid [][]formula.Value) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	const sheetName = "Sheet1"
	for row, cells := range grid {
		for col, v := range cells {
			if v.Kind == formula.KindEmpty {
				continue
			}
			cell := excelize.ToAlphaString(col+1) + fmt.Sprint(row+1)
			if err := f.SetCellValue(sheetName, cell, valueForCell(v)); err != nil {
				return err
			}
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func valueForCell(v formula.Value) any {
	switch v.Kind {
	case formula.KindNumber:
		return v.Num
	case formula.KindBoolean:
		return v.Bool
	default:
		return v.ToText()
	}
}

func writePDF(w io.Writer, grid [][]formula.Value) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 9)

	const colWidth = 25.0
	const rowHeight = 7.0

	for _, row := range grid {
		for _, v := range row {
			pdf.CellFormat(colWidth, rowHeight, v.ToText(), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	return pdf.Output(w)
}
