// Package importer populates a store.Store sheet from external files: an
// xlsx workbook (via excelize) or a plain CSV. Cells that start with "="
// are stored as formulas for lazy re-evaluation; everything else is stored
// as a literal value, matching how a user pastes data into a live grid.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
	"github.com/go-mizu/blueprints/formulaengine/store"
)

// ImportCSV reads r as CSV and writes each non-empty cell into sheetID
// starting at (0, 0).
func ImportCSV(ctx context.Context, st store.Store, sheetID string, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	n := 0
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, fmt.Errorf("read csv: %w", err)
		}
		for col, raw := range record {
			if raw == "" {
				continue
			}
			if err := setCell(ctx, st, sheetID, row, col, raw); err != nil {
				return n, err
			}
			n++
		}
		row++
	}
	return n, nil
}

// ImportXLSX reads r as an xlsx workbook and imports the given sheet name
// (or the active sheet if sheetName is empty) into sheetID.
func ImportXLSX(ctx context.Context, st store.Store, sheetID, sheetName string, r io.Reader) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if sheetName == "" {
		sheetName = f.GetSheetName(f.GetActiveSheetIndex())
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return 0, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	n := 0
	for row, cells := range rows {
		for col, raw := range cells {
			if raw == "" {
				continue
			}
			formulaSrc, err := f.GetCellFormula(sheetName, excelize.ToAlphaString(col+1)+strconv.Itoa(row+1))
			if err == nil && formulaSrc != "" {
				raw = "=" + formulaSrc
			}
			if err := setCell(ctx, st, sheetID, row, col, raw); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func setCell(ctx context.Context, st store.Store, sheetID string, row, col int, raw string) error {
	if strings.HasPrefix(raw, "=") {
		return st.Cell().SetFormula(ctx, sheetID, row, col, raw)
	}
	return st.Cell().SetValue(ctx, sheetID, row, col, literalValue(raw))
}

func literalValue(raw string) formula.Value {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return formula.Number(n)
	}
	switch strings.ToUpper(raw) {
	case "TRUE":
		return formula.Boolean(true)
	case "FALSE":
		return formula.Boolean(false)
	}
	return formula.Text(raw)
}
