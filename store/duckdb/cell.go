package duckdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
	"github.com/go-mizu/blueprints/formulaengine/store"
)

// CellStore implements store.CellStore backed by DuckDB.
type CellStore struct{ db *sql.DB }

func (s *CellStore) SetFormula(ctx context.Context, sheetID string, row, col int, f string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cells (sheet_id, row, col, formula, value_kind, value_payload)
		VALUES (?, ?, ?, ?, ?, '')
		ON CONFLICT (sheet_id, row, col) DO UPDATE SET formula = EXCLUDED.formula, value_kind = EXCLUDED.value_kind, value_payload = ''`,
		sheetID, row, col, f, int(formula.KindEmpty))
	return err
}

func (s *CellStore) SetValue(ctx context.Context, sheetID string, row, col int, v formula.Value) error {
	kind, payload := store.EncodeValue(v)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cells (sheet_id, row, col, formula, value_kind, value_payload)
		VALUES (?, ?, ?, '', ?, ?)
		ON CONFLICT (sheet_id, row, col) DO UPDATE SET formula = '', value_kind = EXCLUDED.value_kind, value_payload = EXCLUDED.value_payload`,
		sheetID, row, col, kind, payload)
	return err
}

func (s *CellStore) SetComputed(ctx context.Context, sheetID string, row, col int, formulaSrc string, v formula.Value) error {
	kind, payload := store.EncodeValue(v)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cells (sheet_id, row, col, formula, value_kind, value_payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (sheet_id, row, col) DO UPDATE SET formula = EXCLUDED.formula, value_kind = EXCLUDED.value_kind, value_payload = EXCLUDED.value_payload`,
		sheetID, row, col, formulaSrc, kind, payload)
	return err
}

func (s *CellStore) Get(ctx context.Context, sheetID string, row, col int) (string, formula.Value, error) {
	var f string
	var kind int
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT formula, value_kind, value_payload FROM cells WHERE sheet_id = ? AND row = ? AND col = ?`,
		sheetID, row, col).Scan(&f, &kind, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", formula.Empty(), nil
	}
	if err != nil {
		return "", formula.Value{}, err
	}
	return f, store.DecodeValue(kind, payload), nil
}

func (s *CellStore) GetRange(ctx context.Context, sheetID string, startRow, startCol, endRow, endCol int) ([][]formula.Value, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row, col, value_kind, value_payload FROM cells WHERE sheet_id = ? AND row BETWEEN ? AND ? AND col BETWEEN ? AND ?`,
		sheetID, startRow, endRow, startCol, endCol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nrows := endRow - startRow + 1
	ncols := endCol - startCol + 1
	out := make([][]formula.Value, nrows)
	for i := range out {
		out[i] = make([]formula.Value, ncols)
		for j := range out[i] {
			out[i][j] = formula.Empty()
		}
	}
	for rows.Next() {
		var row, col, kind int
		var payload string
		if err := rows.Scan(&row, &col, &kind, &payload); err != nil {
			return nil, err
		}
		out[row-startRow][col-startCol] = store.DecodeValue(kind, payload)
	}
	return out, rows.Err()
}

func (s *CellStore) Delete(ctx context.Context, sheetID string, row, col int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cells WHERE sheet_id = ? AND row = ? AND col = ?`, sheetID, row, col)
	return err
}

func (s *CellStore) ListFormulaCells(ctx context.Context, sheetID string) (map[formula.Address]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row, col, formula FROM cells WHERE sheet_id = ? AND formula != ''`, sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[formula.Address]string)
	for rows.Next() {
		var row, col int
		var f string
		if err := rows.Scan(&row, &col, &f); err != nil {
			return nil, err
		}
		out[formula.Address{Row: uint32(row), Col: uint32(col)}] = f
	}
	return out, rows.Err()
}

var _ store.CellStore = (*CellStore)(nil)
