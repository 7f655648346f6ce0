package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-mizu/blueprints/formulaengine/store"
)

// WorkbookStore implements store.WorkbookStore backed by SQLite.
type WorkbookStore struct{ db *sql.DB }

func (s *WorkbookStore) Create(ctx context.Context, wb *store.Workbook) error {
	now := time.Now().Unix()
	wb.CreatedAt, wb.UpdatedAt = now, now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workbooks (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		wb.ID, wb.Name, wb.CreatedAt, wb.UpdatedAt)
	return err
}

func (s *WorkbookStore) Get(ctx context.Context, id string) (*store.Workbook, error) {
	wb := &store.Workbook{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM workbooks WHERE id = ?`, id).
		Scan(&wb.ID, &wb.Name, &wb.CreatedAt, &wb.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return wb, nil
}

func (s *WorkbookStore) List(ctx context.Context) ([]store.Workbook, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM workbooks ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.Workbook{}
	for rows.Next() {
		var wb store.Workbook
		if err := rows.Scan(&wb.ID, &wb.Name, &wb.CreatedAt, &wb.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, wb)
	}
	return out, rows.Err()
}

func (s *WorkbookStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM workbooks WHERE id = ?`, id)
	return err
}

var _ store.WorkbookStore = (*WorkbookStore)(nil)
