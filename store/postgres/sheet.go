package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-mizu/blueprints/formulaengine/store"
)

// SheetStore implements store.SheetStore backed by Postgres.
type SheetStore struct{ db *sql.DB }

func (s *SheetStore) Create(ctx context.Context, sh *store.Sheet) error {
	now := time.Now().Unix()
	sh.CreatedAt, sh.UpdatedAt = now, now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sheets (id, workbook_id, name, idx, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		sh.ID, sh.WorkbookID, sh.Name, sh.Index, sh.CreatedAt, sh.UpdatedAt)
	return err
}

func (s *SheetStore) Get(ctx context.Context, id string) (*store.Sheet, error) {
	sh := &store.Sheet{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, workbook_id, name, idx, created_at, updated_at FROM sheets WHERE id = $1`, id).
		Scan(&sh.ID, &sh.WorkbookID, &sh.Name, &sh.Index, &sh.CreatedAt, &sh.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *SheetStore) ListByWorkbook(ctx context.Context, workbookID string) ([]store.Sheet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workbook_id, name, idx, created_at, updated_at FROM sheets WHERE workbook_id = $1 ORDER BY idx`, workbookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.Sheet{}
	for rows.Next() {
		var sh store.Sheet
		if err := rows.Scan(&sh.ID, &sh.WorkbookID, &sh.Name, &sh.Index, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *SheetStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sheets WHERE id = $1`, id)
	return err
}

var _ store.SheetStore = (*SheetStore)(nil)
