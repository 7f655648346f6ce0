// Package store defines the host reference storage layer for the formula
// engine: a workbook/sheet/cell grid that backs a concrete spreadsheet-like
// application exercising pkg/formula. The engine itself has no dependency
// on this package (spec.md §1's "external collaborators, interfaces only");
// this is one possible host, not part of the engine's contract.
package store

import (
	"context"
	"errors"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
)

// ErrNotFound is returned by Get/lookup methods when the requested
// workbook or sheet does not exist. Cell lookups never return it: an
// unset cell is a valid Empty value, not an error (spec.md §4.5).
var ErrNotFound = errors.New("store: not found")

// Workbook is a named collection of sheets.
type Workbook struct {
	ID        string
	Name      string
	CreatedAt int64
	UpdatedAt int64
}

// Sheet is a single grid of cells within a workbook.
type Sheet struct {
	ID         string
	WorkbookID string
	Name       string
	Index      int
	CreatedAt  int64
	UpdatedAt  int64
}

// Store is the top-level storage interface for the grid host application.
type Store interface {
	Ensure(ctx context.Context) error
	Close() error

	Workbook() WorkbookStore
	Sheet() SheetStore
	Cell() CellStore
}

// WorkbookStore manages workbooks.
type WorkbookStore interface {
	Create(ctx context.Context, wb *Workbook) error
	Get(ctx context.Context, id string) (*Workbook, error)
	List(ctx context.Context) ([]Workbook, error)
	Delete(ctx context.Context, id string) error
}

// SheetStore manages sheets within a workbook.
type SheetStore interface {
	Create(ctx context.Context, sh *Sheet) error
	Get(ctx context.Context, id string) (*Sheet, error)
	ListByWorkbook(ctx context.Context, workbookID string) ([]Sheet, error)
	Delete(ctx context.Context, id string) error
}

// CellStore manages individual cells within a sheet. Addresses are
// zero-based (row, col), matching formula.Address.
type CellStore interface {
	// SetFormula stores a formula string verbatim for later (re-)evaluation.
	// It clears any previously stored literal value for the same cell.
	SetFormula(ctx context.Context, sheetID string, row, col int, formula string) error
	// SetValue stores a literal (non-formula) value, clearing any formula.
	SetValue(ctx context.Context, sheetID string, row, col int, value formula.Value) error
	// SetComputed persists the evaluated result of a stored formula without
	// disturbing the formula text itself, used by recalculation.
	SetComputed(ctx context.Context, sheetID string, row, col int, formulaSrc string, value formula.Value) error
	// Get returns the stored formula (empty string if none) and the last
	// computed/literal value for the cell. A never-written cell returns
	// ("", Value{Kind: KindEmpty}, nil).
	Get(ctx context.Context, sheetID string, row, col int) (string, formula.Value, error)
	// GetRange returns a row-major matrix of values spanning the rectangle,
	// inclusive on both ends. Unset cells are formula.Empty().
	GetRange(ctx context.Context, sheetID string, startRow, startCol, endRow, endCol int) ([][]formula.Value, error)
	// Delete clears a single cell.
	Delete(ctx context.Context, sheetID string, row, col int) error
	// ListFormulaCells returns every cell in the sheet that currently holds
	// a formula, keyed by address, for dependency-graph rebuilding.
	ListFormulaCells(ctx context.Context, sheetID string) (map[formula.Address]string, error)
}
