// Package api holds the HTTP handlers mounted under /api/v1, grounded on
// blueprints/bi's handler-per-resource convention (one struct per noun,
// constructed with its dependencies, methods shaped like mizu.Handler).
package api

import (
	"context"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-mizu/mizu"

	"github.com/go-mizu/blueprints/formulaengine/feature/export"
	"github.com/go-mizu/blueprints/formulaengine/feature/importer"
	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
	"github.com/go-mizu/blueprints/formulaengine/store"
)

// GraphLookup resolves (and lazily builds) the dependency graph for a sheet.
type GraphLookup func(ctx context.Context, sheetID string) (*formula.DependencyGraph, error)

// Cells handles the cell read/write/reference/import/export endpoints.
type Cells struct {
	store  store.Store
	engine *formula.Engine
	graphs GraphLookup
}

// NewCells creates a new Cells handler.
func NewCells(st store.Store, engine *formula.Engine, graphs GraphLookup) *Cells {
	return &Cells{store: st, engine: engine, graphs: graphs}
}

type setCellRequest struct {
	Formula string `json:"formula"`
}

type cellResult struct {
	Ref     string `json:"ref"`
	Formula string `json:"formula,omitempty"`
	Value   any    `json:"value"`
}

func valueJSON(v formula.Value) any {
	switch v.Kind {
	case formula.KindNumber:
		return v.Num
	case formula.KindBoolean:
		return v.Bool
	case formula.KindError:
		return v.Err.Code()
	case formula.KindEmpty:
		return nil
	default:
		return v.ToText()
	}
}

// Set parses and stores a formula at sheets/{sheetID}/cells/{ref}, then
// recalculates it and every transitive dependent.
func (h *Cells) Set(c *mizu.Ctx) error {
	ctx := c.Request().Context()
	sheetID := c.Param("sheetID")
	ref := c.Param("ref")

	row, col, err := formula.ParseCellRef(ref)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid cell reference"})
	}

	var body setCellRequest
	if err := c.BindJSON(&body, 1<<20); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	graph, err := h.graphs(ctx, sheetID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	addr := formula.Address{Row: uint32(row), Col: uint32(col)}
	changed, err := store.SetCellFormula(ctx, h.store, h.engine, graph, sheetID, sheetID, addr, body.Formula)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]any{"ref": ref, "error": err.Error()})
	}

	results := make([]cellResult, 0, len(changed))
	for _, a := range changed {
		f, v, err := h.store.Cell().Get(ctx, sheetID, int(a.Row), int(a.Col))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		results = append(results, cellResult{
			Ref:     formula.CellRefString(int(a.Row), int(a.Col)),
			Formula: f,
			Value:   valueJSON(v),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"changed": results})
}

// Get returns the stored formula (if any) and current value of a cell.
func (h *Cells) Get(c *mizu.Ctx) error {
	ctx := c.Request().Context()
	sheetID := c.Param("sheetID")
	ref := c.Param("ref")

	row, col, err := formula.ParseCellRef(ref)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid cell reference"})
	}

	f, v, err := h.store.Cell().Get(ctx, sheetID, row, col)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, cellResult{Ref: ref, Formula: f, Value: valueJSON(v)})
}

// References returns the cell addresses the stored formula at ref reads from.
func (h *Cells) References(c *mizu.Ctx) error {
	ctx := c.Request().Context()
	sheetID := c.Param("sheetID")
	ref := c.Param("ref")

	row, col, err := formula.ParseCellRef(ref)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid cell reference"})
	}

	f, _, err := h.store.Cell().Get(ctx, sheetID, row, col)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if f == "" {
		return c.JSON(http.StatusOK, map[string]any{"references": []string{}})
	}

	refs, err := h.engine.GetCellReferences(f)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]string{"error": err.Error()})
	}
	out := make([]string, 0, len(refs))
	for addr := range refs {
		out = append(out, formula.CellRefString(int(addr.Row), int(addr.Col)))
	}
	return c.JSON(http.StatusOK, map[string]any{"references": out})
}

// Import populates a sheet from an uploaded .xlsx or .csv file
// (multipart field "file"), given a "sheetID" form field.
func (h *Cells) Import(c *mizu.Ctx) error {
	req := c.Request()
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
	}
	sheetID := req.FormValue("sheetID")
	if sheetID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "sheetID is required"})
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	defer file.Close() //nolint:errcheck

	ctx := req.Context()
	var n int
	if strings.EqualFold(path.Ext(header.Filename), ".csv") {
		n, err = importer.ImportCSV(ctx, h.store, sheetID, file)
	} else {
		n, err = importer.ImportXLSX(ctx, h.store, sheetID, req.FormValue("sheet"), file)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"cells_imported": n})
}

// ExportXLSX writes the evaluated grid as an xlsx workbook.
func (h *Cells) ExportXLSX(c *mizu.Ctx) error {
	return h.export(c, export.FormatXLSX, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// ExportCSV writes the evaluated grid as CSV.
func (h *Cells) ExportCSV(c *mizu.Ctx) error {
	return h.export(c, export.FormatCSV, "text/csv")
}

// ExportPDF writes the evaluated grid as a one-page PDF snapshot.
func (h *Cells) ExportPDF(c *mizu.Ctx) error {
	return h.export(c, export.FormatPDF, "application/pdf")
}

func (h *Cells) export(c *mizu.Ctx, format export.Format, contentType string) error {
	ctx := c.Request().Context()
	sheetID := c.Param("sheetID")

	rows, cols := rangeDims(c)
	grid, err := export.Grid(ctx, h.store, sheetID, rows, cols)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	c.Writer().Header().Set("Content-Type", contentType)
	c.Writer().Header().Set("Content-Disposition", `attachment; filename="`+sheetID+`.`+string(format)+`"`)
	return export.Write(c.Writer(), grid, format)
}

func rangeDims(c *mizu.Ctx) (rows, cols int) {
	rows, cols = 100, 26
	if v := c.Query("rows"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rows = n
		}
	}
	if v := c.Query("cols"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cols = n
		}
	}
	return rows, cols
}
