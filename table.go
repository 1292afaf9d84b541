package gloss

import "github.com/gloss-dev/glossbridge/domain/entities"

// Table renders rows of cells with borders.
type Table struct {
	r *Renderer
	h entities.Handle
}

// NewTable creates an empty table.
func (r *Renderer) NewTable() *Table {
	return &Table{r: r, h: entities.Handle(r.configure("TableNew"))}
}

// Handle returns the module handle of t.
func (t *Table) Handle() entities.Handle {
	if t == nil {
		return 0
	}
	return t.h
}

func (t *Table) set(export string, params ...uint64) *Table {
	t.r.configure(export, append([]uint64{uint64(t.h)}, params...)...)
	return t
}

func (t *Table) withStrings(export string, cells []string) *Table {
	dir, n, ok := t.r.strs(cells)
	if !ok {
		return t
	}
	return t.set(export, dir, n)
}

// Row appends one row.
func (t *Table) Row(cells ...string) *Table { return t.withStrings("TableRow", cells) }

// Rows appends each row in order.
func (t *Table) Rows(rows ...[]string) *Table {
	for _, row := range rows {
		t.Row(row...)
	}
	return t
}

// ClearRows removes every row.
func (t *Table) ClearRows() *Table { return t.set("TableClearRows") }

// Headers sets the header row.
func (t *Table) Headers(headers ...string) *Table { return t.withStrings("TableHeaders", headers) }

// Data replaces the rows with d.
func (t *Table) Data(d *TableData) *Table {
	if d.Handle().IsNull() {
		return t
	}
	return t.set("TableSetData", uint64(d.h))
}

// Border sets the border drawn around and inside the table.
func (t *Table) Border(b Border) *Table { return t.set("TableBorder", uint64(b)) }

// BorderStyle styles the border glyphs.
func (t *Table) BorderStyle(s *Style) *Table {
	if s.Handle().IsNull() {
		return t
	}
	return t.set("TableBorderStyle", uint64(s.h))
}

// StyleFunc styles each cell. fn is called during Render with the row
// index (-1 for headers) and column index.
func (t *Table) StyleFunc(fn StyleFunc) *Table {
	id := t.r.registerStyleFunc(fn)
	return t.set("TableStyleFunc", uint64(id))
}

// Wrap controls whether long cells wrap instead of being truncated.
func (t *Table) Wrap(v bool) *Table { return t.set("TableWrap", boolArg(v)) }

// BorderLeft toggles the left edge.
func (t *Table) BorderLeft(v bool) *Table { return t.set("TableBorderLeft", boolArg(v)) }

// BorderRight toggles the right edge.
func (t *Table) BorderRight(v bool) *Table { return t.set("TableBorderRight", boolArg(v)) }

// BorderBottom toggles the bottom edge.
func (t *Table) BorderBottom(v bool) *Table { return t.set("TableBorderBottom", boolArg(v)) }

// BorderHeader toggles the line under the headers.
func (t *Table) BorderHeader(v bool) *Table { return t.set("TableBorderHeader", boolArg(v)) }

// BorderColumn toggles the separators between columns.
func (t *Table) BorderColumn(v bool) *Table { return t.set("TableBorderColumn", boolArg(v)) }

// BorderRow toggles the separators between rows.
func (t *Table) BorderRow(v bool) *Table { return t.set("TableBorderRow", boolArg(v)) }

// Render draws the table.
func (t *Table) Render() string {
	return t.r.pair("TableRenderPtr", "TableRenderLength", t.h)
}

// String renders the table.
func (t *Table) String() string {
	return t.Render()
}

// TableData is a grid of cells a Table can render.
type TableData struct {
	r *Renderer
	h entities.Handle
}

// NewTableData creates a grid holding rows.
func (r *Renderer) NewTableData(rows ...[]string) *TableData {
	d := &TableData{r: r, h: entities.Handle(r.configure("TableDataNew"))}
	return d.Rows(rows...)
}

// Handle returns the module handle of d.
func (d *TableData) Handle() entities.Handle {
	if d == nil {
		return 0
	}
	return d.h
}

// Append adds one row.
func (d *TableData) Append(row []string) *TableData {
	dir, n, ok := d.r.strs(row)
	if !ok {
		return d
	}
	d.r.configure("TableDataAppend", uint64(d.h), dir, n)
	return d
}

// Rows appends each row in order.
func (d *TableData) Rows(rows ...[]string) *TableData {
	for _, row := range rows {
		d.Append(row)
	}
	return d
}

// At returns the cell at row, col.
func (d *TableData) At(row, col int) string {
	return d.r.mod.CallString(d.r.ctx, "TableDataAtPtr", "TableDataAtLength",
		uint64(d.h), intArg(row), intArg(col))
}

// RowCount returns the number of rows.
func (d *TableData) RowCount() int {
	return int(int32(d.r.call("TableDataRows", uint64(d.h))))
}

// ColumnCount returns the number of columns.
func (d *TableData) ColumnCount() int {
	return int(int32(d.r.call("TableDataColumns", uint64(d.h))))
}
