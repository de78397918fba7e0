// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package votable

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is a typed view over one parsed TABLE: column lookup by name, FIELD
// ID, or UCD, and typed cell accessors. A table with zero rows is valid.
type Table struct {
	Name   string
	fields []Field
	rows   [][]string

	byName map[string]int // lowercased FIELD name → column index
	byID   map[string]int // FIELD ID attribute → column index
}

// FirstTable returns the first TABLE in the document, preferring resources
// of type "results". TAP responses carry exactly one results table; Datalink
// and SSA responses carry one table in their only resource.
func (d *Document) FirstTable() (*Table, error) {
	var found *XMLTable
	pick := func(wantResults bool) {
		d.walkResources(func(r *Resource) bool {
			if wantResults && !strings.EqualFold(r.Type, "results") {
				return false
			}
			if len(r.Tables) > 0 {
				found = &r.Tables[0]
				return true
			}
			return false
		})
	}
	pick(true)
	if found == nil {
		pick(false)
	}
	if found == nil {
		return nil, fmt.Errorf("VOTable contains no TABLE element")
	}
	return newTable(found)
}

func newTable(xt *XMLTable) (*Table, error) {
	t := &Table{
		Name:   xt.Name,
		fields: xt.Fields,
		byName: make(map[string]int, len(xt.Fields)),
		byID:   make(map[string]int, len(xt.Fields)),
	}
	for i, f := range xt.Fields {
		t.byName[strings.ToLower(f.Name)] = i
		if f.ID != "" {
			t.byID[f.ID] = i
		}
	}
	if xt.Data != nil && xt.Data.TableData != nil {
		for _, tr := range xt.Data.TableData.Rows {
			if len(tr.Cells) != len(xt.Fields) {
				return nil, fmt.Errorf("row has %d cells, table has %d fields", len(tr.Cells), len(xt.Fields))
			}
			t.rows = append(t.rows, tr.Cells)
		}
	}
	return t, nil
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.rows) }

// Fields returns the column definitions in table order.
func (t *Table) Fields() []Field { return t.fields }

// Column returns the index of the column with the given FIELD name
// (case-insensitive) or FIELD ID (exact).
func (t *Table) Column(name string) (int, bool) {
	if i, ok := t.byName[strings.ToLower(name)]; ok {
		return i, true
	}
	i, ok := t.byID[name]
	return i, ok
}

// ColumnByUCD returns the index of the first column whose UCD matches
// (case-insensitive). SSA responses are addressed by UCD, not name.
func (t *Table) ColumnByUCD(ucd string) (int, bool) {
	for i, f := range t.fields {
		if strings.EqualFold(f.UCD, ucd) {
			return i, true
		}
	}
	return 0, false
}

// Str returns the cell at (row, name) as a trimmed string. Missing columns
// are an error; a null cell is the empty string.
func (t *Table) Str(row int, name string) (string, error) {
	col, ok := t.Column(name)
	if !ok {
		return "", fmt.Errorf("table has no column %q", name)
	}
	return t.StrAt(row, col)
}

// StrAt returns the cell at (row, col) as a trimmed string. Name lookup is
// ambiguous when FIELDs share a name; an index from ColumnByUCD or Column
// is exact.
func (t *Table) StrAt(row, col int) (string, error) {
	if col < 0 || col >= len(t.fields) {
		return "", fmt.Errorf("column %d out of range (table has %d fields)", col, len(t.fields))
	}
	if row < 0 || row >= len(t.rows) {
		return "", fmt.Errorf("row %d out of range (table has %d rows)", row, len(t.rows))
	}
	return strings.TrimSpace(t.rows[row][col]), nil
}

// Float parses the cell as a float64. Null cells parse as 0.
func (t *Table) Float(row int, name string) (float64, error) {
	s, err := t.Str(row, name)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q row %d: %w", name, row, err)
	}
	return v, nil
}

// Int parses the cell as an int64. Null cells parse as 0.
func (t *Table) Int(row int, name string) (int64, error) {
	s, err := t.Str(row, name)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q row %d: %w", name, row, err)
	}
	return v, nil
}

// Bool parses the cell using the boolean spellings VO services emit:
// "T", "t", "true", "True", "1" are true; "F", "f", "false", "False", "0"
// and null are false.
func (t *Table) Bool(row int, name string) (bool, error) {
	s, err := t.Str(row, name)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "t", "true", "1":
		return true, nil
	case "", "f", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("column %q row %d: unrecognized boolean %q", name, row, s)
}
