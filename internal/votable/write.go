// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package votable

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Builder assembles a small VOTable for TAP inline upload.
type Builder struct {
	fields []Field
	rows   [][]string
}

// NewBuilder creates a builder with the given column definitions.
func NewBuilder(fields ...Field) *Builder {
	return &Builder{fields: fields}
}

// AppendRow adds one data row. The cell count must match the field count.
func (b *Builder) AppendRow(cells ...string) error {
	if len(cells) != len(b.fields) {
		return fmt.Errorf("row has %d cells, table has %d fields", len(cells), len(b.fields))
	}
	b.rows = append(b.rows, cells)
	return nil
}

// NumRows returns the number of appended rows.
func (b *Builder) NumRows() int { return len(b.rows) }

// Write serializes the table as a VOTable document. Cell content is escaped
// by the XML encoder.
func (b *Builder) Write(w io.Writer) error {
	rows := make([]XMLRow, len(b.rows))
	for i, cells := range b.rows {
		rows[i] = XMLRow{Cells: cells}
	}
	doc := Document{
		Version: "1.4",
		Xmlns:   "http://www.ivoa.net/xml/VOTable/v1.3",
		Resources: []Resource{{
			Type: "results",
			Tables: []XMLTable{{
				Fields: b.fields,
				Data:   &Data{TableData: &TableData{Rows: rows}},
			}},
		}},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding VOTable: %w", err)
	}
	return nil
}
