// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package votable

import (
	"errors"
	"strings"
	"testing"
)

const sampleResultXML = `<?xml version="1.0" encoding="UTF-8"?>
<VOTABLE xmlns="http://www.ivoa.net/xml/VOTable/v1.3" version="1.4">
  <RESOURCE type="results">
    <INFO name="QUERY_STATUS" value="OK"/>
    <TABLE>
      <FIELD ID="MAIN_ID" name="main_id" datatype="char" arraysize="*"/>
      <FIELD name="ra" datatype="double" unit="deg" ucd="pos.eq.ra;meta.main"/>
      <FIELD name="dec" datatype="double" unit="deg" ucd="pos.eq.dec;meta.main"/>
      <FIELD name="gaia_id" datatype="char" arraysize="*"/>
      <FIELD name="has_epoch_photometry" datatype="boolean"/>
      <DATA>
        <TABLEDATA>
          <TR><TD>V* MR Ori</TD><TD>83.80569</TD><TD>-5.44079</TD><TD>Gaia DR3 3016556419449513856</TD><TD>True</TD></TR>
          <TR><TD>V* V541 Ori</TD><TD>83.73817</TD><TD>-5.32136</TD><TD>Gaia DR3 3209619743555755392</TD><TD>F</TD></TR>
          <TR><TD>Unnamed</TD><TD></TD><TD>-5.1</TD><TD></TD><TD></TD></TR>
        </TABLEDATA>
      </DATA>
    </TABLE>
  </RESOURCE>
</VOTABLE>`

const errorXML = `<?xml version="1.0"?>
<VOTABLE version="1.4">
  <RESOURCE type="results">
    <INFO name="QUERY_STATUS" value="ERROR">Incorrect ADQL query: unexpected token "FORM"</INFO>
  </RESOURCE>
</VOTABLE>`

func parseSample(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestParseAndFirstTable(t *testing.T) {
	doc := parseSample(t, sampleResultXML)
	if err := doc.StatusError(); err != nil {
		t.Fatalf("StatusError: %v", err)
	}

	tbl, err := doc.FirstTable()
	if err != nil {
		t.Fatalf("FirstTable: %v", err)
	}
	if tbl.NumRows() != 3 {
		t.Fatalf("NumRows = %d, want 3", tbl.NumRows())
	}
	if len(tbl.Fields()) != 5 {
		t.Fatalf("len(Fields) = %d, want 5", len(tbl.Fields()))
	}

	name, err := tbl.Str(0, "main_id")
	if err != nil {
		t.Fatalf("Str: %v", err)
	}
	if name != "V* MR Ori" {
		t.Errorf("main_id = %q, want %q", name, "V* MR Ori")
	}

	ra, err := tbl.Float(0, "ra")
	if err != nil {
		t.Fatalf("Float: %v", err)
	}
	if ra != 83.80569 {
		t.Errorf("ra = %v, want 83.80569", ra)
	}
}

func TestColumnLookup(t *testing.T) {
	doc := parseSample(t, sampleResultXML)
	tbl, err := doc.FirstTable()
	if err != nil {
		t.Fatalf("FirstTable: %v", err)
	}

	// Case-insensitive name lookup.
	if _, ok := tbl.Column("MAIN_ID"); !ok {
		t.Error("Column(MAIN_ID) not found via case-insensitive name")
	}
	if _, ok := tbl.Column("Ra"); !ok {
		t.Error("Column(Ra) not found")
	}
	// FIELD ID lookup.
	col, ok := tbl.Column("MAIN_ID")
	if !ok || col != 0 {
		t.Errorf("Column(MAIN_ID) = (%d, %v), want (0, true)", col, ok)
	}
	// UCD lookup.
	col, ok = tbl.ColumnByUCD("pos.eq.dec;meta.main")
	if !ok || col != 2 {
		t.Errorf("ColumnByUCD(dec) = (%d, %v), want (2, true)", col, ok)
	}
	if _, ok := tbl.Column("no_such"); ok {
		t.Error("Column(no_such) should not be found")
	}
}

func TestStrAt(t *testing.T) {
	// Duplicate FIELD names leave the name map pointing at the last column;
	// index access must still read the intended one.
	const dupXML = `<VOTABLE version="1.4"><RESOURCE type="results"><TABLE>
		<FIELD name="value" datatype="char" arraysize="*" ucd="meta.title"/>
		<FIELD name="value" datatype="char" arraysize="*" ucd="meta.ref.url"/>
		<DATA><TABLEDATA>
			<TR><TD>a title</TD><TD>http://example.org/x</TD></TR>
		</TABLEDATA></DATA>
	</TABLE></RESOURCE></VOTABLE>`
	doc := parseSample(t, dupXML)
	tbl, err := doc.FirstTable()
	if err != nil {
		t.Fatalf("FirstTable: %v", err)
	}

	col, ok := tbl.ColumnByUCD("meta.title")
	if !ok || col != 0 {
		t.Fatalf("ColumnByUCD(meta.title) = (%d, %v), want (0, true)", col, ok)
	}
	s, err := tbl.StrAt(0, col)
	if err != nil || s != "a title" {
		t.Errorf("StrAt(0, %d) = (%q, %v), want the first column", col, s, err)
	}
	// Name lookup resolves to the last duplicate.
	s, err = tbl.Str(0, "value")
	if err != nil || s != "http://example.org/x" {
		t.Errorf("Str(0, value) = (%q, %v)", s, err)
	}

	if _, err := tbl.StrAt(0, 5); err == nil {
		t.Error("StrAt with out-of-range column should error")
	}
	if _, err := tbl.StrAt(7, 0); err == nil {
		t.Error("StrAt with out-of-range row should error")
	}
}

func TestBoolSpellings(t *testing.T) {
	doc := parseSample(t, sampleResultXML)
	tbl, err := doc.FirstTable()
	if err != nil {
		t.Fatalf("FirstTable: %v", err)
	}

	got, err := tbl.Bool(0, "has_epoch_photometry")
	if err != nil || !got {
		t.Errorf("Bool(row 0) = (%v, %v), want (true, nil)", got, err)
	}
	got, err = tbl.Bool(1, "has_epoch_photometry")
	if err != nil || got {
		t.Errorf("Bool(row 1) = (%v, %v), want (false, nil)", got, err)
	}
	// Null cell is false.
	got, err = tbl.Bool(2, "has_epoch_photometry")
	if err != nil || got {
		t.Errorf("Bool(null) = (%v, %v), want (false, nil)", got, err)
	}
}

func TestNullNumericCells(t *testing.T) {
	doc := parseSample(t, sampleResultXML)
	tbl, err := doc.FirstTable()
	if err != nil {
		t.Fatalf("FirstTable: %v", err)
	}
	ra, err := tbl.Float(2, "ra")
	if err != nil {
		t.Fatalf("Float(null): %v", err)
	}
	if ra != 0 {
		t.Errorf("Float(null) = %v, want 0", ra)
	}
}

func TestStatusError(t *testing.T) {
	doc := parseSample(t, errorXML)
	err := doc.StatusError()
	if err == nil {
		t.Fatal("expected status error")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T, want *StatusError", err)
	}
	if !strings.Contains(se.Message, "Incorrect ADQL query") {
		t.Errorf("Message = %q, should carry the service text", se.Message)
	}
}

func TestEmptyTableIsValid(t *testing.T) {
	const empty = `<VOTABLE version="1.4"><RESOURCE type="results"><TABLE>
		<FIELD name="x" datatype="double"/>
		<DATA><TABLEDATA/></DATA>
	</TABLE></RESOURCE></VOTABLE>`

	doc := parseSample(t, empty)
	tbl, err := doc.FirstTable()
	if err != nil {
		t.Fatalf("FirstTable: %v", err)
	}
	if tbl.NumRows() != 0 {
		t.Errorf("NumRows = %d, want 0", tbl.NumRows())
	}
}

func TestNoTable(t *testing.T) {
	doc := parseSample(t, `<VOTABLE version="1.4"><RESOURCE type="results"/></VOTABLE>`)
	if _, err := doc.FirstTable(); err == nil {
		t.Fatal("expected error for document without TABLE")
	}
}

func TestCellFieldMismatch(t *testing.T) {
	const bad = `<VOTABLE><RESOURCE type="results"><TABLE>
		<FIELD name="a"/><FIELD name="b"/>
		<DATA><TABLEDATA><TR><TD>1</TD></TR></TABLEDATA></DATA>
	</TABLE></RESOURCE></VOTABLE>`

	doc := parseSample(t, bad)
	if _, err := doc.FirstTable(); err == nil {
		t.Fatal("expected error for row/field count mismatch")
	}
}
