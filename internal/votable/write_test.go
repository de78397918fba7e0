// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package votable

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuilderRoundTrip(t *testing.T) {
	b := NewBuilder(
		Field{Name: "main_id", Datatype: "char", ArrSize: "*"},
		Field{Name: "ra", Datatype: "double"},
		Field{Name: "gaia_id", Datatype: "char", ArrSize: "*"},
	)
	if err := b.AppendRow("V* MR Ori", "83.80569", "Gaia DR3 3016556419449513856"); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if err := b.AppendRow("a < b & c", "0", ""); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	doc, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse of own output: %v", err)
	}
	tbl, err := doc.FirstTable()
	if err != nil {
		t.Fatalf("FirstTable: %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2", tbl.NumRows())
	}
	got, err := tbl.Str(1, "main_id")
	if err != nil {
		t.Fatalf("Str: %v", err)
	}
	// XML special characters must survive the round trip.
	if got != "a < b & c" {
		t.Errorf("main_id = %q, want %q", got, "a < b & c")
	}
}

func TestBuilderCellCountMismatch(t *testing.T) {
	b := NewBuilder(Field{Name: "a"}, Field{Name: "b"})
	if err := b.AppendRow("only-one"); err == nil {
		t.Fatal("expected error for cell count mismatch")
	}
}

func TestBuilderOutputHasHeader(t *testing.T) {
	b := NewBuilder(Field{Name: "x", Datatype: "double"})
	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") {
		t.Errorf("output missing XML declaration: %q", out[:min(40, len(out))])
	}
	if !strings.Contains(out, "<VOTABLE") {
		t.Error("output missing VOTABLE element")
	}
}
