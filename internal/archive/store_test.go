// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"strings"
	"testing"

	"github.com/pdiddy/vo-explorer/internal/datalink"
	"github.com/pdiddy/vo-explorer/internal/pipeline"
	"github.com/pdiddy/vo-explorer/internal/votable"
	"github.com/pdiddy/vo-explorer/pkg/types"
)

func productTable(t *testing.T) *votable.Table {
	t.Helper()
	const xml = `<VOTABLE version="1.4"><RESOURCE type="results"><TABLE>
		<FIELD name="time" datatype="double"/>
		<FIELD name="mag" datatype="double"/>
		<DATA><TABLEDATA>
			<TR><TD>1717.5</TD><TD>12.74</TD></TR>
			<TR><TD>1745.2</TD><TD>12.76</TD></TR>
		</TABLEDATA></DATA>
	</TABLE></RESOURCE></VOTABLE>`
	doc, err := votable.Parse(strings.NewReader(xml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tbl, err := doc.FirstTable()
	if err != nil {
		t.Fatalf("FirstTable: %v", err)
	}
	return tbl
}

func sampleResult(t *testing.T) *pipeline.Result {
	t.Helper()
	matched := []types.MatchedRecord{
		{
			CatalogRecord: types.CatalogRecord{MainID: "V* MR Ori", RA: 83.80569, Dec: -5.44079, GaiaID: "Gaia DR3 1"},
			SourceID:      1, GMag: 12.7431, Parallax: 2.4681, VariableFlag: "VARIABLE",
		},
		{
			CatalogRecord: types.CatalogRecord{MainID: "V* V541 Ori", RA: 83.73817, Dec: -5.32136, GaiaID: "Gaia DR3 2"},
			SourceID:      2, GMag: 13.102, Parallax: 2.51, VariableFlag: "VARIABLE",
		},
	}
	return &pipeline.Result{
		Candidates: []types.CatalogRecord{matched[0].CatalogRecord, matched[1].CatalogRecord},
		Matched:    matched,
		Outcomes: []datalink.Outcome{
			{
				RecordID: "Gaia DR3 1",
				Result: datalink.Result{
					Links:  []types.AncillaryLink{{Description: "Epoch photometry (G, BP, RP)", AccessURL: "http://example.org/epoch/1"}},
					Tables: []*votable.Table{productTable(t)},
				},
			},
			{
				RecordID: "Gaia DR3 2",
				Err:      context.DeadlineExceeded,
			},
		},
		Summary: datalink.BatchSummary{Resolved: 1, Failed: 1, Products: 1},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.ArchiveConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, "NGC 1976", sampleResult(t))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id == "" {
		t.Fatal("SaveRun returned empty id")
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	r := runs[0]
	if r.ID != id || r.Cluster != "NGC 1976" {
		t.Errorf("run = %+v", r)
	}
	if r.Candidates != 2 || r.Matched != 2 || r.Resolved != 1 || r.Failed != 1 {
		t.Errorf("counts = %+v", r)
	}
	if r.Started.IsZero() {
		t.Error("Started is zero")
	}
}

func TestShowRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, "NGC 1976", sampleResult(t))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	d, err := s.ShowRun(ctx, id)
	if err != nil {
		t.Fatalf("ShowRun: %v", err)
	}
	if len(d.Stars) != 2 {
		t.Fatalf("len(Stars) = %d, want 2", len(d.Stars))
	}
	if d.Stars[0].GaiaID != "Gaia DR3 1" || d.Stars[0].SourceID != 1 {
		t.Errorf("star = %+v", d.Stars[0])
	}
	if d.Stars[0].GMag != 12.7431 {
		t.Errorf("GMag = %v", d.Stars[0].GMag)
	}

	// Only the successful outcome contributes products; the failed one is
	// counted in the run row but stores no product.
	if len(d.Products) != 1 {
		t.Fatalf("len(Products) = %d, want 1", len(d.Products))
	}
	p := d.Products[0]
	if p.SourceID != 1 || p.Rows != 2 {
		t.Errorf("product = %+v", p)
	}
	if !strings.Contains(p.Description, "Epoch photometry") {
		t.Errorf("Description = %q", p.Description)
	}
}

func TestShowRunPrefix(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, "NGC 1976", sampleResult(t))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	d, err := s.ShowRun(ctx, id[:8])
	if err != nil {
		t.Fatalf("ShowRun by prefix: %v", err)
	}
	if d.ID != id {
		t.Errorf("ID = %q, want %q", d.ID, id)
	}
}

func TestShowRunNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ShowRun(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestListRunsEmpty(t *testing.T) {
	s := newTestStore(t)
	runs, err := s.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("len(runs) = %d, want 0", len(runs))
	}
}
