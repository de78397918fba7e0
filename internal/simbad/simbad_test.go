// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package simbad

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/vo-explorer/internal/tap"
)

// --- ADQL ---

func TestClusterQueryADQL(t *testing.T) {
	adql := ClusterQuery{}.ADQL()

	for _, want := range []string{
		"FROM h_link",
		"JOIN basic",
		"JOIN ident",
		"p.id = 'NGC 1976'",
		"h_link.membership >= 95",
		"basic.otype = 'V*..'",
		"ident.id LIKE 'Gaia DR3%'",
	} {
		if !strings.Contains(adql, want) {
			t.Errorf("ADQL missing %q:\n%s", want, adql)
		}
	}
}

func TestClusterQueryADQLEscapesQuotes(t *testing.T) {
	adql := ClusterQuery{Cluster: "Barnard's Loop"}.ADQL()
	if !strings.Contains(adql, "'Barnard''s Loop'") {
		t.Errorf("single quote not escaped:\n%s", adql)
	}
}

func TestClusterQueryOverrides(t *testing.T) {
	q := ClusterQuery{Cluster: "NGC 2264", MinMembership: 80, ObjectType: "Or*", IDPrefix: "Gaia DR2"}
	adql := q.ADQL()
	for _, want := range []string{"'NGC 2264'", ">= 80", "'Or*'", "'Gaia DR2%'"} {
		if !strings.Contains(adql, want) {
			t.Errorf("ADQL missing %q:\n%s", want, adql)
		}
	}
}

// --- FindMembers ---

const membersXML = `<?xml version="1.0"?>
<VOTABLE version="1.4">
  <RESOURCE type="results">
    <INFO name="QUERY_STATUS" value="OK"/>
    <TABLE>
      <FIELD name="main_id" datatype="char" arraysize="*"/>
      <FIELD name="ra" datatype="double"/>
      <FIELD name="dec" datatype="double"/>
      <FIELD name="id" datatype="char" arraysize="*"/>
      <DATA><TABLEDATA>
        <TR><TD>V* MR Ori</TD><TD>83.80569</TD><TD>-5.44079</TD><TD>Gaia DR3 3016556419449513856</TD></TR>
        <TR><TD>V* V541 Ori</TD><TD>83.73817</TD><TD>-5.32136</TD><TD>Gaia DR3 3209619743555755392</TD></TR>
      </TABLEDATA></DATA>
    </TABLE>
  </RESOURCE>
</VOTABLE>`

func memberServer(t *testing.T, capture *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if capture != nil {
			*capture = r.PostFormValue("MAXREC")
		}
		fmt.Fprint(w, membersXML)
	}))
}

func TestFindMembers(t *testing.T) {
	var maxrec string
	ts := memberServer(t, &maxrec)
	defer ts.Close()

	client := &tap.Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	records, err := FindMembers(context.Background(), client, ClusterQuery{MaxRecords: 10})
	if err != nil {
		t.Fatalf("FindMembers: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	r0 := records[0]
	if r0.MainID != "V* MR Ori" {
		t.Errorf("MainID = %q", r0.MainID)
	}
	if r0.RA != 83.80569 || r0.Dec != -5.44079 {
		t.Errorf("position = (%v, %v)", r0.RA, r0.Dec)
	}
	if r0.GaiaID != "Gaia DR3 3016556419449513856" {
		t.Errorf("GaiaID = %q", r0.GaiaID)
	}
	// The result cap must travel to the service as MAXREC.
	if maxrec != "10" {
		t.Errorf("MAXREC = %q, want 10", maxrec)
	}
}

func TestFindMembersServiceError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<VOTABLE version="1.4"><RESOURCE type="results">
			<INFO name="QUERY_STATUS" value="ERROR">no such cluster</INFO>
		</RESOURCE></VOTABLE>`)
	}))
	defer ts.Close()

	client := &tap.Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, err := FindMembers(context.Background(), client, ClusterQuery{})
	if err == nil {
		t.Fatal("expected error, not a silently empty result")
	}
}

// --- Query file round trip ---

func TestQueryFileRoundTrip(t *testing.T) {
	ts := memberServer(t, nil)
	defer ts.Close()

	client := &tap.Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	q := ClusterQuery{Cluster: "NGC 1976", MaxRecords: 5}
	records, err := FindMembers(context.Background(), client, q)
	if err != nil {
		t.Fatalf("FindMembers: %v", err)
	}

	path := filepath.Join(t.TempDir(), "orion.yaml")
	if err := WriteQueryFile(path, ts.URL, q, records); err != nil {
		t.Fatalf("WriteQueryFile: %v", err)
	}

	qf, err := ReadQueryFile(path)
	if err != nil {
		t.Fatalf("ReadQueryFile: %v", err)
	}
	if qf.Query.Cluster != "NGC 1976" {
		t.Errorf("Cluster = %q", qf.Query.Cluster)
	}
	if qf.Summary.Total != 2 || len(qf.Records) != 2 {
		t.Errorf("Total = %d, len(Records) = %d, want 2 and 2", qf.Summary.Total, len(qf.Records))
	}
	if qf.Records[1].GaiaID != "Gaia DR3 3209619743555755392" {
		t.Errorf("Records[1].GaiaID = %q", qf.Records[1].GaiaID)
	}
}

func TestReadQueryFileMissing(t *testing.T) {
	if _, err := ReadQueryFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
