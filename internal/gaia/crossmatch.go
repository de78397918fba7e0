// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gaia cross-matches candidate records against the ESA Gaia archive
// by uploading them as an ad hoc TAP table and joining on the textual Gaia
// designation.
package gaia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/vo-explorer/internal/tap"
	"github.com/pdiddy/vo-explorer/internal/votable"
	"github.com/pdiddy/vo-explorer/pkg/types"
)

// DefaultEndpoint is the ESA Gaia TAP base URL.
const DefaultEndpoint = "https://gea.esac.esa.int/tap-server/tap"

// DefaultUploadName names the uploaded relation under TAP_UPLOAD.
const DefaultUploadName = "cands"

// DefaultMaxRecords caps the joined row count.
const DefaultMaxRecords = 20

// MatchOutput is the cross-match result: the joined records plus the
// Datalink locator the service embedded in its response, when present.
type MatchOutput struct {
	Records []types.MatchedRecord

	// Locator is zero-valued when the response carried no Datalink service
	// descriptor; RequireLocator turns that into an explicit error.
	Locator types.ResourceLocator
}

// RequireLocator returns the embedded Datalink locator, or an error when
// the service advertised none — per-record resolution cannot proceed
// without it.
func (o MatchOutput) RequireLocator() (types.ResourceLocator, error) {
	if o.Locator.AccessURL == "" {
		return types.ResourceLocator{}, fmt.Errorf("cross-match response carried no Datalink service descriptor")
	}
	return o.Locator, nil
}

// matchADQL builds the upload-join query. The join key is the textual
// designation; rows without epoch photometry are dropped server-side.
func matchADQL(uploadName string) string {
	return fmt.Sprintf(
		`SELECT up.main_id, up.gaia_id, db.source_id, db.ra, db.dec,
       db.parallax, db.pmra, db.pmdec, db.radial_velocity,
       db.phot_g_mean_mag, db.phot_variable_flag, db.has_epoch_photometry
  FROM gaiadr3.gaia_source AS db
  JOIN TAP_UPLOAD.%s AS up ON db.designation = up.gaia_id
 WHERE db.has_epoch_photometry = 'True'`, uploadName)
}

// uploadTable converts catalog records into the VOTable relation the
// service joins against.
func uploadTable(records []types.CatalogRecord) (*votable.Builder, error) {
	b := votable.NewBuilder(
		votable.Field{Name: "main_id", Datatype: "char", ArrSize: "*"},
		votable.Field{Name: "ra", Datatype: "double", Unit: "deg"},
		votable.Field{Name: "dec", Datatype: "double", Unit: "deg"},
		votable.Field{Name: "gaia_id", Datatype: "char", ArrSize: "*"},
	)
	for _, r := range records {
		err := b.AppendRow(r.MainID,
			strconv.FormatFloat(r.RA, 'g', -1, 64),
			strconv.FormatFloat(r.Dec, 'g', -1, 64),
			r.GaiaID)
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

// CrossMatch uploads the records and joins them against gaiadr3.gaia_source,
// returning one MatchedRecord per joined row (records whose designation does
// not join are silently absent, per ordinary join semantics) together with
// the response's Datalink locator.
func CrossMatch(ctx context.Context, client *tap.Client, records []types.CatalogRecord, uploadName string, maxrec int) (MatchOutput, error) {
	if len(records) == 0 {
		return MatchOutput{}, fmt.Errorf("no records to cross-match")
	}
	if uploadName == "" {
		uploadName = DefaultUploadName
	}
	if maxrec <= 0 {
		maxrec = DefaultMaxRecords
	}

	upload, err := uploadTable(records)
	if err != nil {
		return MatchOutput{}, fmt.Errorf("building upload table: %w", err)
	}

	resp, err := client.QueryWithUpload(ctx, matchADQL(uploadName), uploadName, upload, maxrec)
	if err != nil {
		return MatchOutput{}, err
	}

	out := MatchOutput{}
	tbl := resp.Table
	for i := 0; i < tbl.NumRows(); i++ {
		rec, err := mapRow(tbl, i)
		if err != nil {
			return MatchOutput{}, fmt.Errorf("mapping cross-match response: %w", err)
		}
		out.Records = append(out.Records, rec)
	}

	// The Datalink descriptor is optional in the response; callers that
	// need it ask via RequireLocator.
	if loc, err := votable.FindResourceLocator(resp.Doc, tbl); err == nil {
		out.Locator = loc
	}
	return out, nil
}

func mapRow(tbl *votable.Table, row int) (types.MatchedRecord, error) {
	var rec types.MatchedRecord
	var err error

	if rec.MainID, err = tbl.Str(row, "main_id"); err != nil {
		return rec, err
	}
	if rec.GaiaID, err = tbl.Str(row, "gaia_id"); err != nil {
		return rec, err
	}
	if rec.SourceID, err = tbl.Int(row, "source_id"); err != nil {
		return rec, err
	}
	if rec.RA, err = tbl.Float(row, "ra"); err != nil {
		return rec, err
	}
	if rec.Dec, err = tbl.Float(row, "dec"); err != nil {
		return rec, err
	}
	if rec.Parallax, err = tbl.Float(row, "parallax"); err != nil {
		return rec, err
	}
	if rec.PMRA, err = tbl.Float(row, "pmra"); err != nil {
		return rec, err
	}
	if rec.PMDec, err = tbl.Float(row, "pmdec"); err != nil {
		return rec, err
	}
	if rec.RadialVelocity, err = tbl.Float(row, "radial_velocity"); err != nil {
		return rec, err
	}
	if rec.GMag, err = tbl.Float(row, "phot_g_mean_mag"); err != nil {
		return rec, err
	}
	if rec.VariableFlag, err = tbl.Str(row, "phot_variable_flag"); err != nil {
		return rec, err
	}
	if rec.HasEpochPhotometry, err = tbl.Bool(row, "has_epoch_photometry"); err != nil {
		return rec, err
	}
	return rec, nil
}

// FormatTable writes matched records as a human-readable table to w.
func FormatTable(records []types.MatchedRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-24s  %-20s  %-7s  %-8s  %s\n", "N", "Main ID", "Source ID", "G mag", "Parallax", "Variable")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for i, r := range records {
		fmt.Fprintf(w, "%-4d  %-24s  %-20d  %7.3f  %8.4f  %s\n",
			i+1, r.MainID, r.SourceID, r.GMag, r.Parallax, r.VariableFlag)
	}
	fmt.Fprintf(w, "\n%d matches with epoch photometry\n", len(records))
}

// FormatJSON writes matched records as indented JSON to w.
func FormatJSON(records []types.MatchedRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
