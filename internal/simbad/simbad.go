// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package simbad queries the SIMBAD TAP service for cluster members and
// maps the response into typed catalog records.
package simbad

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/vo-explorer/internal/tap"
	"github.com/pdiddy/vo-explorer/pkg/types"
)

// DefaultEndpoint is the SIMBAD TAP base URL.
const DefaultEndpoint = "https://simbad.cds.unistra.fr/simbad/sim-tap"

// Defaults for the cluster query.
const (
	DefaultCluster       = "NGC 1976"
	DefaultMinMembership = 95
	DefaultObjectType    = "V*.."
	DefaultIDPrefix      = "Gaia DR3"
	DefaultMaxRecords    = 20
)

// ClusterQuery selects variable members of a cluster that carry a foreign
// cross-identification. Zero-valued fields take the package defaults.
type ClusterQuery struct {
	// Cluster is the parent object name (e.g. "NGC 1976").
	Cluster string

	// MinMembership is the minimum membership confidence, 0-100.
	MinMembership int

	// ObjectType is the object-type pattern; the ".." suffix matches the
	// whole subtype hierarchy (e.g. "V*.." covers all variable-star types).
	ObjectType string

	// IDPrefix selects cross-identifications by prefix (e.g. "Gaia DR3").
	IDPrefix string

	// MaxRecords caps the result count.
	MaxRecords int
}

func (q ClusterQuery) withDefaults() ClusterQuery {
	if q.Cluster == "" {
		q.Cluster = DefaultCluster
	}
	if q.MinMembership <= 0 {
		q.MinMembership = DefaultMinMembership
	}
	if q.ObjectType == "" {
		q.ObjectType = DefaultObjectType
	}
	if q.IDPrefix == "" {
		q.IDPrefix = DefaultIDPrefix
	}
	if q.MaxRecords <= 0 {
		q.MaxRecords = DefaultMaxRecords
	}
	return q
}

// ADQL builds the member-selection query: the hierarchy-link table joined
// against the base table and the identifier table, filtered by membership
// confidence, object type, and identifier prefix.
func (q ClusterQuery) ADQL() string {
	q = q.withDefaults()
	return fmt.Sprintf(
		`SELECT basic.main_id, basic.ra, basic.dec, ident.id
  FROM h_link
  JOIN ident AS p ON p.oidref = h_link.parent
  JOIN basic ON basic.oid = h_link.child
  JOIN ident ON ident.oidref = h_link.child
 WHERE p.id = '%s'
   AND h_link.membership >= %d
   AND basic.otype = '%s'
   AND ident.id LIKE '%s%%'`,
		escape(q.Cluster), q.MinMembership, escape(q.ObjectType), escape(q.IDPrefix))
}

// escape doubles single quotes for safe embedding in an ADQL string literal.
func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// FindMembers runs the cluster query against the service and returns the
// candidate records in service order, at most q.MaxRecords of them.
func FindMembers(ctx context.Context, client *tap.Client, q ClusterQuery) ([]types.CatalogRecord, error) {
	q = q.withDefaults()

	resp, err := client.Query(ctx, q.ADQL(), q.MaxRecords)
	if err != nil {
		return nil, err
	}

	tbl := resp.Table
	records := make([]types.CatalogRecord, 0, tbl.NumRows())
	for i := 0; i < tbl.NumRows(); i++ {
		var rec types.CatalogRecord
		if rec.MainID, err = tbl.Str(i, "main_id"); err != nil {
			return nil, fmt.Errorf("mapping catalog response: %w", err)
		}
		if rec.RA, err = tbl.Float(i, "ra"); err != nil {
			return nil, fmt.Errorf("mapping catalog response: %w", err)
		}
		if rec.Dec, err = tbl.Float(i, "dec"); err != nil {
			return nil, fmt.Errorf("mapping catalog response: %w", err)
		}
		if rec.GaiaID, err = tbl.Str(i, "id"); err != nil {
			return nil, fmt.Errorf("mapping catalog response: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []types.CatalogRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No members found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-24s  %-11s  %-11s  %s\n", "N", "Main ID", "RA", "Dec", "Gaia ID")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for i, r := range records {
		fmt.Fprintf(w, "%-4d  %-24s  %11.5f  %11.5f  %s\n", i+1, r.MainID, r.RA, r.Dec, r.GaiaID)
	}
	fmt.Fprintf(w, "\n%d members\n", len(records))
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records []types.CatalogRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
