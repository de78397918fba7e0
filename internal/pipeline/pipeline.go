// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the full discovery workflow: catalog query,
// upload cross-match, and per-record Datalink resolution. Stage outputs
// are threaded explicitly; no stage reads state another stage wrote
// somewhere else.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/vo-explorer/internal/datalink"
	"github.com/pdiddy/vo-explorer/internal/gaia"
	"github.com/pdiddy/vo-explorer/internal/simbad"
	"github.com/pdiddy/vo-explorer/internal/tap"
	"github.com/pdiddy/vo-explorer/pkg/types"
)

// Result holds every stage's output from one pipeline run.
type Result struct {
	// Candidates are the catalog records the cluster query returned.
	Candidates []types.CatalogRecord

	// Matched are the candidates that joined against the remote archive.
	Matched []types.MatchedRecord

	// Locator is the Datalink service descriptor from the cross-match
	// response; zero-valued when no candidate joined.
	Locator types.ResourceLocator

	// Outcomes has one entry per matched record, in input order.
	Outcomes []datalink.Outcome

	Summary datalink.BatchSummary
}

func tapClient(base string, httpClient *http.Client, cfg types.HTTPConfig) *tap.Client {
	return &tap.Client{
		BaseURL:    base,
		HTTPClient: httpClient,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	}
}

// Run executes the pipeline. A catalog or cross-match failure aborts the
// run; resolution failures are isolated per record and reported in the
// returned Result instead. An empty stage result is not an error: the run
// completes with the later stages skipped.
func Run(ctx context.Context, httpClient *http.Client, cfg types.PipelineConfig, w io.Writer) (*Result, error) {
	catEndpoint := cfg.Catalog.Endpoint
	if catEndpoint == "" {
		catEndpoint = simbad.DefaultEndpoint
	}

	fmt.Fprintf(w, "Querying %s for members of %q...\n", catEndpoint, clusterName(cfg.Catalog))
	candidates, err := simbad.FindMembers(ctx, tapClient(catEndpoint, httpClient, cfg.Catalog.HTTPConfig), simbad.ClusterQuery{
		Cluster:       cfg.Catalog.Cluster,
		MinMembership: cfg.Catalog.MinMembership,
		ObjectType:    cfg.Catalog.ObjectType,
		IDPrefix:      cfg.Catalog.IDPrefix,
		MaxRecords:    cfg.Catalog.MaxRecords,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}

	result := &Result{Candidates: candidates}
	fmt.Fprintf(w, "Found %d candidate(s).\n", len(candidates))
	if len(candidates) == 0 {
		return result, nil
	}

	xmEndpoint := cfg.CrossMatch.Endpoint
	if xmEndpoint == "" {
		xmEndpoint = gaia.DefaultEndpoint
	}

	fmt.Fprintf(w, "Cross-matching %d candidate(s) against %s...\n", len(candidates), xmEndpoint)
	xmClient := tapClient(xmEndpoint, httpClient, cfg.CrossMatch.HTTPConfig)
	xmClient.Username = cfg.CrossMatch.Username
	xmClient.Password = cfg.CrossMatch.Password
	match, err := gaia.CrossMatch(ctx, xmClient,
		candidates, cfg.CrossMatch.UploadName, cfg.CrossMatch.MaxRecords)
	if err != nil {
		return nil, fmt.Errorf("cross-match: %w", err)
	}

	result.Matched = match.Records
	result.Locator = match.Locator
	fmt.Fprintf(w, "Matched %d record(s) with epoch photometry.\n", len(match.Records))
	if len(match.Records) == 0 {
		return result, nil
	}

	loc, err := match.RequireLocator()
	if err != nil {
		return nil, fmt.Errorf("cross-match: %w", err)
	}

	fmt.Fprintf(w, "Resolving ancillary data for %d record(s)...\n", len(match.Records))
	result.Outcomes, result.Summary = datalink.ResolveBatch(ctx, httpClient, loc, match.Records, cfg.Resolve, w)

	return result, nil
}

func clusterName(cfg types.CatalogConfig) string {
	if cfg.Cluster != "" {
		return cfg.Cluster
	}
	return simbad.DefaultCluster
}
