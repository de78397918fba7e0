// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package datalink

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pdiddy/vo-explorer/pkg/types"
)

const defaultConcurrency = 4

// Outcome is one record's batch-resolution result. Exactly one of Err or
// the Result fields is meaningful.
type Outcome struct {
	RecordID string
	Result   Result
	Err      error
}

// BatchSummary counts batch outcomes.
type BatchSummary struct {
	Resolved int
	Empty    int
	Failed   int
	Products int
}

// Total returns the number of records processed.
func (s BatchSummary) Total() int {
	return s.Resolved + s.Empty + s.Failed
}

// HasFailures reports whether any record failed resolution.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// ResolveBatch resolves every record independently, with bounded
// concurrency and a shared request pacer. One record's failure never aborts
// the others; outcomes come back in input order, each either a product set
// or an error tagged with the record's identifier. Per-item status lines
// and a summary go to w.
func ResolveBatch(ctx context.Context, httpClient *http.Client, loc types.ResourceLocator, records []types.MatchedRecord, cfg types.ResolveConfig, w io.Writer) ([]Outcome, BatchSummary) {
	selector := cfg.Selector
	if selector == "" {
		selector = DefaultSelector
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	client := &Client{
		HTTPClient: httpClient,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.RequestInterval > 0 {
		client.Limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}

	outcomes := make([]Outcome, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			res, err := client.Resolve(gctx, loc, rec, selector)
			outcomes[i] = Outcome{RecordID: rec.GaiaID, Result: res, Err: err}
			// Failures stay in the outcome; returning nil keeps the
			// group running for the remaining records.
			return nil
		})
	}
	g.Wait()

	var summary BatchSummary
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			fmt.Fprintf(w, "failed:   %s (%v)\n", o.RecordID, o.Err)
			summary.Failed++
		case len(o.Result.Tables) == 0:
			fmt.Fprintf(w, "no data:  %s (no links matched %q)\n", o.RecordID, selector)
			summary.Empty++
		default:
			fmt.Fprintf(w, "resolved: %s (%d product(s))\n", o.RecordID, len(o.Result.Tables))
			summary.Resolved++
			summary.Products += len(o.Result.Tables)
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d resolved, %d without data, %d failed (total: %d)\n",
		summary.Resolved, summary.Empty, summary.Failed, summary.Total())

	return outcomes, summary
}
