// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ssa queries a Simple Spectral Access service by sky position and
// returns spectrum metadata. Searching and fetching are deliberately
// separate: Search is cheap metadata discovery, FetchSpectrum is the
// explicit data transfer the caller opts into.
package ssa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/vo-explorer/internal/httputil"
	"github.com/pdiddy/vo-explorer/internal/votable"
	"github.com/pdiddy/vo-explorer/pkg/types"
)

// DefaultEndpoint is the GAVO Flash/Heros SSA base URL.
const DefaultEndpoint = "https://dc.g-vo.org/flashheros/q/ssa/ssap.xml"

// DefaultMaxRecords caps the result count.
const DefaultMaxRecords = 20

// Client queries one SSA service.
type Client struct {
	// BaseURL is the SSA query endpoint.
	BaseURL string

	// HTTPClient performs the requests. Must be non-nil.
	HTTPClient *http.Client

	// UserAgent is sent with every request.
	UserAgent string

	// MaxRetries bounds transient-failure retries (0 means the default).
	MaxRetries int
}

// Search queries the service around pos with the given search radius in
// degrees and returns candidate spectra in service order. The SSA SIZE
// parameter is the search diameter, twice the radius; radius 0 is legal
// and matches only datasets at the exact position. No spectral data is
// downloaded.
func (c *Client) Search(ctx context.Context, pos types.Coordinate, radiusDeg float64, cfg types.SpectraConfig) ([]types.SpectrumResult, error) {
	if radiusDeg < 0 {
		return nil, fmt.Errorf("negative search radius %v", radiusDeg)
	}
	maxrec := cfg.MaxRecords
	if maxrec <= 0 {
		maxrec = DefaultMaxRecords
	}

	q := url.Values{}
	q.Set("REQUEST", "queryData")
	q.Set("POS", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(pos.RA, 'g', -1, 64),
		strconv.FormatFloat(pos.Dec, 'g', -1, 64)))
	q.Set("SIZE", strconv.FormatFloat(2*radiusDeg, 'g', -1, 64))
	q.Set("MAXREC", strconv.Itoa(maxrec))
	if cfg.Format != "" {
		q.Set("FORMAT", cfg.Format)
	}

	sep := "?"
	if strings.Contains(c.BaseURL, "?") {
		sep = "&"
	}
	reqURL := c.BaseURL + sep + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("SSA request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SSA service returned HTTP %d", resp.StatusCode)
	}

	doc, err := votable.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing SSA response: %w", err)
	}
	if serr := doc.StatusError(); serr != nil {
		return nil, serr
	}
	tbl, err := doc.FirstTable()
	if err != nil {
		return nil, err
	}
	return mapResults(tbl)
}

// SSA responses are addressed by UCD first; column names differ between
// services, so well-known names are the fallback.
func column(tbl *votable.Table, ucd string, names ...string) (int, bool) {
	if i, ok := tbl.ColumnByUCD(ucd); ok {
		return i, true
	}
	for _, n := range names {
		if i, ok := tbl.Column(n); ok {
			return i, true
		}
	}
	return 0, false
}

func mapResults(tbl *votable.Table) ([]types.SpectrumResult, error) {
	if _, ok := column(tbl, "meta.ref.url", "accref", "access_url"); !ok {
		return nil, fmt.Errorf("SSA response has no access reference column")
	}

	cell := func(row int, ucd string, names ...string) string {
		if i, ok := column(tbl, ucd, names...); ok {
			s, _ := tbl.StrAt(row, i)
			return s
		}
		return ""
	}

	results := make([]types.SpectrumResult, 0, tbl.NumRows())
	for i := 0; i < tbl.NumRows(); i++ {
		r := types.SpectrumResult{
			Title:           cell(i, "meta.title", "ssa_dstitle", "title"),
			AccessReference: cell(i, "meta.ref.url", "accref", "access_url"),
			Instrument:      cell(i, "meta.id;instr", "ssa_instrument", "instrument"),
			Format:          cell(i, "meta.code.mime", "mime", "format"),
		}
		if ra := cell(i, "pos.eq.ra", "ssa_ra"); ra != "" {
			r.Position.RA, _ = strconv.ParseFloat(ra, 64)
		}
		if dec := cell(i, "pos.eq.dec", "ssa_dec"); dec != "" {
			r.Position.Dec, _ = strconv.ParseFloat(dec, 64)
		}
		if d := cell(i, "time.start", "ssa_dateobs", "date_obs"); d != "" {
			for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
				if t, perr := time.Parse(layout, d); perr == nil {
					r.Date = t
					break
				}
			}
		}
		results = append(results, r)
	}
	return results, nil
}

// FetchSpectrum retrieves the spectral data behind one access reference.
// This is the explicit, possibly expensive second phase of the search
// contract.
func (c *Client) FetchSpectrum(ctx context.Context, accessRef string) ([]byte, error) {
	if accessRef == "" {
		return nil, fmt.Errorf("empty access reference")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, accessRef, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetching spectrum: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, accessRef)
	}
	return io.ReadAll(resp.Body)
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(results []types.SpectrumResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No spectra found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-40s  %-12s  %-10s  %s\n", "N", "Title", "Instrument", "Date", "Access")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, r := range results {
		title := r.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%-4d  %-40s  %-12s  %-10s  %s\n", i+1, title, r.Instrument, date, r.AccessReference)
	}
	fmt.Fprintf(w, "\n%d spectra\n", len(results))
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(results []types.SpectrumResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
