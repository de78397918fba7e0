// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package datalink resolves per-record ancillary products: a discovery call
// against the service-advertised Datalink endpoint, a substring filter over
// the advertised link descriptions, and a fetch of each surviving access
// URL as a table.
package datalink

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/vo-explorer/internal/httputil"
	"github.com/pdiddy/vo-explorer/internal/votable"
	"github.com/pdiddy/vo-explorer/pkg/types"
)

// DefaultSelector is the description substring for Gaia epoch photometry.
const DefaultSelector = "Epoch photometry"

// Client performs Datalink discovery and product fetches.
type Client struct {
	// HTTPClient performs the requests. Must be non-nil.
	HTTPClient *http.Client

	// UserAgent is sent with every request.
	UserAgent string

	// MaxRetries bounds transient-failure retries (0 means the default).
	MaxRetries int

	// Limiter, when set, paces all remote calls made through this client.
	Limiter *rate.Limiter
}

// ResolveError tags a per-record resolution failure with the identifier of
// the record it belongs to, so one record's failure can be reported without
// aborting the rest.
type ResolveError struct {
	RecordID string
	Err      error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolving ancillary data for %s: %v", e.RecordID, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Result is one record's resolution outcome: the links that survived the
// selector and the fetched product tables, one per link. Zero links is a
// valid outcome.
type Result struct {
	Links  []types.AncillaryLink
	Tables []*votable.Table
}

// Resolve discovers the record's current ancillary links, keeps those whose
// description contains selector, and fetches each kept link's access URL as
// a table. The discovery URL is built from the service-supplied locator:
// base access URL, parameter name, and the record column providing the
// identifier value. Each call re-queries the service; link sets are
// service-defined and may differ between calls.
func (c *Client) Resolve(ctx context.Context, loc types.ResourceLocator, rec types.MatchedRecord, selector string) (Result, error) {
	id, err := recordValue(rec, loc.IDColumn)
	if err != nil {
		return Result{}, &ResolveError{RecordID: rec.GaiaID, Err: err}
	}

	links, err := c.discover(ctx, loc, id)
	if err != nil {
		return Result{}, &ResolveError{RecordID: rec.GaiaID, Err: err}
	}

	var res Result
	for _, link := range links {
		if !strings.Contains(link.Description, selector) {
			continue
		}
		tbl, err := c.FetchTable(ctx, link.AccessURL)
		if err != nil {
			return Result{}, &ResolveError{RecordID: rec.GaiaID, Err: fmt.Errorf("fetching %s: %w", link.AccessURL, err)}
		}
		res.Links = append(res.Links, link)
		res.Tables = append(res.Tables, tbl)
	}
	return res, nil
}

// discover performs the per-record discovery round trip and maps the
// response rows into links.
func (c *Client) discover(ctx context.Context, loc types.ResourceLocator, id string) ([]types.AncillaryLink, error) {
	u, err := discoveryURL(loc, id)
	if err != nil {
		return nil, err
	}

	tbl, err := c.FetchTable(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("discovery at %s: %w", loc.AccessURL, err)
	}

	links := make([]types.AncillaryLink, 0, tbl.NumRows())
	for i := 0; i < tbl.NumRows(); i++ {
		var link types.AncillaryLink
		if link.Description, err = tbl.Str(i, "description"); err != nil {
			return nil, fmt.Errorf("mapping discovery response: %w", err)
		}
		if link.AccessURL, err = tbl.Str(i, "access_url"); err != nil {
			return nil, fmt.Errorf("mapping discovery response: %w", err)
		}
		// Optional columns; not all services carry them.
		link.Semantics, _ = tbl.Str(i, "semantics")
		link.ContentType, _ = tbl.Str(i, "content_type")
		links = append(links, link)
	}
	return links, nil
}

// discoveryURL appends the identifier parameter to the advertised base URL,
// preserving any query string the base already carries.
func discoveryURL(loc types.ResourceLocator, id string) (string, error) {
	u, err := url.Parse(loc.AccessURL)
	if err != nil {
		return "", fmt.Errorf("invalid access URL %q: %w", loc.AccessURL, err)
	}
	q := u.Query()
	q.Set(loc.IDParam, id)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// recordValue returns the record column the locator's ID parameter binds to.
// The column name comes from service metadata, so unknown names are an
// error, not a silent default.
func recordValue(rec types.MatchedRecord, column string) (string, error) {
	switch strings.ToLower(column) {
	case "source_id":
		return strconv.FormatInt(rec.SourceID, 10), nil
	case "designation", "gaia_id":
		return rec.GaiaID, nil
	case "main_id":
		return rec.MainID, nil
	}
	return "", fmt.Errorf("locator references unknown column %q", column)
}

// FetchTable fetches a URL and parses the response as a single-table
// VOTable. Used for both discovery responses and product tables.
func (c *Client) FetchTable(ctx context.Context, rawURL string) (*votable.Table, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, c.MaxRetries)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	doc, err := votable.Parse(resp.Body)
	if err != nil {
		return nil, err
	}
	if serr := doc.StatusError(); serr != nil {
		return nil, serr
	}
	return doc.FirstTable()
}
