// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tap is a synchronous Table Access Protocol client: ADQL queries
// over HTTP returning VOTable results, with optional inline table upload
// for ad hoc cross-matching (TAP_UPLOAD).
package tap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/vo-explorer/internal/httputil"
	"github.com/pdiddy/vo-explorer/internal/votable"
)

// Client issues synchronous queries against one TAP service.
type Client struct {
	// BaseURL is the TAP base; the sync endpoint is BaseURL + "/sync".
	BaseURL string

	// HTTPClient performs the requests. Must be non-nil.
	HTTPClient *http.Client

	// UserAgent is sent with every request.
	UserAgent string

	// MaxRetries bounds transient-failure retries (0 means the default).
	MaxRetries int

	// Username and Password enable HTTP Basic authentication for services
	// with authenticated TAP access (e.g. the ESA Gaia archive). Empty
	// Username means anonymous access.
	Username string
	Password string
}

// Response bundles a parsed TAP result: the full document (service
// descriptors included) and its result table.
type Response struct {
	Doc   *votable.Document
	Table *votable.Table
}

// Query submits an ADQL query to the sync endpoint and returns the parsed
// result. maxrec > 0 caps the row count server-side via MAXREC. A result
// with zero rows is valid; every failure is reported as a *QueryError.
func (c *Client) Query(ctx context.Context, adql string, maxrec int) (*Response, error) {
	form := url.Values{}
	form.Set("REQUEST", "doQuery")
	form.Set("LANG", "ADQL")
	form.Set("FORMAT", "votable")
	form.Set("QUERY", adql)
	if maxrec > 0 {
		form.Set("MAXREC", strconv.Itoa(maxrec))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.syncURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &QueryError{Endpoint: c.BaseURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, &QueryError{Endpoint: c.BaseURL, Err: err}
	}
	return resp, nil
}

// QueryWithUpload submits an ADQL query together with a client-supplied
// table, made joinable as TAP_UPLOAD.<uploadName> without pre-registration.
// Service-side rejection of the query or the uploaded table is reported as
// an *UploadError; transport failures as a *QueryError.
func (c *Client) QueryWithUpload(ctx context.Context, adql, uploadName string, upload *votable.Builder, maxrec int) (*Response, error) {
	var body strings.Builder
	mw := multipart.NewWriter(&body)

	fields := map[string]string{
		"REQUEST": "doQuery",
		"LANG":    "ADQL",
		"FORMAT":  "votable",
		"QUERY":   adql,
		"UPLOAD":  fmt.Sprintf("%s,param:%s", uploadName, uploadName),
	}
	if maxrec > 0 {
		fields["MAXREC"] = strconv.Itoa(maxrec)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, &QueryError{Endpoint: c.BaseURL, Err: err}
		}
	}

	part, err := mw.CreateFormFile(uploadName, uploadName+".vot")
	if err != nil {
		return nil, &QueryError{Endpoint: c.BaseURL, Err: err}
	}
	if err := upload.Write(part); err != nil {
		return nil, &QueryError{Endpoint: c.BaseURL, Err: fmt.Errorf("serializing upload table: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return nil, &QueryError{Endpoint: c.BaseURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.syncURL(), strings.NewReader(body.String()))
	if err != nil {
		return nil, &QueryError{Endpoint: c.BaseURL, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		// Rejections carry a service message (HTTP 4xx or a VOTable
		// QUERY_STATUS error); those are the upload-join failing, not
		// the transport.
		if isRejection(err) {
			return nil, &UploadError{Endpoint: c.BaseURL, Upload: uploadName, Err: err}
		}
		return nil, &QueryError{Endpoint: c.BaseURL, Err: err}
	}
	return resp, nil
}

func (c *Client) syncURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/sync"
}

// httpStatusError marks a non-success HTTP response.
type httpStatusError struct {
	code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.code)
}

func isRejection(err error) bool {
	var se *votable.StatusError
	if errors.As(err, &se) {
		return true
	}
	var he *httpStatusError
	if errors.As(err, &he) {
		return he.code >= 400 && he.code < 500
	}
	return false
}

// roundTrip performs the request with retry, checks the HTTP status, and
// parses the body as a VOTable. TAP services report ADQL errors both as
// HTTP 400 with a VOTable body and as HTTP 200 with QUERY_STATUS=ERROR;
// the VOTable message is preferred when present.
func (c *Client) roundTrip(ctx context.Context, req *http.Request) (*Response, error) {
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, c.MaxRetries)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Error bodies are often VOTables carrying the real message.
		if doc, perr := votable.Parse(io.LimitReader(resp.Body, 1<<20)); perr == nil {
			if serr := doc.StatusError(); serr != nil {
				return nil, serr
			}
		}
		return nil, &httpStatusError{code: resp.StatusCode}
	}

	doc, err := votable.Parse(resp.Body)
	if err != nil {
		return nil, err
	}
	if serr := doc.StatusError(); serr != nil {
		return nil, serr
	}

	tbl, err := doc.FirstTable()
	if err != nil {
		return nil, err
	}
	return &Response{Doc: doc, Table: tbl}, nil
}
