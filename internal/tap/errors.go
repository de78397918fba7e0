// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tap

import "fmt"

// QueryError reports a failed remote query: the service was unreachable,
// returned a non-success HTTP status, or reported an error through the
// response VOTable. Nothing downstream of a failed query can proceed, so
// callers treat it as fatal for the pipeline run.
type QueryError struct {
	Endpoint string
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("remote query against %s failed: %v", e.Endpoint, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// UploadError reports that the service rejected an upload-join: the ad hoc
// uploaded table was refused, typically for a schema or name mismatch.
// Distinguishable from QueryError via errors.As.
type UploadError struct {
	Endpoint string
	Upload   string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload-join of table %q against %s failed: %v", e.Upload, e.Endpoint, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
