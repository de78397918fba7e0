package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "vo-explorer/0.1 (contact@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retry attempts for transient HTTP
	// failures (429/503). Zero means the default (5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CatalogConfig holds settings for the catalog query stage.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the TAP base URL (default: SIMBAD).
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Cluster is the parent object whose members are queried (default "NGC 1976").
	Cluster string `json:"cluster" yaml:"cluster"`

	// MinMembership is the minimum membership confidence, 0-100 (default 95).
	MinMembership int `json:"min_membership" yaml:"min_membership"`

	// ObjectType is the hierarchical object-type pattern (default "V*..",
	// variable stars including all subtypes).
	ObjectType string `json:"object_type" yaml:"object_type"`

	// IDPrefix filters cross-identifications by prefix (default "Gaia DR3").
	IDPrefix string `json:"id_prefix" yaml:"id_prefix"`

	// MaxRecords caps the number of returned records (default 20).
	MaxRecords int `json:"max_records" yaml:"max_records"`
}

// CrossMatchConfig holds settings for the upload cross-match stage.
type CrossMatchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the TAP base URL (default: ESA Gaia).
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// UploadName names the client-supplied relation under TAP_UPLOAD
	// (default "cands").
	UploadName string `json:"upload_name" yaml:"upload_name"`

	// MaxRecords caps the number of joined rows (default 20).
	MaxRecords int `json:"max_records" yaml:"max_records"`

	// Username and Password enable authenticated archive access. They are
	// loaded from .secrets/, never from the config file.
	Username string `json:"-" yaml:"-"`
	Password string `json:"-" yaml:"-"`
}

// ResolveConfig holds settings for per-record Datalink resolution.
type ResolveConfig struct {
	HTTPConfig `yaml:",inline"`

	// Selector is the substring matched against link descriptions
	// (default "Epoch photometry").
	Selector string `json:"selector" yaml:"selector"`

	// Concurrency bounds the number of records resolved in parallel (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// RequestInterval is the minimum spacing between remote calls across
	// all workers (default 200ms). Zero disables rate limiting.
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval"`
}

// SpectraConfig holds settings for the SSA positional search stage.
type SpectraConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the SSA base URL (default: GAVO Flash/Heros).
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Format restricts returned dataset formats; empty means the service default.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// MaxRecords caps the number of returned rows (default 20).
	MaxRecords int `json:"max_records" yaml:"max_records"`
}

// ArchiveConfig holds settings for the local results store.
type ArchiveConfig struct {
	// Dir is the base directory for the archive database (default "archive").
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
	CrossMatch CrossMatchConfig `json:"cross_match" yaml:"cross_match"`
	Resolve    ResolveConfig    `json:"resolve" yaml:"resolve"`
	Spectra    SpectraConfig    `json:"spectra" yaml:"spectra"`
	Archive    ArchiveConfig    `json:"archive" yaml:"archive"`
}
