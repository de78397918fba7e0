// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the vo-explorer pipeline.
// Each remote catalog's heterogeneous response schema is mapped into these
// fixed, typed records at the stage boundary; nothing downstream touches raw
// VOTable rows.
package types

import "time"

// CatalogRecord is one candidate object returned by the catalog query stage.
// GaiaID carries the foreign cross-identification (e.g. "Gaia DR3 3016556419449513856")
// that the cross-match stage joins on.
type CatalogRecord struct {
	// MainID is the catalog's primary identifier (e.g. "V* MR Ori").
	MainID string `json:"main_id" yaml:"main_id"`

	// RA is the right ascension in degrees (ICRS).
	RA float64 `json:"ra" yaml:"ra"`

	// Dec is the declination in degrees (ICRS).
	Dec float64 `json:"dec" yaml:"dec"`

	// GaiaID is the full textual Gaia designation used as the join key.
	GaiaID string `json:"gaia_id" yaml:"gaia_id"`
}

// MatchedRecord is a CatalogRecord successfully joined against the Gaia
// archive. Records whose designation did not join, or that lack epoch
// photometry, never become MatchedRecords.
type MatchedRecord struct {
	CatalogRecord `yaml:",inline"`

	// SourceID is the numeric Gaia source identifier.
	SourceID int64 `json:"source_id" yaml:"source_id"`

	// GMag is the mean G-band magnitude.
	GMag float64 `json:"g_mag" yaml:"g_mag"`

	// VariableFlag is the archive's photometric variability classification.
	VariableFlag string `json:"variable_flag,omitempty" yaml:"variable_flag,omitempty"`

	// PMRA and PMDec are the proper motion components in mas/yr.
	PMRA  float64 `json:"pmra" yaml:"pmra"`
	PMDec float64 `json:"pmdec" yaml:"pmdec"`

	// Parallax is in mas.
	Parallax float64 `json:"parallax" yaml:"parallax"`

	// RadialVelocity is in km/s; zero when the archive has none.
	RadialVelocity float64 `json:"radial_velocity,omitempty" yaml:"radial_velocity,omitempty"`

	// HasEpochPhotometry reports whether the archive advertises a
	// time-series product for this source.
	HasEpochPhotometry bool `json:"has_epoch_photometry" yaml:"has_epoch_photometry"`
}

// AncillaryLink is one row of a Datalink discovery response: a description
// of an available product and the URL that serves it. The description
// vocabulary is service-defined; substring matching is the only stable
// selector.
type AncillaryLink struct {
	Description string `json:"description" yaml:"description"`
	AccessURL   string `json:"access_url" yaml:"access_url"`
	Semantics   string `json:"semantics,omitempty" yaml:"semantics,omitempty"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
}

// ResourceLocator is the capability-discovery contract a TAP response embeds
// for Datalink: where to ask (AccessURL), the name of the query parameter
// (IDParam), and which column of the result table supplies its value
// (IDColumn). All three come from service metadata, never from assumptions
// about column positions.
type ResourceLocator struct {
	AccessURL string `json:"access_url" yaml:"access_url"`
	IDParam   string `json:"id_param" yaml:"id_param"`
	IDColumn  string `json:"id_column" yaml:"id_column"`
}

// Coordinate is a sky position in decimal degrees.
type Coordinate struct {
	RA    float64 `json:"ra" yaml:"ra"`
	Dec   float64 `json:"dec" yaml:"dec"`
	Frame string  `json:"frame,omitempty" yaml:"frame,omitempty"`
}

// SpectrumResult is one candidate spectrum returned by an SSA positional
// search. AccessReference points at the spectral data; Search never fetches
// it — retrieval is a separate, explicit step.
type SpectrumResult struct {
	// Title is the service's human-readable label for the dataset.
	Title string `json:"title" yaml:"title"`

	// AccessReference is the URL that serves the spectrum itself.
	AccessReference string `json:"access_reference" yaml:"access_reference"`

	// Position is the spectrum's target position, when the service reports one.
	Position Coordinate `json:"position" yaml:"position"`

	// Instrument and Format are service metadata; either may be empty.
	Instrument string `json:"instrument,omitempty" yaml:"instrument,omitempty"`
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`

	// Date is the observation date, when the service reports one.
	Date time.Time `json:"date,omitzero" yaml:"date,omitempty"`
}
