// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package simbad

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vo-explorer/pkg/types"
)

// QueryFile is the on-disk representation of a catalog query and its
// records. A saved search can be fed to the cross-match stage later without
// re-querying the service.
type QueryFile struct {
	Query   QueryParams           `yaml:"query"`
	Records []types.CatalogRecord `yaml:"records"`
	Summary QuerySummary          `yaml:"summary"`
}

// QueryParams stores the query parameters in a serializable form.
type QueryParams struct {
	Cluster       string `yaml:"cluster"`
	MinMembership int    `yaml:"min_membership"`
	ObjectType    string `yaml:"object_type"`
	IDPrefix      string `yaml:"id_prefix"`
	MaxRecords    int    `yaml:"max_records"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Endpoint  string    `yaml:"endpoint"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves query parameters and records to a YAML file.
func WriteQueryFile(path, endpoint string, q ClusterQuery, records []types.CatalogRecord) error {
	q = q.withDefaults()
	qf := QueryFile{
		Query: QueryParams{
			Cluster:       q.Cluster,
			MinMembership: q.MinMembership,
			ObjectType:    q.ObjectType,
			IDPrefix:      q.IDPrefix,
			MaxRecords:    q.MaxRecords,
		},
		Records: records,
		Summary: QuerySummary{
			Total:     len(records),
			Endpoint:  endpoint,
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing query file: %w", err)
	}
	return nil
}

// ReadQueryFile loads a previously saved query file.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file %s: %w", path, err)
	}
	return &qf, nil
}
