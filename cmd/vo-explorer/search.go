// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vo-explorer/internal/simbad"
	"github.com/pdiddy/vo-explorer/internal/tap"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find variable cluster members in SIMBAD",
	Long: `Search queries the SIMBAD TAP service for variable stars that are
members of an open cluster and carry a Gaia DR3 cross-identification.
The candidate list can be saved with --output and fed to crossmatch.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("endpoint", simbad.DefaultEndpoint, "TAP base URL")
	searchCmd.Flags().String("cluster", simbad.DefaultCluster, "parent cluster name")
	searchCmd.Flags().Int("min-membership", simbad.DefaultMinMembership, "minimum membership confidence (0-100)")
	searchCmd.Flags().String("object-type", simbad.DefaultObjectType, "object type pattern ('..' matches subtypes)")
	searchCmd.Flags().String("id-prefix", simbad.DefaultIDPrefix, "cross-identification prefix")
	searchCmd.Flags().Int("max-records", simbad.DefaultMaxRecords, "maximum number of candidates")
	searchCmd.Flags().String("output", "", "save candidates to a YAML query file")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	endpoint := stringOpt(cmd, "endpoint", "catalog.endpoint")
	q := simbad.ClusterQuery{
		Cluster:       stringOpt(cmd, "cluster", "catalog.cluster"),
		MinMembership: intOpt(cmd, "min-membership", "catalog.min_membership"),
		ObjectType:    stringOpt(cmd, "object-type", "catalog.object_type"),
		IDPrefix:      stringOpt(cmd, "id-prefix", "catalog.id_prefix"),
		MaxRecords:    intOpt(cmd, "max-records", "catalog.max_records"),
	}

	httpCfg := httpConfig(cmd)
	client := &tap.Client{
		BaseURL:    endpoint,
		HTTPClient: httpClient(httpCfg),
		UserAgent:  httpCfg.UserAgent,
		MaxRetries: httpCfg.MaxRetries,
	}

	records, err := simbad.FindMembers(cmd.Context(), client, q)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		if err := simbad.WriteQueryFile(out, endpoint, q, records); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d candidate(s) to %s\n", len(records), out)
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return simbad.FormatJSON(records, os.Stdout)
	}
	simbad.FormatTable(records, os.Stdout)
	return nil
}
