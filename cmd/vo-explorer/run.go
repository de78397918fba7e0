// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vo-explorer/internal/archive"
	"github.com/pdiddy/vo-explorer/internal/datalink"
	"github.com/pdiddy/vo-explorer/internal/gaia"
	"github.com/pdiddy/vo-explorer/internal/pipeline"
	"github.com/pdiddy/vo-explorer/internal/simbad"
	"github.com/pdiddy/vo-explorer/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full discovery pipeline and archive the results",
	Long: `Run chains search, crossmatch, and lightcurve resolution into one
pass and stores the outcome in the local archive. A catalog or
cross-match failure aborts the run; per-record resolution failures are
reported but do not.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("cluster", simbad.DefaultCluster, "parent cluster name")
	runCmd.Flags().Int("min-membership", simbad.DefaultMinMembership, "minimum membership confidence (0-100)")
	runCmd.Flags().String("object-type", simbad.DefaultObjectType, "object type pattern ('..' matches subtypes)")
	runCmd.Flags().String("id-prefix", simbad.DefaultIDPrefix, "cross-identification prefix")
	runCmd.Flags().Int("max-records", simbad.DefaultMaxRecords, "maximum number of candidates")
	runCmd.Flags().String("upload-name", gaia.DefaultUploadName, "name of the uploaded relation under TAP_UPLOAD")
	runCmd.Flags().Int("match-max-records", gaia.DefaultMaxRecords, "maximum number of joined rows")
	runCmd.Flags().String("selector", datalink.DefaultSelector, "substring selecting ancillary links by description")
	runCmd.Flags().Int("concurrency", 4, "records resolved in parallel")
	runCmd.Flags().Duration("interval", 200*time.Millisecond, "minimum spacing between remote calls (0 disables)")
	runCmd.Flags().String("archive-dir", archive.DefaultDir, "archive database directory")
	runCmd.Flags().Bool("no-save", false, "skip archiving the run")

	rootCmd.AddCommand(runCmd)
}

// pipelineConfig builds the full stage configuration from flags, config
// keys (flags win), and the loaded credentials. Every key the standalone
// subcommands honor is honored here too.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	httpCfg := httpConfig(cmd)
	user, password := gaiaCredentials()

	return types.PipelineConfig{
		Catalog: types.CatalogConfig{
			HTTPConfig:    httpCfg,
			Endpoint:      viper.GetString("catalog.endpoint"),
			Cluster:       stringOpt(cmd, "cluster", "catalog.cluster"),
			MinMembership: intOpt(cmd, "min-membership", "catalog.min_membership"),
			ObjectType:    stringOpt(cmd, "object-type", "catalog.object_type"),
			IDPrefix:      stringOpt(cmd, "id-prefix", "catalog.id_prefix"),
			MaxRecords:    intOpt(cmd, "max-records", "catalog.max_records"),
		},
		CrossMatch: types.CrossMatchConfig{
			HTTPConfig: httpCfg,
			Endpoint:   viper.GetString("cross_match.endpoint"),
			UploadName: stringOpt(cmd, "upload-name", "cross_match.upload_name"),
			MaxRecords: intOpt(cmd, "match-max-records", "cross_match.max_records"),
			Username:   user,
			Password:   password,
		},
		Resolve: types.ResolveConfig{
			HTTPConfig:      httpCfg,
			Selector:        stringOpt(cmd, "selector", "resolve.selector"),
			Concurrency:     intOpt(cmd, "concurrency", "resolve.concurrency"),
			RequestInterval: durationOpt(cmd, "interval", "resolve.request_interval"),
		},
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	result, err := pipeline.Run(cmd.Context(), httpClient(cfg.Catalog.HTTPConfig), cfg, os.Stdout)
	if err != nil {
		return err
	}

	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		store, err := archive.NewStore(types.ArchiveConfig{
			Dir: stringOpt(cmd, "archive-dir", "archive.dir"),
		})
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.SaveRun(cmd.Context(), cfg.Catalog.Cluster, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Archived run %s\n", id)
	}

	if result.Summary.HasFailures() {
		return fmt.Errorf("%d record(s) failed resolution", result.Summary.Failed)
	}
	return nil
}
