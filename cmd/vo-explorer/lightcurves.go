// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vo-explorer/internal/datalink"
	"github.com/pdiddy/vo-explorer/internal/gaia"
	"github.com/pdiddy/vo-explorer/internal/simbad"
	"github.com/pdiddy/vo-explorer/internal/tap"
	"github.com/pdiddy/vo-explorer/pkg/types"
)

var lightcurvesCmd = &cobra.Command{
	Use:   "lightcurves [query-file]",
	Short: "Resolve epoch photometry for matched candidates",
	Long: `Lightcurves cross-matches a saved candidate list against the Gaia
archive, then follows the response's Datalink service descriptor to each
match's ancillary products, keeping those whose description matches the
selector (default "Epoch photometry"). Failures are isolated per record.`,
	Args: cobra.ExactArgs(1),
	RunE: runLightcurves,
}

func init() {
	lightcurvesCmd.Flags().String("endpoint", gaia.DefaultEndpoint, "TAP base URL for the cross-match")
	lightcurvesCmd.Flags().String("selector", datalink.DefaultSelector, "substring selecting ancillary links by description")
	lightcurvesCmd.Flags().Int("concurrency", 4, "records resolved in parallel")
	lightcurvesCmd.Flags().Duration("interval", 200*time.Millisecond, "minimum spacing between remote calls (0 disables)")

	rootCmd.AddCommand(lightcurvesCmd)
}

func runLightcurves(cmd *cobra.Command, args []string) error {
	qf, err := simbad.ReadQueryFile(args[0])
	if err != nil {
		return err
	}
	if len(qf.Records) == 0 {
		return fmt.Errorf("query file %s holds no candidates", args[0])
	}

	httpCfg := httpConfig(cmd)
	hc := httpClient(httpCfg)
	user, password := gaiaCredentials()
	client := &tap.Client{
		BaseURL:    stringOpt(cmd, "endpoint", "cross_match.endpoint"),
		HTTPClient: hc,
		UserAgent:  httpCfg.UserAgent,
		MaxRetries: httpCfg.MaxRetries,
		Username:   user,
		Password:   password,
	}

	out, err := gaia.CrossMatch(cmd.Context(), client, qf.Records, "", 0)
	if err != nil {
		return err
	}
	if len(out.Records) == 0 {
		fmt.Fprintln(os.Stderr, "No candidates matched; nothing to resolve.")
		return nil
	}

	loc, err := out.RequireLocator()
	if err != nil {
		return err
	}

	cfg := types.ResolveConfig{
		HTTPConfig:      httpCfg,
		Selector:        stringOpt(cmd, "selector", "resolve.selector"),
		Concurrency:     intOpt(cmd, "concurrency", "resolve.concurrency"),
		RequestInterval: durationOpt(cmd, "interval", "resolve.request_interval"),
	}

	_, summary := datalink.ResolveBatch(cmd.Context(), hc, loc, out.Records, cfg, os.Stdout)
	if summary.HasFailures() {
		return fmt.Errorf("%d record(s) failed resolution", summary.Failed)
	}
	return nil
}
