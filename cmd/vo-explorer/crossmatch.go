// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vo-explorer/internal/gaia"
	"github.com/pdiddy/vo-explorer/internal/simbad"
	"github.com/pdiddy/vo-explorer/internal/tap"
)

var crossmatchCmd = &cobra.Command{
	Use:   "crossmatch [query-file]",
	Short: "Cross-match saved candidates against the Gaia archive",
	Long: `Crossmatch uploads a saved candidate list (from search --output) to the
Gaia TAP service and joins it against gaiadr3.gaia_source by designation.
Only matches with epoch photometry are returned.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrossmatch,
}

func init() {
	crossmatchCmd.Flags().String("endpoint", gaia.DefaultEndpoint, "TAP base URL")
	crossmatchCmd.Flags().String("upload-name", gaia.DefaultUploadName, "name of the uploaded relation under TAP_UPLOAD")
	crossmatchCmd.Flags().Int("max-records", gaia.DefaultMaxRecords, "maximum number of joined rows")
	crossmatchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(crossmatchCmd)
}

func runCrossmatch(cmd *cobra.Command, args []string) error {
	qf, err := simbad.ReadQueryFile(args[0])
	if err != nil {
		return err
	}
	if len(qf.Records) == 0 {
		return fmt.Errorf("query file %s holds no candidates", args[0])
	}

	httpCfg := httpConfig(cmd)
	user, password := gaiaCredentials()
	client := &tap.Client{
		BaseURL:    stringOpt(cmd, "endpoint", "cross_match.endpoint"),
		HTTPClient: httpClient(httpCfg),
		UserAgent:  httpCfg.UserAgent,
		MaxRetries: httpCfg.MaxRetries,
		Username:   user,
		Password:   password,
	}

	uploadName := stringOpt(cmd, "upload-name", "cross_match.upload_name")
	maxrec := intOpt(cmd, "max-records", "cross_match.max_records")

	out, err := gaia.CrossMatch(cmd.Context(), client, qf.Records, uploadName, maxrec)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Matched %d of %d candidate(s).\n", len(out.Records), len(qf.Records))

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return gaia.FormatJSON(out.Records, os.Stdout)
	}
	gaia.FormatTable(out.Records, os.Stdout)
	return nil
}
