// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vo-explorer/internal/ssa"
	"github.com/pdiddy/vo-explorer/pkg/types"
)

var spectraCmd = &cobra.Command{
	Use:   "spectra [ra] [dec]",
	Short: "Search a spectral archive by sky position",
	Long: `Spectra queries an SSA service for spectra within --radius degrees of
the given ICRS position and lists the matching datasets. Fetching a
dataset is a separate step: pass --fetch with an access reference.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runSpectra,
}

func init() {
	spectraCmd.Flags().String("endpoint", ssa.DefaultEndpoint, "SSA base URL")
	spectraCmd.Flags().Float64("radius", 0.05, "search radius in degrees")
	spectraCmd.Flags().String("format", "", "restrict dataset formats (e.g. votable)")
	spectraCmd.Flags().Int("max-records", ssa.DefaultMaxRecords, "maximum number of results")
	spectraCmd.Flags().String("fetch", "", "fetch the dataset behind an access reference to stdout")
	spectraCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(spectraCmd)
}

func runSpectra(cmd *cobra.Command, args []string) error {
	httpCfg := httpConfig(cmd)
	client := &ssa.Client{
		BaseURL:    stringOpt(cmd, "endpoint", "spectra.endpoint"),
		HTTPClient: httpClient(httpCfg),
		UserAgent:  httpCfg.UserAgent,
		MaxRetries: httpCfg.MaxRetries,
	}

	// Fetch mode: retrieve one dataset and write it to stdout.
	if ref, _ := cmd.Flags().GetString("fetch"); ref != "" {
		data, err := client.FetchSpectrum(cmd.Context(), ref)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if len(args) != 2 {
		return fmt.Errorf("provide a position as two arguments: RA DEC (decimal degrees)")
	}
	ra, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("parsing RA %q: %w", args[0], err)
	}
	dec, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parsing DEC %q: %w", args[1], err)
	}

	radius, _ := cmd.Flags().GetFloat64("radius")
	cfg := types.SpectraConfig{
		HTTPConfig: httpCfg,
		Format:     stringOpt(cmd, "format", "spectra.format"),
		MaxRecords: intOpt(cmd, "max-records", "spectra.max_records"),
	}

	pos := types.Coordinate{RA: ra, Dec: dec, Frame: "ICRS"}
	results, err := client.Search(cmd.Context(), pos, radius, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Found %d spectrum dataset(s).\n", len(results))

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return ssa.FormatJSON(results, os.Stdout)
	}
	ssa.FormatTable(results, os.Stdout)
	return nil
}
