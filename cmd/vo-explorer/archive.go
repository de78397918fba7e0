// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vo-explorer/internal/archive"
	"github.com/pdiddy/vo-explorer/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect archived pipeline runs",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE:  runArchiveList,
}

var archiveShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run's stars and products",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

func init() {
	archiveCmd.PersistentFlags().String("archive-dir", archive.DefaultDir, "archive database directory")
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	rootCmd.AddCommand(archiveCmd)
}

func openStore(cmd *cobra.Command) (*archive.Store, error) {
	dir := stringOpt(cmd, "archive-dir", "archive.dir")
	return archive.NewStore(types.ArchiveConfig{Dir: dir})
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-20s  %5s  %5s  %5s  %5s\n",
		"ID", "Cluster", "Started", "Cand", "Match", "OK", "Fail")
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-20s  %5d  %5d  %5d  %5d\n",
			r.ID, r.Cluster, r.Started.Format("2006-01-02 15:04:05"),
			r.Candidates, r.Matched, r.Resolved, r.Failed)
	}
	return nil
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	d, err := store.ShowRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Run %s\n", d.ID)
	fmt.Printf("Cluster:    %s\n", d.Cluster)
	fmt.Printf("Started:    %s\n", d.Started.Format("2006-01-02 15:04:05"))
	fmt.Printf("Candidates: %d, matched: %d, resolved: %d, failed: %d\n\n",
		d.Candidates, d.Matched, d.Resolved, d.Failed)

	if len(d.Stars) > 0 {
		fmt.Printf("%-16s  %-20s  %12s  %8s  %8s  %s\n",
			"Main ID", "Gaia ID", "Source ID", "G mag", "Plx", "Flag")
		for _, s := range d.Stars {
			fmt.Printf("%-16s  %-20s  %12d  %8.4f  %8.4f  %s\n",
				s.MainID, s.GaiaID, s.SourceID, s.GMag, s.Parallax, s.VariableFlag)
		}
		fmt.Println()
	}

	for _, p := range d.Products {
		fmt.Printf("source %d: %s (%d rows)\n  %s\n", p.SourceID, p.Description, p.Rows, p.URL)
	}
	return nil
}
