package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaspa-ecosystem/discovery/internal/simulate"
)

var (
	simURL          string
	simInteractions int
	simWorkers      int
	simSeed         uint64
	simDuplicates   float64
	simTop          int
	simJSON         bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Send synthetic interactions to a running service and report the resulting lists",
	Args:  cobra.NoArgs,
	RunE:  runSimulate,
}

func init() {
	def := simulate.DefaultConfig()
	simulateCmd.Flags().StringVar(&simURL, "url", def.BaseURL, "base URL of the discovery service")
	simulateCmd.Flags().IntVar(&simInteractions, "interactions", def.Interactions, "number of interactions to send")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", def.Workers, "concurrent submitters")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", def.Seed, "generator seed")
	simulateCmd.Flags().Float64Var(&simDuplicates, "duplicates", def.DuplicateRate, "share of submissions that replay an earlier event id")
	simulateCmd.Flags().IntVar(&simTop, "top", def.TopN, "length of the lists read back")
	simulateCmd.Flags().BoolVar(&simJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg := simulate.DefaultConfig()
	cfg.BaseURL = simURL
	cfg.Interactions = simInteractions
	cfg.Workers = simWorkers
	cfg.Seed = simSeed
	cfg.DuplicateRate = simDuplicates
	cfg.TopN = simTop

	stats, err := simulate.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if simJSON {
		return printJSON(out, stats)
	}

	w := newTabWriter(out)
	fmt.Fprintf(w, "Generated:\t%d\n", stats.Generated)
	fmt.Fprintf(w, "Recorded:\t%d\n", stats.Recorded)
	fmt.Fprintf(w, "Duplicate:\t%d\n", stats.Duplicate)
	fmt.Fprintf(w, "Failed:\t%d\n", stats.Failed)
	types := make([]string, 0, len(stats.ByType))
	for t := range stats.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %s:\t%d\n", t, stats.ByType[t])
	}
	fmt.Fprintf(w, "Trending:\t%s\n", strings.Join(stats.Trending, ", "))
	fmt.Fprintf(w, "Recommendations:\t%s\n", strings.Join(stats.Recommendations, ", "))
	fmt.Fprintf(w, "Duration:\t%s\n", stats.Duration.Round(time.Millisecond))
	return w.Flush()
}
