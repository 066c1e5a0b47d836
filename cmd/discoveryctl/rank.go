package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	service "github.com/kaspa-ecosystem/discovery/internal/app"
	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/internal/domain/scoring"
)

var (
	rankMode  string
	rankLimit int
	rankJSON  bool
)

var rankCmd = &cobra.Command{
	Use:       "rank [trending|recommendations]",
	Short:     "Compute a ranked list from the configured project source",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(model.KindTrending), string(model.KindRecommendations)},
	RunE:      runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankMode, "mode", "", "weight profile: balanced, trending_focus, personal_focus, exploration")
	rankCmd.Flags().IntVarP(&rankLimit, "limit", "n", 0, "number of projects to list (default from config)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	if rankLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	var mode scoring.Mode
	if rankMode != "" {
		m, err := scoring.ParseMode(rankMode)
		if err != nil {
			return err
		}
		mode = m
	}

	ctx := cmd.Context()
	return withService(ctx, cmd, func(svc *service.Service) error {
		disc := svc.Discovery()
		var trending, recs model.Ranking
		if mode != "" {
			var err error
			if trending, recs, err = disc.SetMode(ctx, mode, rankLimit); err != nil {
				return err
			}
		} else {
			trending, recs = disc.Refresh(ctx, rankLimit)
		}
		r := trending
		if model.Kind(args[0]) == model.KindRecommendations {
			r = recs
		}
		if rankJSON {
			return printJSON(cmd.OutOrStdout(), r)
		}
		return printRanking(cmd, r)
	})
}

func printRanking(cmd *cobra.Command, r model.Ranking) error {
	out := cmd.OutOrStdout()
	if r.Unavailable {
		fmt.Fprintf(out, "%s unavailable: %s\n", r.Kind, r.Reason)
		return nil
	}
	if len(r.Items) == 0 {
		fmt.Fprintf(out, "No projects to rank.\n")
		return nil
	}
	fmt.Fprintf(out, "%s (%s)\n", r.Kind, r.Mode)
	w := newTabWriter(out)
	fmt.Fprintln(w, "#\tID\tNAME\tCATEGORY\tSCORE")
	for i, it := range r.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			i+1, it.Project.ID, it.Project.Name, it.Project.Category,
			strconv.FormatFloat(it.Score, 'f', 3, 64))
	}
	return w.Flush()
}
