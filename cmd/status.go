package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/housekg-scraper/internal/monitoring"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent scrape runs from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store.Driver != "sqlite" {
			return eris.New("status: run journal disabled (store.driver is not sqlite)")
		}

		st, err := initStore(cmd)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close()

		runs, err := st.ListRuns(cmd.Context(), statusLimit)
		if err != nil {
			return eris.Wrap(err, "list runs")
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tPAGES\tSTATUS\tLISTINGS\tFAILURES\tERROR")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%d-%d\t%s\t%d\t%d\t%s\n",
				r.CreatedAt.Format("2006-01-02 15:04"),
				r.StartPage, r.EndPage,
				r.Status, r.Listings, r.Failures, r.Error,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		snap, err := monitoring.NewCollector(st).Collect(cmd.Context(), statusLimit)
		if err != nil {
			return eris.Wrap(err, "collect metrics")
		}
		fmt.Printf("\n%d runs: %d complete, %d failed; %d listings, %d sentinel rows (%.1f%% failure rate)\n",
			snap.RunsTotal, snap.RunsComplete, snap.RunsFailed,
			snap.Listings, snap.Failures, snap.FailRate*100,
		)
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 20, "max runs to show")
	rootCmd.AddCommand(statusCmd)
}
