package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/housekg-scraper/internal/config"
	"github.com/sells-group/housekg-scraper/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "housekg-scraper",
	Short: "house.kg listing extractor",
	Long:  "Walks house.kg index pages, scrapes each listing through a browser session, geocodes addresses via Google Maps, and writes one XLSX row per listing.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// initStore opens the run journal selected by config.
func initStore(cmd *cobra.Command) (store.Store, error) {
	if cfg.Store.Driver != "sqlite" {
		return store.Noop{}, nil
	}
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
