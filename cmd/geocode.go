package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/housekg-scraper/internal/browser"
	"github.com/sells-group/housekg-scraper/internal/geocode"
)

var geocodeAddress string

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Look up coordinates for one address via Google Maps",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		session, err := browser.NewSession(ctx, browser.Config{
			Headless:    cfg.Browser.Headless,
			UserAgent:   cfg.Site.UserAgent,
			ProfileDir:  cfg.Browser.ProfileDir,
			NavTimeout:  cfg.Browser.NavTimeout(),
			SettleDelay: cfg.Browser.SettleDelay(),
		})
		if err != nil {
			return eris.Wrap(err, "start browser session")
		}
		defer session.Close()

		g := geocode.New(session, geocode.Config{
			SearchURL: cfg.Geocode.SearchURL,
			MaxWait:   cfg.Geocode.MaxWait(),
		})

		lat, lon := g.Lookup(ctx, geocodeAddress)
		if lat == nil || lon == nil {
			fmt.Printf("no coordinates found for %q\n", geocodeAddress)
			return nil
		}

		fmt.Printf("%f,%f\n", *lat, *lon)
		return nil
	},
}

func init() {
	geocodeCmd.Flags().StringVar(&geocodeAddress, "address", "", "free-text address (required)")
	_ = geocodeCmd.MarkFlagRequired("address")
	rootCmd.AddCommand(geocodeCmd)
}
