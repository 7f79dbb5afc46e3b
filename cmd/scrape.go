package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/housekg-scraper/internal/browser"
	"github.com/sells-group/housekg-scraper/internal/export"
	"github.com/sells-group/housekg-scraper/internal/fetcher"
	"github.com/sells-group/housekg-scraper/internal/geocode"
	"github.com/sells-group/housekg-scraper/internal/pipeline"
	"github.com/sells-group/housekg-scraper/internal/scraper"
)

var (
	scrapeStart int
	scrapeEnd   int
	scrapeOut   string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape a range of listing index pages into an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		start := scrapeStart
		if start == 0 {
			start = cfg.Pipeline.StartPage
		}
		end := scrapeEnd
		if end == 0 {
			end = cfg.Pipeline.EndPage
		}
		outPath := scrapeOut
		if outPath == "" {
			outPath = cfg.Output.Path
		}

		st, err := initStore(cmd)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close()

		sink, err := export.NewXLSX(outPath, cfg.Output.SheetName)
		if err != nil {
			return eris.Wrap(err, "init sink")
		}

		// One browser session for the whole range, released on every exit
		// path including a fatal index-page failure.
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

		geocoder := geocode.New(session, geocode.Config{
			SearchURL: cfg.Geocode.SearchURL,
			MaxWait:   cfg.Geocode.MaxWait(),
		})
		detail := scraper.NewDetail(session, geocoder)
		httpFetcher := fetcher.New(fetcher.Options{
			UserAgent:    cfg.Site.UserAgent,
			RateLimiters: fetcher.DefaultRateLimiters(),
		})

		p := pipeline.New(cfg, httpFetcher, detail, sink, st)

		result, err := p.Run(ctx, start, end)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("scrape complete",
			zap.String("output", sink.Path()),
			zap.Int("pages", result.Pages),
			zap.Int("listings", result.Listings),
			zap.Int("failures", result.Failures),
		)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().IntVar(&scrapeStart, "start", 0, "first index page (default from config)")
	scrapeCmd.Flags().IntVar(&scrapeEnd, "end", 0, "last index page, inclusive (default from config)")
	scrapeCmd.Flags().StringVar(&scrapeOut, "out", "", "output workbook path (default from config)")
	rootCmd.AddCommand(scrapeCmd)
}
