// Package pipeline drives the whole scrape: page range in, workbook out.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/housekg-scraper/internal/config"
	"github.com/sells-group/housekg-scraper/internal/export"
	"github.com/sells-group/housekg-scraper/internal/fetcher"
	"github.com/sells-group/housekg-scraper/internal/model"
	"github.com/sells-group/housekg-scraper/internal/scraper"
	"github.com/sells-group/housekg-scraper/internal/store"
)

// DetailScraper scrapes one listing URL into one record, sentinel on failure.
type DetailScraper interface {
	Scrape(ctx context.Context, url string) model.Listing
}

// Result summarizes one completed run.
type Result struct {
	RunID    string
	Pages    int
	Listings int
	Failures int
}

// Pipeline owns the scrape loop. The browser session's lifecycle belongs to
// the caller; the pipeline only borrows it through the detail scraper.
type Pipeline struct {
	cfg     *config.Config
	http    *fetcher.HTTPFetcher
	detail  DetailScraper
	sink    export.Sink
	journal store.Store
}

// New assembles a pipeline.
func New(cfg *config.Config, httpFetcher *fetcher.HTTPFetcher, detail DetailScraper, sink export.Sink, journal store.Store) *Pipeline {
	if journal == nil {
		journal = store.Noop{}
	}
	return &Pipeline{cfg: cfg, http: httpFetcher, detail: detail, sink: sink, journal: journal}
}

// Run scrapes pages [start, end] in ascending order, appending one row per
// listing in discovery order. Listing-level failures become sentinel rows
// and the loop continues; an index-page failure is fatal and halts the run
// with the rows accumulated so far unsaved unless a checkpoint already
// flushed them. The workbook is always saved once at end of range.
func (p *Pipeline) Run(ctx context.Context, start, end int) (*Result, error) {
	if start < 1 || end < start {
		return nil, eris.Errorf("pipeline: invalid page range [%d, %d]", start, end)
	}

	run, err := p.journal.CreateRun(ctx, start, end)
	if err != nil {
		// The journal is an audit aid, never a reason to skip a scrape.
		zap.L().Warn("pipeline: run journal unavailable", zap.Error(err))
		run = &model.Run{}
	}

	res := &Result{RunID: run.ID}

	var prefetched [][]string
	if p.cfg.Pipeline.PrefetchPages {
		prefetched, err = p.prefetchIndexPages(ctx, start, end)
		if err != nil {
			return p.fail(ctx, run.ID, res, err)
		}
	}

	checkpointEvery := p.cfg.Output.CheckpointEveryPages

	for page := start; page <= end; page++ {
		var urls []string
		if prefetched != nil {
			urls = prefetched[page-start]
		} else {
			urls, err = scraper.WalkPage(ctx, p.http, p.cfg.Site, page)
			if err != nil {
				return p.fail(ctx, run.ID, res, err)
			}
		}

		for _, url := range urls {
			listing := p.detail.Scrape(ctx, url)
			p.sink.Append(listing.Row())

			if listing.Failed {
				res.Failures++
				if jErr := p.journal.RecordFailure(ctx, run.ID, url, "detail scrape failed"); jErr != nil {
					zap.L().Warn("pipeline: journal failure record", zap.Error(jErr))
				}
			} else {
				res.Listings++
			}
		}

		res.Pages++
		if checkpointEvery > 0 && res.Pages%checkpointEvery == 0 {
			if fErr := p.sink.Flush(); fErr != nil {
				zap.L().Warn("pipeline: checkpoint flush failed", zap.Int("page", page), zap.Error(fErr))
			}
		}
	}

	if err := p.sink.Flush(); err != nil {
		return p.fail(ctx, run.ID, res, eris.Wrap(err, "pipeline: final flush"))
	}

	if jErr := p.journal.CompleteRun(ctx, run.ID, res.Listings, res.Failures); jErr != nil {
		zap.L().Warn("pipeline: journal run completion", zap.Error(jErr))
	}

	zap.L().Info("pipeline complete",
		zap.Int("pages", res.Pages),
		zap.Int("listings", res.Listings),
		zap.Int("failures", res.Failures),
	)
	return res, nil
}

// prefetchIndexPages walks all index pages concurrently. Detail scraping
// afterwards stays strictly sequential and ordered: only the network-bound
// index fetches run in parallel.
func (p *Pipeline) prefetchIndexPages(ctx context.Context, start, end int) ([][]string, error) {
	pages := make([][]string, end-start+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for page := start; page <= end; page++ {
		g.Go(func() error {
			urls, err := scraper.WalkPage(gctx, p.http, p.cfg.Site, page)
			if err != nil {
				return err
			}
			pages[page-start] = urls
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (p *Pipeline) fail(ctx context.Context, runID string, res *Result, err error) (*Result, error) {
	zap.L().Error("pipeline halted", zap.Error(err))
	if jErr := p.journal.FailRun(ctx, runID, err.Error(), res.Listings, res.Failures); jErr != nil {
		zap.L().Warn("pipeline: journal run failure", zap.Error(jErr))
	}
	return nil, err
}
