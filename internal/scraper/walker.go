// Package scraper turns index pages into listing URLs and listing URLs
// into output records.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/housekg-scraper/internal/config"
	"github.com/sells-group/housekg-scraper/internal/fetcher"
)

// WalkPage fetches one listing index page and returns the listing URLs it
// links to, in source order, resolved against the site's base origin.
// Unlike detail scraping, failure here is loud: an index page is required
// before any detail work can happen, so transport or parse errors propagate.
func WalkPage(ctx context.Context, f *fetcher.HTTPFetcher, site config.SiteConfig, page int) ([]string, error) {
	pageURL := fmt.Sprintf("%s&page=%d", site.ListingsURL, page)
	zap.L().Info("scraping index page", zap.Int("page", page), zap.String("url", pageURL))

	body, err := f.Get(ctx, pageURL)
	if err != nil {
		return nil, eris.Wrapf(err, "walker: fetch index page %d", page)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrapf(err, "walker: parse index page %d", page)
	}

	base, err := url.Parse(site.BaseURL)
	if err != nil {
		return nil, eris.Wrapf(err, "walker: parse base url %s", site.BaseURL)
	}

	var urls []string
	doc.Find("div.left-image").Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Find("a").First().Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			zap.L().Warn("walker: skipping malformed listing href",
				zap.Int("page", page),
				zap.String("href", href),
			)
			return
		}
		urls = append(urls, base.ResolveReference(ref).String())
	})

	return urls, nil
}
