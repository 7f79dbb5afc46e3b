package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/housekg-scraper/internal/browser"
	"github.com/sells-group/housekg-scraper/internal/extract"
	"github.com/sells-group/housekg-scraper/internal/model"
)

// AddressLocator is the geocoding capability the detail scraper needs.
type AddressLocator interface {
	Lookup(ctx context.Context, address string) (lat, lon *float64)
}

// Detail scrapes one listing URL into one output record.
type Detail struct {
	browser browser.Fetcher
	locator AddressLocator
}

// NewDetail creates a detail scraper sharing the run's browser session.
func NewDetail(b browser.Fetcher, locator AddressLocator) *Detail {
	return &Detail{browser: b, locator: locator}
}

// Scrape fetches and extracts one listing. It never returns an error: any
// failure inside the fetch/parse sequence is logged and collapses to the
// sentinel all-"Error" record, so one malformed listing cannot take the
// batch down. Field-level absences are handled inside the extractors and
// are not failures.
func (d *Detail) Scrape(ctx context.Context, url string) model.Listing {
	html, err := d.browser.Fetch(ctx, url)
	if err != nil {
		zap.L().Error("detail scrape failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return model.ErrorListing(url)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		zap.L().Error("detail parse failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return model.ErrorListing(url)
	}

	chars := extract.Characteristics(doc)
	usd, som, perM2 := extract.Prices(doc)
	address := extract.Address(doc)

	var lat, lon *float64
	if d.locator != nil {
		lat, lon = d.locator.Lookup(ctx, address)
	}

	return model.Listing{
		Name:            extract.Name(doc),
		Address:         address,
		PriceUSD:        usd,
		PriceSom:        som,
		PricePerM2:      perM2,
		Characteristics: extract.JoinCharacteristics(chars),
		PropertyType:    extract.PropertyType(doc),
		TransactionType: extract.TransactionType(doc),
		Area:            extract.Area(chars),
		Latitude:        lat,
		Longitude:       lon,
		Description:     extract.Description(doc),
		URL:             url,
	}
}
