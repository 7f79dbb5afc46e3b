// Package geocode resolves free-text addresses to coordinates by driving
// the browser session to a Google Maps search and reading the coordinates
// out of the URL the search redirects to. Best effort only: a miss yields
// absent coordinates, never an error.
package geocode

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/housekg-scraper/internal/browser"
)

const defaultSearchURL = "https://www.google.com/maps/search/"

// coordPattern matches the "@lat,lon" fragment Maps embeds in resolved URLs.
var coordPattern = regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`)

// Config controls the lookup's redirect wait.
type Config struct {
	SearchURL string
	// MaxWait bounds how long to wait for the client-side redirect to
	// produce a coordinate-bearing URL.
	MaxWait time.Duration
	// PollInterval is how often the resolved location is re-read.
	PollInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.SearchURL == "" {
		c.SearchURL = defaultSearchURL
	}
	if c.MaxWait == 0 {
		c.MaxWait = 5 * time.Second
	}
	if c.PollInterval == 0 {
		c.PollInterval = 250 * time.Millisecond
	}
	return c
}

// Geocoder shares the scrape's browser session; it must not be used
// concurrently with other navigation.
type Geocoder struct {
	browser browser.Fetcher
	cfg     Config
}

// New creates a Geocoder on top of an existing browser session.
func New(b browser.Fetcher, cfg Config) *Geocoder {
	return &Geocoder{browser: b, cfg: cfg.withDefaults()}
}

// Lookup geocodes a free-text address. It returns nil coordinates and logs
// a warning when the resolved URL never carries an "@lat,lon" fragment;
// the caller's scrape continues either way.
func (g *Geocoder) Lookup(ctx context.Context, address string) (lat, lon *float64) {
	searchURL := g.cfg.SearchURL + strings.ReplaceAll(address, " ", "+")

	if err := g.browser.Navigate(ctx, searchURL); err != nil {
		zap.L().Warn("geocode: maps navigation failed",
			zap.String("address", address),
			zap.Error(err),
		)
		return nil, nil
	}

	deadline := time.Now().Add(g.cfg.MaxWait)
	for {
		loc, err := g.browser.Location(ctx)
		if err == nil {
			if la, lo, ok := ParseCoordinates(loc); ok {
				return &la, &lo
			}
		}

		if time.Now().After(deadline) || ctx.Err() != nil {
			break
		}

		timer := time.NewTimer(g.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, nil
		case <-timer.C:
		}
	}

	zap.L().Warn("geocode: no coordinates for address", zap.String("address", address))
	return nil, nil
}

// ParseCoordinates extracts the "@lat,lon" pair from a Maps URL.
func ParseCoordinates(location string) (lat, lon float64, ok bool) {
	m := coordPattern.FindStringSubmatch(location)
	if m == nil {
		return 0, 0, false
	}

	lat, errLat := strconv.ParseFloat(m[1], 64)
	lon, errLon := strconv.ParseFloat(m[2], 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
