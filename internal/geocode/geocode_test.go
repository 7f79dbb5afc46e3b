package geocode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBrowser plays back a sequence of resolved locations.
type fakeBrowser struct {
	navigated []string
	navErr    error
	locations []string
	locIdx    int
}

func (f *fakeBrowser) Fetch(context.Context, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeBrowser) Navigate(_ context.Context, url string) error {
	f.navigated = append(f.navigated, url)
	return f.navErr
}

func (f *fakeBrowser) Location(context.Context) (string, error) {
	if len(f.locations) == 0 {
		return "", nil
	}
	loc := f.locations[f.locIdx]
	if f.locIdx < len(f.locations)-1 {
		f.locIdx++
	}
	return loc, nil
}

func fastConfig() Config {
	return Config{MaxWait: 50 * time.Millisecond, PollInterval: 5 * time.Millisecond}
}

func TestLookupParsesResolvedURL(t *testing.T) {
	fb := &fakeBrowser{locations: []string{
		"https://www.google.com/maps/search/%D0%91%D0%B8%D1%88%D0%BA%D0%B5%D0%BA",
		"https://www.google.com/maps/place/Bishkek/@42.874621,74.569762,15z/data=x",
	}}
	g := New(fb, fastConfig())

	lat, lon := g.Lookup(context.Background(), "Бишкек Асанбай")

	require.NotNil(t, lat)
	require.NotNil(t, lon)
	assert.InDelta(t, 42.874621, *lat, 1e-9)
	assert.InDelta(t, 74.569762, *lon, 1e-9)

	// Spaces in the address become plus signs in the search URL.
	require.Len(t, fb.navigated, 1)
	assert.Equal(t, "https://www.google.com/maps/search/Бишкек+Асанбай", fb.navigated[0])
}

func TestLookupMissReturnsNils(t *testing.T) {
	fb := &fakeBrowser{locations: []string{"https://www.google.com/maps/search/nowhere"}}
	g := New(fb, fastConfig())

	lat, lon := g.Lookup(context.Background(), "no such place")
	assert.Nil(t, lat)
	assert.Nil(t, lon)
}

func TestLookupNavigationFailureIsNotFatal(t *testing.T) {
	fb := &fakeBrowser{navErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	g := New(fb, fastConfig())

	lat, lon := g.Lookup(context.Background(), "Бишкек")
	assert.Nil(t, lat)
	assert.Nil(t, lon)
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		location string
		wantOK   bool
		wantLat  float64
		wantLon  float64
	}{
		{
			name:     "standard place url",
			location: "https://www.google.com/maps/place/X/@42.874621,74.569762,15z/data=abc",
			wantOK:   true,
			wantLat:  42.874621,
			wantLon:  74.569762,
		},
		{
			name:     "negative coordinates",
			location: "https://maps.google.com/@-33.868820,151.209290,12z",
			wantOK:   true,
			wantLat:  -33.868820,
			wantLon:  151.209290,
		},
		{
			name:     "no coordinate fragment",
			location: "https://www.google.com/maps/search/somewhere",
			wantOK:   false,
		},
		{
			name:     "integer-only fragment does not match",
			location: "https://www.google.com/maps/@42,74",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, ok := ParseCoordinates(tt.location)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantLat, lat, 1e-9)
				assert.InDelta(t, tt.wantLon, lon, 1e-9)
			}
		})
	}
}
