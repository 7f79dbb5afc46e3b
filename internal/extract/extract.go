// Package extract holds the per-field extractors for a listing detail page.
// Every extractor is total: a structurally absent element resolves to the
// field's documented default, never to an error.
package extract

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/housekg-scraper/internal/model"
)

const (
	// NotAvailable is the default for text fields whose element is absent.
	NotAvailable = "N/A"

	// AreaMissing is the default when the characteristics table has no area row.
	AreaMissing = "-"

	// areaLabel is the characteristics key the area is published under.
	areaLabel = "Площадь"

	// saleMarker is the breadcrumb token house.kg uses for sale listings.
	saleMarker = "Продажа"
)

// Name returns the listing title from the page's h1.
func Name(doc *goquery.Document) string {
	return textOrDefault(doc.Find("h1").First(), NotAvailable)
}

// Address returns the listing's street address.
func Address(doc *goquery.Document) string {
	return textOrDefault(doc.Find("div.address").First(), NotAvailable)
}

// Description returns the Russian-language listing description.
func Description(doc *goquery.Document) string {
	desc := doc.Find("div.description").First()
	if desc.Length() == 0 {
		return NotAvailable
	}
	return textOrDefault(desc.Find("p.comment.lang-ru").First(), NotAvailable)
}

// Characteristics scans every labeled info row on the page and returns the
// trimmed label → trimmed value mapping. Duplicate labels overwrite. A page
// with no characteristics section yields an empty map.
func Characteristics(doc *goquery.Document) map[string]string {
	pairs := make(map[string]string)
	doc.Find("div.left").Each(func(_ int, section *goquery.Selection) {
		section.Find("div.info-row").Each(func(_ int, row *goquery.Selection) {
			label := row.Find("div.label").First()
			value := row.Find("div.info").First()
			if label.Length() == 0 || value.Length() == 0 {
				return
			}
			pairs[strings.TrimSpace(label.Text())] = strings.TrimSpace(value.Text())
		})
	})
	return pairs
}

// JoinCharacteristics flattens a characteristics map into a single
// "key: value; ..." blob. Keys are sorted so re-runs over an unchanged page
// produce identical output.
func JoinCharacteristics(chars map[string]string) string {
	keys := make([]string, 0, len(chars))
	for k := range chars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+chars[k])
	}
	return strings.Join(parts, "; ")
}

// Area looks the listing's area up in the characteristics map.
func Area(chars map[string]string) string {
	if v, ok := chars[areaLabel]; ok {
		return v
	}
	return AreaMissing
}

// PropertyType reads the category level of the breadcrumb trail: the
// second-to-last link, one above the leaf listing title. Anything short of
// two links degrades to "N/A".
func PropertyType(doc *goquery.Document) string {
	links := doc.Find("div.breadcrumb-trail").First().Find("a")
	if links.Length() < 2 {
		return NotAvailable
	}
	return strings.TrimSpace(links.Eq(links.Length() - 2).Text())
}

// TransactionType decides sale vs rent by scanning the breadcrumb trail for
// the sale marker. This is a locale-specific substring heuristic kept behind
// this one function so it can be swapped for a structured lookup if the site
// ever exposes one; rent is the default.
func TransactionType(doc *goquery.Document) string {
	trail := doc.Find("div.breadcrumb-trail").First()
	if trail.Length() > 0 && strings.Contains(trail.Text(), saleMarker) {
		return model.TransactionSale
	}
	return model.TransactionRent
}

// Prices reads the three price fields out of the prices block. Each falls
// back to "N/A" independently: a missing dollar node does not disturb the
// som price. The per-m² figure lives in the sibling element immediately
// after the dollar price, so its presence depends on the dollar node's.
func Prices(doc *goquery.Document) (usd, som, perM2 string) {
	usd, som, perM2 = NotAvailable, NotAvailable, NotAvailable

	block := doc.Find("div.prices-block").First()
	if block.Length() == 0 {
		return
	}

	dollar := block.Find("div.price-dollar").First()
	if dollar.Length() > 0 {
		usd = strings.TrimSpace(dollar.Text())
		perM2 = textOrDefault(dollar.NextFiltered("div"), NotAvailable)
	}

	som = textOrDefault(block.Find("div.price-som").First(), NotAvailable)
	return
}

func textOrDefault(sel *goquery.Selection, def string) string {
	if sel.Length() == 0 {
		return def
	}
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return def
	}
	return text
}
