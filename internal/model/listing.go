package model

import "strconv"

// Transaction types derived from the listing breadcrumb.
const (
	TransactionSale = "sale"
	TransactionRent = "rent"
)

// errorCell is the value every cell of a failed listing's row carries.
const errorCell = "Error"

// Header returns the fixed column order of the output workbook.
func Header() []string {
	return []string{
		"Name", "Address", "Price", "Price in Som", "Price per m²",
		"Characteristics", "Property Type", "Transaction Type", "Area",
		"Latitude", "Longitude", "Description", "Property URL",
	}
}

// Listing is one scraped property advertisement, one row of output.
type Listing struct {
	Name            string
	Address         string
	PriceUSD        string
	PriceSom        string
	PricePerM2      string
	Characteristics string
	PropertyType    string
	TransactionType string
	Area            string
	Latitude        *float64
	Longitude       *float64
	Description     string
	URL             string

	// Failed marks the sentinel produced when a detail scrape blew up.
	Failed bool
}

// Row renders the listing as exactly 13 cells in Header order.
// A failed listing renders as 13 literal "Error" cells regardless of
// whatever fields were populated before the failure.
func (l Listing) Row() []string {
	if l.Failed {
		row := make([]string, len(Header()))
		for i := range row {
			row[i] = errorCell
		}
		return row
	}
	return []string{
		l.Name, l.Address, l.PriceUSD, l.PriceSom, l.PricePerM2,
		l.Characteristics, l.PropertyType, l.TransactionType, l.Area,
		formatCoord(l.Latitude), formatCoord(l.Longitude),
		l.Description, l.URL,
	}
}

// ErrorListing returns the sentinel listing for a URL whose detail scrape
// failed. The URL is retained for logging and the failure journal only; it
// does not appear in the rendered row.
func ErrorListing(url string) Listing {
	return Listing{URL: url, Failed: true}
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
