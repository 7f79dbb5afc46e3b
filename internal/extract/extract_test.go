package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

const detailPage = `
<html><body>
<div class="breadcrumb-trail">
  <a href="/">Недвижимость</a>
  <a href="/kupit">Продажа</a>
  <a href="/kupit/kvartira">Квартиры</a>
  <a href="/details/123">2-комн. квартира, 52 м2</a>
</div>
<h1> 2-комн. квартира, 52 м2 </h1>
<div class="address">Бишкек, Асанбай м-н</div>
<div class="prices-block">
  <div class="price-dollar">$52 000</div>
  <div class="price-addition">$1 000 за м2</div>
  <div class="price-som">4 550 000 сом</div>
</div>
<div class="left">
  <div class="info-row"><div class="label"> Площадь </div><div class="info"> 52 м2 </div></div>
  <div class="info-row"><div class="label">Этаж</div><div class="info">3 из 9</div></div>
  <div class="info-row"><div class="label">Отопление</div></div>
</div>
<div class="description"><p class="comment lang-ru">Продается уютная квартира.</p></div>
</body></html>`

func TestNameAddressDescription(t *testing.T) {
	d := doc(t, detailPage)
	assert.Equal(t, "2-комн. квартира, 52 м2", Name(d))
	assert.Equal(t, "Бишкек, Асанбай м-н", Address(d))
	assert.Equal(t, "Продается уютная квартира.", Description(d))
}

func TestNameAddressDescriptionAbsent(t *testing.T) {
	d := doc(t, `<html><body><p>nothing here</p></body></html>`)
	assert.Equal(t, "N/A", Name(d))
	assert.Equal(t, "N/A", Address(d))
	assert.Equal(t, "N/A", Description(d))
}

func TestCharacteristics(t *testing.T) {
	chars := Characteristics(doc(t, detailPage))

	// Row missing its info div is skipped, the rest are kept trimmed.
	require.Len(t, chars, 2)
	assert.Equal(t, "52 м2", chars["Площадь"])
	assert.Equal(t, "3 из 9", chars["Этаж"])
}

func TestCharacteristicsEmptyPage(t *testing.T) {
	chars := Characteristics(doc(t, `<html><body></body></html>`))
	assert.Empty(t, chars)
}

func TestJoinCharacteristicsDeterministic(t *testing.T) {
	chars := map[string]string{"Этаж": "3 из 9", "Площадь": "52 м2"}
	joined := JoinCharacteristics(chars)
	assert.Equal(t, "Площадь: 52 м2; Этаж: 3 из 9", joined)
	// Same input always renders the same blob.
	assert.Equal(t, joined, JoinCharacteristics(chars))
}

func TestArea(t *testing.T) {
	assert.Equal(t, "52 м2", Area(map[string]string{"Площадь": "52 м2"}))
	assert.Equal(t, "-", Area(map[string]string{"Этаж": "3"}))
	assert.Equal(t, "-", Area(nil))
}

func TestPropertyType(t *testing.T) {
	assert.Equal(t, "Квартиры", PropertyType(doc(t, detailPage)))
}

func TestPropertyTypeDegrades(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no breadcrumb", `<html><body><h1>x</h1></body></html>`},
		{"single link", `<html><body><div class="breadcrumb-trail"><a href="/">Недвижимость</a></div></body></html>`},
		{"empty trail", `<html><body><div class="breadcrumb-trail"></div></body></html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "N/A", PropertyType(doc(t, tt.html)))
		})
	}
}

func TestTransactionType(t *testing.T) {
	assert.Equal(t, "sale", TransactionType(doc(t, detailPage)))

	rentPage := `<html><body><div class="breadcrumb-trail">
		<a href="/">Недвижимость</a><a href="/snyat">Аренда</a>
	</div></body></html>`
	assert.Equal(t, "rent", TransactionType(doc(t, rentPage)))

	// No breadcrumb at all defaults to rent.
	assert.Equal(t, "rent", TransactionType(doc(t, `<html><body></body></html>`)))
}

func TestPrices(t *testing.T) {
	usd, som, perM2 := Prices(doc(t, detailPage))
	assert.Equal(t, "$52 000", usd)
	assert.Equal(t, "4 550 000 сом", som)
	assert.Equal(t, "$1 000 за м2", perM2)
}

func TestPricesMissingDollarNode(t *testing.T) {
	page := `<html><body><div class="prices-block">
		<div class="price-som">4 550 000 сом</div>
	</div></body></html>`

	usd, som, perM2 := Prices(doc(t, page))
	assert.Equal(t, "N/A", usd)
	assert.Equal(t, "N/A", perM2)
	// Som price is read independently of the dollar node.
	assert.Equal(t, "4 550 000 сом", som)
}

func TestPricesNoBlock(t *testing.T) {
	usd, som, perM2 := Prices(doc(t, `<html><body></body></html>`))
	assert.Equal(t, "N/A", usd)
	assert.Equal(t, "N/A", som)
	assert.Equal(t, "N/A", perM2)
}

func TestPricesDollarWithoutSibling(t *testing.T) {
	page := `<html><body><div class="prices-block">
		<div class="price-dollar">$52 000</div>
	</div></body></html>`

	usd, _, perM2 := Prices(doc(t, page))
	assert.Equal(t, "$52 000", usd)
	assert.Equal(t, "N/A", perM2)
}
