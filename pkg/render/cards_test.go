package render

import (
	"strings"
	"testing"

	"github.com/archin/storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProduct = types.Product{
	Article:     "SH-449",
	Name:        "Штукатурка гипсовая",
	Category:    "Штукатурки",
	Price:       1234.5,
	Description: "<p>Для внутренних&nbsp;работ.</p> <b>30 кг</b>",
}

func TestCardFragment(t *testing.T) {
	r := NewRenderer("sales@example.ru")

	fragment, err := r.Card(testProduct, Compact)
	require.NoError(t, err)
	html := string(fragment)

	assert.Contains(t, html, `data-article="SH-449"`)
	assert.Contains(t, html, "product-card")
	assert.Contains(t, html, "Штукатурка гипсовая")
	assert.Contains(t, html, "Заказать")
	assert.NotContains(t, html, "product-desc", "compact card must omit the description")
}

func TestFullCardFragment(t *testing.T) {
	r := NewRenderer("sales@example.ru")

	fragment, err := r.Card(testProduct, Full)
	require.NoError(t, err)
	html := string(fragment)

	assert.Contains(t, html, "product-card-full")
	assert.Contains(t, html, "Для внутренних работ. 30 кг")
	assert.NotContains(t, html, "<p>", "markup must be stripped from the description")
	assert.NotContains(t, html, "&nbsp;")
	assert.Contains(t, html, "Оставить заявку")
}

func TestOrderLinkIsEncoded(t *testing.T) {
	r := NewRenderer("sales@example.ru")

	fragment, err := r.Card(testProduct, Compact)
	require.NoError(t, err)
	html := string(fragment)

	assert.Contains(t, html, "mailto:sales@example.ru")
	assert.NotContains(t, html, "body=Товар: Штукатурка гипсовая", "name must be URL-encoded in the link")
	assert.Contains(t, html, "%20", "spaces must encode as %20, not +")
}

func TestCleanDescription(t *testing.T) {
	r := NewRenderer("sales@example.ru")

	assert.Equal(t, "Для внутренних работ. 30 кг", r.CleanDescription(testProduct.Description))
	assert.Equal(t, "", r.CleanDescription(""))
	assert.Equal(t, "без разметки", r.CleanDescription("без разметки"))
}

func TestCategoryFilters(t *testing.T) {
	r := NewRenderer("sales@example.ru")

	fragment, err := r.CategoryFilters([]string{"Штукатурки", "Плиточные клеи", "Неизвестная"}, "")
	require.NoError(t, err)
	html := string(fragment)

	assert.Equal(t, 4, strings.Count(html, "filter-btn"))
	assert.Contains(t, html, `data-category="all"`)
	assert.Contains(t, html, "Все товары")
	assert.Contains(t, html, "Клеи", "known categories use the short label")
	assert.Contains(t, html, "Неизвестная", "unknown categories fall back to the raw name")
	assert.Equal(t, 1, strings.Count(html, "active"))
}

func TestGrid(t *testing.T) {
	r := NewRenderer("sales@example.ru")
	products := productsInCategories("A", "B")

	fragment, err := r.Grid(products, Full)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(fragment), "<article"))
}

func TestCategoryIconFallback(t *testing.T) {
	assert.Equal(t, "🏗️", CategoryIcon("Штукатурки"))
	assert.Equal(t, "📦", CategoryIcon("Что-то новое"))
}

func TestCardsForKeepsDisplayContract(t *testing.T) {
	cards := CardsFor([]types.Product{testProduct})
	require.Len(t, cards, 1)

	assert.Equal(t, "SH-449", cards[0].Article)
	// the engine re-parses the displayed text, the round trip must keep the
	// integral price (display drops fraction digits)
	v, ok := cards[0].ResolvedPrice()
	require.True(t, ok)
	assert.InDelta(t, 1234, v, 1)
}
