package render

import (
	"fmt"
	"html"
	"html/template"
	"net/url"
	"strings"

	"github.com/archin/storefront/pkg/types"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var categoryIcons = map[string]string{
	"Штукатурки":             "🏗️",
	"Шпатлевки":              "🎨",
	"Декоративные шпатлевки": "✨",
	"Краски":                 "🖌️",
	"Грунты":                 "🧪",
	"Плиточные клеи":         "🧱",
	"Гидроизоляция":          "💧",
}

var categoryLabels = map[string]string{
	"all":                    "Все товары",
	"Декоративные шпатлевки": "Декоративные",
	"Плиточные клеи":         "Клеи",
}

// CategoryIcon returns the icon for a category, with a box for anything
// the closed set does not know.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return "📦"
}

// CategoryLabel returns the short filter-button label for a category,
// falling back to the raw category name.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return category
}

var pricePrinter = message.NewPrinter(language.Russian)

// FormatPrice renders a price the way the cards display it: grouped
// thousands, no fraction digits.
func FormatPrice(v float64) string {
	return pricePrinter.Sprintf("%.0f", v)
}

const compactCardTemplate = `<article class="product-card" data-article="{{.Article}}">
    <div class="product-image">{{.Icon}}</div>
    <div class="product-body">
        <div class="product-category">{{.Category}}</div>
        <h3 class="product-name">{{.Name}}</h3>
        <div class="product-footer">
            <div class="product-price">{{.Price}} <span>₽</span></div>
            <a href="{{.OrderLink}}" class="btn btn-primary btn-sm">Заказать</a>
        </div>
    </div>
</article>`

const fullCardTemplate = `<article class="product-card product-card-full" data-article="{{.Article}}">
    <div class="product-image">{{.Icon}}</div>
    <div class="product-body">
        <div class="product-category">{{.Category}}</div>
        <h3 class="product-name">{{.Name}}</h3>
        <p class="product-desc">{{.Description}}</p>
        <div class="product-footer">
            <div class="product-price">{{.Price}} <span>₽</span></div>
            <a href="{{.OrderLink}}" class="btn btn-primary">Оставить заявку</a>
        </div>
    </div>
</article>`

const filterButtonTemplate = `<button class="filter-btn{{if .Active}} active{{end}}" data-category="{{.Category}}">{{.Label}}</button>`

type cardData struct {
	Article     string
	Icon        string
	Category    string
	Name        string
	Description string
	Price       string
	OrderLink   template.URL
}

type filterButtonData struct {
	Category string
	Label    string
	Active   bool
}

// Mode selects the card variant. Full cards carry the sanitized
// description and the detailed call to action.
type Mode int

const (
	Compact Mode = iota
	Full
)

// Renderer produces the HTML fragments the pages consume. It is safe for
// concurrent use, all state is immutable after construction.
type Renderer struct {
	compact   *template.Template
	full      *template.Template
	filterBtn *template.Template
	sanitizer *bluemonday.Policy
	// orders go out as a prefilled mail, there is no checkout
	orderEmail string
}

func NewRenderer(orderEmail string) *Renderer {
	return &Renderer{
		compact:    template.Must(template.New("card").Parse(compactCardTemplate)),
		full:       template.Must(template.New("card-full").Parse(fullCardTemplate)),
		filterBtn:  template.Must(template.New("filter-btn").Parse(filterButtonTemplate)),
		sanitizer:  bluemonday.StrictPolicy(),
		orderEmail: orderEmail,
	}
}

// Card renders one product in the requested mode. The fragment embeds the
// article as a data attribute for DOM-level lookups.
func (r *Renderer) Card(p types.Product, mode Mode) (template.HTML, error) {
	price := FormatPrice(p.Price)
	data := cardData{
		Article:   p.Article,
		Icon:      CategoryIcon(p.Category),
		Category:  p.Category,
		Name:      p.Name,
		Price:     price,
		OrderLink: r.orderLink(p, price),
	}

	tmpl := r.compact
	if mode == Full {
		tmpl = r.full
		data.Description = r.CleanDescription(p.Description)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}

// Grid renders a card fragment per product and concatenates them into the
// grid container's content.
func (r *Renderer) Grid(products []types.Product, mode Mode) (template.HTML, error) {
	var b strings.Builder
	for _, p := range products {
		fragment, err := r.Card(p, mode)
		if err != nil {
			return "", err
		}
		b.WriteString(string(fragment))
	}
	return template.HTML(b.String()), nil
}

// CategoryFilters renders the rebuildable filter control: an "all" button
// followed by one per category, the active one marked.
func (r *Renderer) CategoryFilters(categories []string, active string) (template.HTML, error) {
	if active == "" {
		active = "all"
	}
	var b strings.Builder
	for _, category := range append([]string{"all"}, categories...) {
		err := r.filterBtn.Execute(&b, filterButtonData{
			Category: category,
			Label:    CategoryLabel(category),
			Active:   category == active,
		})
		if err != nil {
			return "", err
		}
	}
	return template.HTML(b.String()), nil
}

// CleanDescription reduces the feed's rich text to plain text for card
// display: markup stripped, non-breaking-space entities collapsed.
func (r *Renderer) CleanDescription(description string) string {
	text := strings.ReplaceAll(description, "&nbsp;", " ")
	text = r.sanitizer.Sanitize(text)
	return strings.TrimSpace(html.UnescapeString(text))
}

// orderLink builds the prefilled mailto URL. Every user-facing value is
// URL-encoded before interpolation.
func (r *Renderer) orderLink(p types.Product, price string) template.URL {
	name := encodeComponent(p.Name)
	body := fmt.Sprintf("Товар: %s%%0AЦена: %s ₽%%0AАртикул: %s%%0A%%0AУкажите количество и контактные данные:",
		name, encodeComponent(price), encodeComponent(p.Article))
	return template.URL(fmt.Sprintf("mailto:%s?subject=Заявка: %s&body=%s", r.orderEmail, name, body))
}

// encodeComponent matches encodeURIComponent: query escaping with %20 for
// spaces instead of plus signs.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// CardsFor projects products into the engine's working set the same way
// the rendered markup displays them: the price as formatted text only.
func CardsFor(products []types.Product) []*types.Card {
	cards := make([]*types.Card, len(products))
	for i, p := range products {
		cards[i] = &types.Card{
			Article:   p.Article,
			Title:     p.Name,
			Category:  p.Category,
			PriceText: FormatPrice(p.Price) + " ₽",
			Visible:   true,
		}
	}
	return cards
}
