package types

import "github.com/archin/storefront/pkg/price"

// Card is the rendered projection of a product: the catalog engine never
// sees structured price data, only the text the card displays. This keeps
// the engine usable over statically authored markup where no product feed
// exists at all.
type Card struct {
	Article  string `json:"article"`
	Title    string `json:"title"`
	Category string `json:"category"`
	// PriceText is the full displayed price text, possibly containing a
	// struck-through old price in front of the current one.
	PriceText string `json:"priceText"`
	// NewPriceText is the dedicated "new price" sub-element. When present
	// it is authoritative and PriceText is not consulted.
	NewPriceText string `json:"newPriceText,omitempty"`
	Visible      bool   `json:"visible"`
	// Detached marks a card that is no longer part of the document. Such
	// cards are skipped when toggling visibility.
	Detached bool `json:"-"`
}

// ResolvedPrice derives the authoritative numeric price from the card's
// displayed text. The nested new-price text wins when present, otherwise
// the last number in the combined price text does.
func (c *Card) ResolvedPrice() (float64, bool) {
	if c.NewPriceText != "" {
		return price.Parse(c.NewPriceText)
	}
	return price.Parse(c.PriceText)
}
