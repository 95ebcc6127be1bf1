package types

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Product is one record from the product feed. The list is fetched once
// per process and treated as read only after that.
type Product struct {
	Article     string  `json:"article"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// UnmarshalJSON tolerates the feed carrying article and price as either
// numbers or strings, it is not consistent about it.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw struct {
		Article     json.RawMessage `json:"article"`
		Name        string          `json:"name"`
		Category    string          `json:"category"`
		Price       json.RawMessage `json:"price"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Name = raw.Name
	p.Category = raw.Category
	p.Description = raw.Description
	p.Article = string(bytes.Trim(raw.Article, `"`))

	if len(raw.Price) > 0 {
		priceText := string(bytes.Trim(raw.Price, `"`))
		v, err := strconv.ParseFloat(priceText, 64)
		if err != nil {
			return err
		}
		p.Price = v
	}
	return nil
}
