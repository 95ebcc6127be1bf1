// Package render implements the product rendering pipeline: a one-shot
// loader for the product feed plus the card, grid and filter-control
// fragments built from it.
package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/archin/storefront/pkg/types"
	"github.com/bytedance/sonic"
	"github.com/samber/lo"
)

// Loader fetches the product list once and answers category and selection
// queries over it. A transport or decode failure leaves the list empty:
// the catalog renders as empty rather than crashing, and there are no
// retries.
type Loader struct {
	client *http.Client
	url    string

	mu         sync.RWMutex
	products   []types.Product
	categories []string
}

func NewLoader(url string) *Loader {
	return &Loader{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
	}
}

// Load fetches and decodes the feed. The returned error is informational,
// the loader stays usable (empty) after a failure.
func (l *Loader) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return err
	}
	res, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("product feed returned %s", res.Status)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	var products []types.Product
	if err := sonic.Unmarshal(body, &products); err != nil {
		return fmt.Errorf("decoding product feed: %w", err)
	}

	l.SetProducts(products)
	return nil
}

// SetProducts replaces the product list and re-derives the category set
// in first-seen order. Used by Load and by tests that skip the network.
func (l *Loader) SetProducts(products []types.Product) {
	categories := lo.Uniq(lo.Map(products, func(p types.Product, _ int) string {
		return p.Category
	}))

	l.mu.Lock()
	defer l.mu.Unlock()
	l.products = products
	l.categories = categories
}

// Products returns the full list in feed order.
func (l *Loader) Products() []types.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.products
}

// Categories returns the distinct category labels in first-seen order.
func (l *Loader) Categories() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.categories
}

// ByCategory returns products matching the category label exactly. An
// empty label or "all" returns everything; an unknown label legitimately
// yields an empty result.
func (l *Loader) ByCategory(category string) []types.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if category == "" || category == "all" {
		return l.products
	}
	return lo.Filter(l.products, func(p types.Product, _ int) bool {
		return p.Category == category
	})
}

// ByArticle looks a single product up by its identifier.
func (l *Loader) ByArticle(article string) (types.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return lo.Find(l.products, func(p types.Product) bool {
		return p.Article == article
	})
}

// Popular picks at most one product per distinct category in feed order
// until count is reached, then fills remaining slots with subsequent
// not-yet-picked products. Category diversity when possible, no actual
// popularity ranking.
func (l *Loader) Popular(count int) []types.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()

	selected := make([]types.Product, 0, count)
	used := make(map[string]struct{})
	picked := make(map[string]struct{})

	for _, p := range l.products {
		if len(selected) >= count {
			break
		}
		if _, ok := used[p.Category]; ok {
			continue
		}
		used[p.Category] = struct{}{}
		picked[p.Article] = struct{}{}
		selected = append(selected, p)
	}

	if len(selected) < count {
		for _, p := range l.products {
			if len(selected) >= count {
				break
			}
			if _, ok := picked[p.Article]; ok {
				continue
			}
			picked[p.Article] = struct{}{}
			selected = append(selected, p)
		}
	}

	return selected
}
