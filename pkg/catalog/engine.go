// Package catalog implements the filter/sort/pagination engine over a
// fixed working set of product cards. The engine only reads the text the
// cards display, so it works the same over cards produced by the render
// pipeline or authored by hand.
package catalog

import (
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/archin/storefront/pkg/types"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PriceFilter holds the active price bounds. A nil bound is inactive and
// matches everything, including cards with no parseable price.
type PriceFilter struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Matches reports whether a card satisfies the active bounds. A card with
// an unparseable price never satisfies an active bound but passes when no
// bound is set.
func (f *PriceFilter) Matches(card *types.Card) bool {
	if f.Min == nil && f.Max == nil {
		return true
	}
	v, ok := card.ResolvedPrice()
	if f.Min != nil && (!ok || v < *f.Min) {
		return false
	}
	if f.Max != nil && (!ok || v > *f.Max) {
		return false
	}
	return true
}

// Engine owns the working set for one catalog page. The working set order
// is fixed for the engine's lifetime and defines popularity order. All
// mutable state (active filter, sort key, current page) is confined here.
type Engine struct {
	mu       sync.RWMutex
	working  []*types.Card
	position map[*types.Card]int

	filter  PriceFilter
	sortKey types.SortKey
	page    int
	perPage int

	// filtered+sorted sequence, cached until the filter or sort changes so
	// page navigation does not re-derive it.
	sequence []*types.Card

	collator *collate.Collator
}

func NewEngine(cards []*types.Card, perPage int) *Engine {
	if perPage < 1 {
		perPage = types.DefaultPageSize
	}
	position := make(map[*types.Card]int, len(cards))
	for i, c := range cards {
		position[c] = i
	}
	e := &Engine{
		working:  cards,
		position: position,
		sortKey:  types.SortPopular,
		page:     1,
		perPage:  perPage,
		collator: collate.New(language.Russian, collate.IgnoreCase),
	}
	e.sequence = e.filteredLocked()
	e.showPageLocked(1)
	return e
}

// PerPage returns the fixed page size.
func (e *Engine) PerPage() int {
	return e.perPage
}

// WorkingSet returns the cards in popularity order.
func (e *Engine) WorkingSet() []*types.Card {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.working)
}

// filteredLocked derives the filtered set in working-set order. Filtering
// never reorders.
func (e *Engine) filteredLocked() []*types.Card {
	result := make([]*types.Card, 0, len(e.working))
	for _, card := range e.working {
		if e.filter.Matches(card) {
			result = append(result, card)
		}
	}
	return result
}

// sortedLocked sorts a copy of the filtered set by the current sort key.
// Cards without a parseable price rank as 0 in the price sorts, which
// floats them to the top of ascending order. That matches the behavior the
// site always had and is kept on purpose.
func (e *Engine) sortedLocked(filtered []*types.Card) []*types.Card {
	sorted := slices.Clone(filtered)
	resolved := func(c *types.Card) float64 {
		v, _ := c.ResolvedPrice()
		return v
	}
	switch e.sortKey {
	case types.SortPriceAsc:
		slices.SortStableFunc(sorted, func(a, b *types.Card) int {
			return cmpFloat(resolved(a), resolved(b))
		})
	case types.SortPriceDesc:
		slices.SortStableFunc(sorted, func(a, b *types.Card) int {
			return cmpFloat(resolved(b), resolved(a))
		})
	case types.SortName:
		slices.SortStableFunc(sorted, func(a, b *types.Card) int {
			return e.collator.CompareString(trimmedTitle(a), trimmedTitle(b))
		})
	default:
		// popularity is defined as the original working-set order, not an
		// actual popularity score
		slices.SortStableFunc(sorted, func(a, b *types.Card) int {
			return e.position[a] - e.position[b]
		})
	}
	return sorted
}

// ApplyFilter replaces the active price bounds, recomputes the filtered
// sequence under the current sort key and resets to page one.
func (e *Engine) ApplyFilter(min, max *float64) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = PriceFilter{Min: min, Max: max}
	e.sequence = e.sortedLocked(e.filteredLocked())
	return e.showPageLocked(1)
}

// ApplySort changes the sort key, rewrites the grid order to the sorted
// filtered sequence and resets to page one. Cards outside the filtered
// set fall out of the grid until a later sort brings them back, same as
// the original container rewrite did.
func (e *Engine) ApplySort(key types.SortKey) Result {
	if !key.Valid() {
		key = types.SortPopular
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sortKey = key
	e.sequence = e.sortedLocked(e.filteredLocked())
	inGrid := make(map[*types.Card]struct{}, len(e.sequence))
	for _, card := range e.sequence {
		inGrid[card] = struct{}{}
	}
	for _, card := range e.working {
		_, attached := inGrid[card]
		card.Detached = !attached
	}
	return e.showPageLocked(1)
}

// GoToPage shows the requested page of the cached filtered+sorted
// sequence. The page is clamped, requesting a page past the end lands on
// the last one.
func (e *Engine) GoToPage(page int) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.showPageLocked(page)
}

// Current re-renders the current page without touching any state.
func (e *Engine) Current() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.showPageLocked(e.page)
}

// Filter returns the active bounds.
func (e *Engine) Filter() PriceFilter {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.filter
}

// SortKey returns the active sort key.
func (e *Engine) SortKey() types.SortKey {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sortKey
}

// showPageLocked computes the page window, updates card visibility and
// builds the pagination model.
func (e *Engine) showPageLocked(page int) Result {
	total := totalPages(len(e.sequence), e.perPage)
	page = clampPage(page, total)
	e.page = page

	for _, card := range e.working {
		card.Visible = false
	}

	start := (page - 1) * e.perPage
	end := min(start+e.perPage, len(e.sequence))
	window := e.sequence[start:end]
	for _, card := range window {
		if card.Detached {
			continue
		}
		card.Visible = true
	}

	return Result{
		Items:      slices.Clone(window),
		Page:       page,
		TotalPages: total,
		TotalItems: len(e.sequence),
		Sort:       e.sortKey,
		Pagination: paginationLinks(page, total),
	}
}

func totalPages(count, perPage int) int {
	if count == 0 {
		return 1
	}
	return int(math.Ceil(float64(count) / float64(perPage)))
}

func clampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

func cmpFloat(a, b float64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func trimmedTitle(c *types.Card) string {
	return strings.TrimSpace(c.Title)
}
