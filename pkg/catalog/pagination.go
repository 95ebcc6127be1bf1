package catalog

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/archin/storefront/pkg/types"
)

// Result is what one engine operation produces: the visible window, the
// clamped page position and the pagination control model. TotalItems lets
// callers render their own empty state, the engine itself stays silent on
// empty result sets.
type Result struct {
	Items      []*types.Card `json:"items"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	TotalItems int           `json:"totalItems"`
	Sort       types.SortKey `json:"sort"`
	Pagination []PageLink    `json:"pagination"`
}

// PageLink is one pagination control. Next marks the forward affordance
// shown after the numeric links.
type PageLink struct {
	Page   int  `json:"page"`
	Active bool `json:"active"`
	Next   bool `json:"next,omitempty"`
}

// paginationLinks builds the control model: one link per page with the
// current page marked active, plus a next affordance when not on the last
// page. A single page renders no controls at all.
func paginationLinks(current, total int) []PageLink {
	if total <= 1 {
		return nil
	}
	links := make([]PageLink, 0, total+1)
	for i := 1; i <= total; i++ {
		links = append(links, PageLink{Page: i, Active: i == current})
	}
	if current < total {
		links = append(links, PageLink{Page: current + 1, Next: true})
	}
	return links
}

const nextArrow = `<svg width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><polyline points="9,18 15,12 9,6"></polyline></svg>`

// PaginationHTML renders the control links as a fragment for the
// pagination container. The container is fully rewritten on every change,
// so the fragment is the complete control.
func (r Result) PaginationHTML() template.HTML {
	var b strings.Builder
	for _, link := range r.Pagination {
		class := "pagination-link"
		if link.Active {
			class += " active"
		}
		label := fmt.Sprintf("%d", link.Page)
		if link.Next {
			label = nextArrow
		}
		fmt.Fprintf(&b, `<a href="#" class="%s" data-page="%d">%s</a>`, class, link.Page, label)
	}
	return template.HTML(b.String())
}
