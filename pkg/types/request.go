package types

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
)

type SortKey string

const (
	SortPopular   SortKey = "popular"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortName      SortKey = "name"
)

func (s SortKey) Valid() bool {
	switch s {
	case SortPopular, SortPriceAsc, SortPriceDesc, SortName:
		return true
	}
	return false
}

// DefaultPageSize matches the six cards per page the catalog grid shows.
const DefaultPageSize = 6

// CatalogRequest is a filter/sort/page query against the catalog engine.
// Min and Max are nil when the bound is absent or not a number, matching
// how empty filter inputs behave. The page size is fixed per engine and
// not part of the request.
type CatalogRequest struct {
	Min  *float64 `json:"min" schema:"-"`
	Max  *float64 `json:"max" schema:"-"`
	Sort SortKey  `json:"sort" schema:"sort,default:popular"`
	Page int      `json:"page" schema:"page"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (r *CatalogRequest) Sanitize() {
	if !r.Sort.Valid() {
		r.Sort = SortPopular
	}
	r.Page = clamp(r.Page, 1, 10000)
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
}

// CatalogRequestFromHTTP decodes a request from query parameters (GET) or
// a JSON body (anything else).
func CatalogRequestFromHTTP(r *http.Request) (*CatalogRequest, error) {
	cr := &CatalogRequest{Sort: SortPopular, Page: 1}
	var err error
	if r.Method == http.MethodGet {
		err = requestFromQuery(r.URL.Query(), cr)
	} else {
		err = json.NewDecoder(r.Body).Decode(cr)
	}
	cr.Sanitize()
	return cr, err
}

func requestFromQuery(query url.Values, result *CatalogRequest) error {
	if err := decoder.Decode(result, query); err != nil {
		return err
	}
	result.Min = parseBound(query.Get("min"))
	result.Max = parseBound(query.Get("max"))
	return nil
}

// parseBound mirrors the filter inputs: blank or unparseable text means no
// bound at all, not a zero bound.
func parseBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
