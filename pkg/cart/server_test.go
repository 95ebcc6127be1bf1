package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func counterOf(t *testing.T, res *httptest.ResponseRecorder) int64 {
	t.Helper()
	var body counterResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("invalid counter response: %v", err)
	}
	return body.Count
}

func TestCounterRoundTrip(t *testing.T) {
	srv := &CartServer{Storage: NewMemoryCounterStorage()}

	// first contact mints a cart cookie
	res := httptest.NewRecorder()
	srv.GetCounter(res, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if got := counterOf(t, res); got != 0 {
		t.Errorf("expected empty cart, got %d", got)
	}
	cookies := res.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "cartid" {
		t.Fatalf("expected a cartid cookie, got %v", cookies)
	}

	add := httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(`{"quantity":2}`))
	add.AddCookie(cookies[0])
	res = httptest.NewRecorder()
	srv.AddToCounter(res, add)
	if got := counterOf(t, res); got != 2 {
		t.Errorf("expected counter 2, got %d", got)
	}

	get := httptest.NewRequest(http.MethodGet, "/cart", nil)
	get.AddCookie(cookies[0])
	res = httptest.NewRecorder()
	srv.GetCounter(res, get)
	if got := counterOf(t, res); got != 2 {
		t.Errorf("expected counter 2 after re-read, got %d", got)
	}
}

func TestAddDefaultsToOne(t *testing.T) {
	srv := &CartServer{Storage: NewMemoryCounterStorage()}

	add := httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(`{"quantity":-5}`))
	add.AddCookie(&http.Cookie{Name: "cartid", Value: "abc"})
	res := httptest.NewRecorder()
	srv.AddToCounter(res, add)
	if got := counterOf(t, res); got != 1 {
		t.Errorf("expected counter 1, got %d", got)
	}
}
