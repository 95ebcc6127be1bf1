package cart

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
)

type CartServer struct {
	Storage CounterStorage
}

type counterResponse struct {
	Count int64 `json:"count"`
}

type addRequest struct {
	Quantity int64 `json:"quantity"`
}

// handleCartCookie returns the visitor's cart id, minting one when the
// cookie is missing or empty.
func handleCartCookie(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie("cartid")
	if err == nil && c.Value != "" {
		return c.Value
	}
	cartId := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     "cartid",
		Value:    cartId,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(counterTTL.Seconds()),
	})
	return cartId
}

// GetCounter reports the badge count for the visitor's cart.
func (s *CartServer) GetCounter(w http.ResponseWriter, r *http.Request) {
	cartId := handleCartCookie(w, r)
	count, err := s.Storage.Get(r.Context(), cartId)
	if err != nil {
		log.Printf("failed to read cart counter: %v", err)
		count = 0
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(counterResponse{Count: count}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// AddToCounter bumps the badge count. A missing or invalid body counts a
// single item, matching the add-to-cart buttons.
func (s *CartServer) AddToCounter(w http.ResponseWriter, r *http.Request) {
	cartId := handleCartCookie(w, r)

	add := addRequest{Quantity: 1}
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&add); err != nil || add.Quantity < 1 {
			add.Quantity = 1
		}
	}

	count, err := s.Storage.Add(r.Context(), cartId, add.Quantity)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error updating cart"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(counterResponse{Count: count}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
