package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/sprayshop/pkg/cart"
)

// CartView is a cart with its computed totals.
type CartView struct {
	Items []cart.Item `json:"items"`
	Count int         `json:"count"`
	Total float64     `json:"total"`
}

func newCartView(c cart.Cart) CartView {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return CartView{Items: items, Count: c.Count(), Total: c.Total()}
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := s.carts.Get(r.Context(), s.userID())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, newCartView(c))
}

// cartCount feeds the header badge, so it reports zero instead of failing
// when nobody is signed in.
func (s *Server) cartCount(w http.ResponseWriter, r *http.Request) {
	uid := s.userID()
	if uid == "" {
		s.respond(w, http.StatusOK, map[string]int{"count": 0})
		return
	}

	n, err := s.carts.Count(r.Context(), uid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]int{"count": n})
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decode(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	p, err := s.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	c, err := s.carts.Add(r.Context(), s.userID(), *p, req.Quantity)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, newCartView(c))
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decode(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	c, found, err := s.carts.UpdateQuantity(r.Context(), s.userID(), chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !found {
		s.fail(w, r, ErrItemNotFound)
		return
	}
	s.respond(w, http.StatusOK, newCartView(c))
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c, _, err := s.carts.Remove(r.Context(), s.userID(), chi.URLParam(r, "productID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, newCartView(c))
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := s.carts.Clear(r.Context(), s.userID()); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
