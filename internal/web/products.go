package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/sprayshop/pkg/catalog"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listing, err := catalog.ListSprays(r.Context(), s.products, catalog.Filter{
		Genders: splitValues(q["gender"]),
		Brands:  splitValues(q["brand"]),
		Query:   q.Get("q"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, listing)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.products.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, p)
}

// splitValues accepts both repeated and comma separated query values.
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
