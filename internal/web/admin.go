package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/sprayshop/pkg/catalog"
	"github.com/dmitrymomot/sprayshop/pkg/logger"
)

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.admin.Dashboard(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, d)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.admin.ListUsers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, users)
}

func (s *Server) changeRole(w http.ResponseWriter, r *http.Request) {
	var req changeRoleRequest
	if err := decode(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.admin.ChangeRole(r.Context(), chi.URLParam(r, "id"), req.Role); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := decode(r, w, &p); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.products.CreateProduct(r.Context(), &p); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.InfoContext(r.Context(), "product created", logger.ProductID(p.ID))
	s.respond(w, http.StatusCreated, p)
}
