package web

import (
	"encoding/json"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/sprayshop/pkg/authstate"
	"github.com/dmitrymomot/sprayshop/pkg/identity"
	"github.com/dmitrymomot/sprayshop/pkg/logger"
)

// SessionView is the session state as seen by the UI.
type SessionView struct {
	authstate.State
	DisplayName   string `json:"display_name,omitempty"`
	Administrator bool   `json:"administrator"`
}

func newSessionView(st authstate.State) SessionView {
	return SessionView{
		State:         st,
		DisplayName:   st.DisplayName(),
		Administrator: st.IsAdministrator(),
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, newSessionView(s.session.State()))
}

// streamState patches the "session" signal on every state change until the
// client disconnects. Slow clients only get the latest state.
func (s *Server) streamState(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := make(chan authstate.State, 1)
	unsubscribe := s.session.Subscribe(func(st authstate.State) {
		for {
			select {
			case updates <- st:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case st := <-updates:
			data, err := json.Marshal(map[string]SessionView{"session": newSessionView(st)})
			if err != nil {
				s.logger.ErrorContext(r.Context(), "failed to encode session signals", logger.Error(err))
				return
			}
			if err := sse.PatchSignals(data); err != nil {
				s.logger.DebugContext(r.Context(), "session stream closed", logger.Error(err))
				return
			}
		}
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	_, err := s.auth.Register(r.Context(), identity.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, newSessionView(s.session.State()))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if _, err := s.auth.SignIn(r.Context(), req.Email, req.Password); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, newSessionView(s.session.State()))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.auth.SignOut(r.Context())
	s.respond(w, http.StatusOK, newSessionView(s.session.State()))
}

func (s *Server) googleRedirect(w http.ResponseWriter, r *http.Request) {
	url, err := s.auth.GoogleAuthURL(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// googleCallback completes the Google sign-in and sends the browser home.
func (s *Server) googleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("error") != "" {
		s.fail(w, r, identity.ErrOAuthCancelled)
		return
	}

	if _, err := s.auth.SignInWithGoogle(r.Context(), q.Get("code"), q.Get("state")); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
