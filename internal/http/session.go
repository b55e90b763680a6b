package http

import (
	"net/http"

	"tracker/internal/log"
	"tracker/internal/session"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "tracker_session"

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves the caller's session, starting a new seeded one when
// the cookie is missing or stale.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}

		sess, created, err := s.sessions.Resolve(r.Context(), id)
		if err != nil {
			log.FromContext(r.Context()).ErrorContext(r.Context(), "Session resolve failed", log.FieldError, err)
			InternalServerError("Could not start a session").Write(w)
			return
		}
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}

		logger := log.FromContext(r.Context()).With(log.FieldSessionID, sess.ID)
		next(w, r.WithContext(log.WithContext(r.Context(), logger)), sess)
	}
}
