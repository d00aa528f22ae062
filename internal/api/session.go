package api

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/yegors/airport-readiness/internal/query"
)

const (
	sessionName      = "readiness_session"
	keyAuthenticated = "authenticated"
	keySelection     = "selection"
	keyCodes         = "selection_codes"
	keyFields        = "selection_fields"
)

// Sessions wraps the cookie store holding the login flag and the last query selection handle
type Sessions struct {
	store *sessions.CookieStore
}

// NewSessions creates a cookie-backed session store. maxAge 0 gives browser-session cookies.
func NewSessions(secret string, maxAge int, secure bool) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.Secure = secure
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	return &Sessions{store: store}
}

// session returns the request session. A cookie that fails to decode yields a fresh session.
func (s *Sessions) session(r *http.Request) *sessions.Session {
	sess, _ := s.store.Get(r, sessionName)
	return sess
}

// IsAuthenticated reports whether the request carries a logged-in session
func (s *Sessions) IsAuthenticated(r *http.Request) bool {
	ok, _ := s.session(r).Values[keyAuthenticated].(bool)
	return ok
}

// Login marks the session authenticated
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request) error {
	sess := s.session(r)
	sess.Values[keyAuthenticated] = true
	return sess.Save(r, w)
}

// Logout clears the session and expires the cookie
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	sess := s.session(r)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// SetSelection remembers the last query selection and its cache handle
func (s *Sessions) SetSelection(w http.ResponseWriter, r *http.Request, handle string, sel query.Selection) error {
	sess := s.session(r)
	sess.Values[keySelection] = handle
	sess.Values[keyCodes] = append([]string{}, sel.Codes...)
	sess.Values[keyFields] = append([]string{}, sel.Fields...)
	if err := sess.Save(r, w); err != nil {
		// A selection too large for the cookie is still reachable through the handle
		delete(sess.Values, keyCodes)
		delete(sess.Values, keyFields)
		if err2 := sess.Save(r, w); err2 != nil {
			return err2
		}
		return err
	}
	return nil
}

// Selection returns the handle of the last query selection
func (s *Sessions) Selection(r *http.Request) string {
	handle, _ := s.session(r).Values[keySelection].(string)
	return handle
}

// StoredSelection returns the last query selection kept in the cookie itself
func (s *Sessions) StoredSelection(r *http.Request) (query.Selection, bool) {
	values := s.session(r).Values
	codes, ok := values[keyCodes].([]string)
	if !ok {
		return query.Selection{}, false
	}
	fields, _ := values[keyFields].([]string)
	return query.Selection{Codes: codes, Fields: fields}, true
}
