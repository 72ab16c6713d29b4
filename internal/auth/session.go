package auth

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mwestby/projtrack/internal/models"
	"github.com/mwestby/projtrack/internal/services"
)

// SessionCookieName is the cookie carrying the signed user id.
const SessionCookieName = "user_id_in_cookie"

// SessionTTL is how long an issued session stays valid. 24h keeps a
// forgotten login from living forever.
const SessionTTL = 24 * time.Hour

type contextKey string

const userContextKey = contextKey("sessionUser")

// SessionManager issues and resolves signed session cookies. The cookie value
// is an HS256 JWT whose subject is the decimal user id, so the client cannot
// forge or alter it.
type SessionManager struct {
	secret []byte
	secure bool
	users  services.UserServiceProvider
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(secret string, secure bool, users services.UserServiceProvider) *SessionManager {
	return &SessionManager{secret: []byte(secret), secure: secure, users: users}
}

// Issue signs a session for the user and sets it as an HttpOnly cookie.
func (m *SessionManager) Issue(w http.ResponseWriter, user models.User) error {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Expires:  now.Add(SessionTTL),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	return nil
}

// Clear removes the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// Authenticate resolves the request's session cookie to a user.
//
// Every failure mode — missing cookie, bad signature, expired token,
// unparseable id, user deleted since the cookie was issued — degrades to the
// guest state (ok=false). It is never an error.
func (m *SessionManager) Authenticate(r *http.Request) (models.User, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return models.User{}, false
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return models.User{}, false
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return models.User{}, false
	}

	user, err := m.users.GetUserByID(userID)
	if err != nil {
		return models.User{}, false
	}
	return user, true
}

// CurrentUser is middleware that resolves the optional identity once per
// request and stashes it in the context. Guests pass through untouched.
func (m *SessionManager) CurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := m.Authenticate(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser is middleware that rejects guests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin is middleware that rejects guests and non-admins. A non-admin
// hitting an admin route is treated like an unauthenticated request.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		if !user.Admin {
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the identity resolved by CurrentUser, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}
