package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"lifeops-server/entities"
)

// ErrUnauthenticated is returned by providers when the request carries no
// usable credential.
var ErrUnauthenticated = errors.New("unauthenticated")

// Provider resolves the user id behind a request. Browser and mobile clients
// use different providers; everything past the provider is shared.
type Provider interface {
	Authenticate(r *http.Request) (string, error)
}

// SessionLookup finds a session by token hash.
type SessionLookup interface {
	GetByTokenHash(ctx context.Context, hash string) (*entities.Session, error)
}

// SessionProvider authenticates browser requests by session cookie.
type SessionProvider struct {
	sessions SessionLookup
	now      func() time.Time
}

func NewSessionProvider(sessions SessionLookup, now func() time.Time) *SessionProvider {
	if now == nil {
		now = time.Now
	}
	return &SessionProvider{sessions: sessions, now: now}
}

func (p *SessionProvider) Authenticate(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", ErrUnauthenticated
	}
	session, err := p.sessions.GetByTokenHash(r.Context(), HashToken(cookie.Value))
	if err != nil {
		return "", ErrUnauthenticated
	}
	if !p.now().Before(session.ExpiresAt) {
		return "", ErrUnauthenticated
	}
	return session.UserID, nil
}

// BearerProvider authenticates mobile requests by access token.
type BearerProvider struct {
	tokens *TokenIssuer
}

func NewBearerProvider(tokens *TokenIssuer) *BearerProvider {
	return &BearerProvider{tokens: tokens}
}

func (p *BearerProvider) Authenticate(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrUnauthenticated
	}
	claims, err := p.tokens.Parse(strings.TrimSpace(token), TypeAccess)
	if err != nil {
		return "", ErrUnauthenticated
	}
	return claims.Subject, nil
}
