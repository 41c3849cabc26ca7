package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lifeops-server/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-test-secret-test-secret!"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(&hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(&hash, "wrong horse"), ErrPasswordMismatch)
	assert.ErrorIs(t, CheckPassword(nil, "correct horse"), ErrPasswordMismatch)
}

func TestTokenPair(t *testing.T) {
	issuer := NewTokenIssuer(secret, 15*time.Minute, 24*time.Hour)
	pair, err := issuer.Issue("user-1", "a@x.com")
	require.NoError(t, err)

	claims, err := issuer.Parse(pair.AccessToken, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)

	_, err = issuer.Parse(pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)

	_, err = issuer.Parse(pair.AccessToken, TypeRefresh)
	assert.ErrorIs(t, err, ErrWrongType)
	_, err = issuer.Parse(pair.RefreshToken, TypeAccess)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestTokenRejections(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	issuer := NewTokenIssuer(secret, time.Minute, time.Hour).WithClock(func() time.Time { return now })
	pair, err := issuer.Issue("user-1", "a@x.com")
	require.NoError(t, err)

	now = start.Add(2 * time.Minute)
	_, err = issuer.Parse(pair.AccessToken, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenIssuer("another-secret-another-secret-xx", time.Minute, time.Hour).WithClock(func() time.Time { return now })
	_, err = other.Parse(pair.RefreshToken, TypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-jwt", TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestOpaqueToken(t *testing.T) {
	a, err := NewOpaqueToken()
	require.NoError(t, err)
	b, err := NewOpaqueToken()
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
	assert.Len(t, HashToken(a), 64)
	assert.Equal(t, HashToken(a), HashToken(a))
}

type fakeSessions map[string]*entities.Session

func (f fakeSessions) GetByTokenHash(_ context.Context, hash string) (*entities.Session, error) {
	if s, ok := f[hash]; ok {
		return s, nil
	}
	return nil, errors.New("not found")
}

func TestSessionProvider(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions := fakeSessions{
		HashToken("live"):    {UserID: "u1", ExpiresAt: now.Add(time.Hour)},
		HashToken("expired"): {UserID: "u2", ExpiresAt: now},
	}
	p := NewSessionProvider(sessions, func() time.Time { return now })

	req := func(cookie string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != "" {
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
		}
		return r
	}

	id, err := p.Authenticate(req("live"))
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	for _, c := range []string{"", "expired", "unknown"} {
		_, err := p.Authenticate(req(c))
		assert.ErrorIs(t, err, ErrUnauthenticated, c)
	}
}

func TestBearerProvider(t *testing.T) {
	issuer := NewTokenIssuer(secret, time.Minute, time.Hour)
	pair, err := issuer.Issue("user-9", "z@x.com")
	require.NoError(t, err)
	p := NewBearerProvider(issuer)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	id, err := p.Authenticate(r)
	require.NoError(t, err)
	assert.Equal(t, "user-9", id)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer " + pair.RefreshToken} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if h != "" {
			r.Header.Set("Authorization", h)
		}
		_, err := p.Authenticate(r)
		assert.ErrorIs(t, err, ErrUnauthenticated, h)
	}
}
