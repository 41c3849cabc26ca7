package usecases

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"lifeops-server/apperr"
	"lifeops-server/auth"
	"lifeops-server/entities"
	"lifeops-server/repositories"
)

var errBadCredentials = apperr.Unauthorized("invalid email or password")

type AuthUseCase struct {
	users      repositories.UserRepository
	sessions   repositories.SessionRepository
	tokens     *auth.TokenIssuer
	sessionTTL time.Duration
	clock      Clock
}

func NewAuthUseCase(users repositories.UserRepository, sessions repositories.SessionRepository, tokens *auth.TokenIssuer, sessionTTL time.Duration, clock Clock) *AuthUseCase {
	return &AuthUseCase{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		clock:      clock,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < auth.MinPasswordLength {
		return apperr.Validation("password must be at least 8 characters")
	}
	if len(password) > auth.MaxPasswordLength {
		return apperr.Validation("password must be at most 72 bytes")
	}
	return nil
}

// Register creates a FREE account with a password.
func (uc *AuthUseCase) Register(ctx context.Context, name, email, password string) (*entities.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("email must be a valid email address")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("email is already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user := &entities.User{Email: email, Name: name, PasswordHash: &hash, Plan: entities.PlanFree}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.Conflict("email is already registered")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// Login checks credentials. Unknown email, wrong password and password-less
// accounts all fail the same way.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, errBadCredentials
	}
	return user, nil
}

func (uc *AuthUseCase) IssueTokens(user *entities.User) (auth.TokenPair, error) {
	pair, err := uc.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return auth.TokenPair{}, apperr.Internal(err)
	}
	return pair, nil
}

// Refresh trades a refresh token for a new pair. Only tokens whose type
// claim is "refresh" are accepted.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*entities.User, auth.TokenPair, error) {
	claims, err := uc.tokens.Parse(refreshToken, auth.TypeRefresh)
	if err != nil {
		return nil, auth.TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}
	user, err := uc.UserByID(ctx, claims.Subject)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	pair, err := uc.IssueTokens(user)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return user, pair, nil
}

// UserByID loads the current user row. A token or session pointing at a
// deleted user is treated as unauthenticated.
func (uc *AuthUseCase) UserByID(ctx context.Context, id string) (*entities.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Unauthorized("unauthorized")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// StartSession stores a new browser session and returns the raw cookie token.
func (uc *AuthUseCase) StartSession(ctx context.Context, userID string) (string, time.Time, error) {
	token, err := auth.NewOpaqueToken()
	if err != nil {
		return "", time.Time{}, apperr.Internal(err)
	}
	expires := uc.clock.Now().Add(uc.sessionTTL).UTC()
	session := &entities.Session{TokenHash: auth.HashToken(token), UserID: userID, ExpiresAt: expires}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, apperr.Internal(err)
	}
	return token, expires, nil
}

func (uc *AuthUseCase) EndSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := uc.sessions.DeleteByTokenHash(ctx, auth.HashToken(token)); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
