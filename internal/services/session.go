package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/manraj-ms/accounts-api/types"
)

const defaultSessionTTL = time.Hour

// UserRepository defines persistence operations for users and their
// session ledgers.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	ListByMobileNumber(ctx context.Context, mobileNumber string) ([]types.User, error)
	ListAll(ctx context.Context) ([]types.User, error)
	AppendSessionToken(ctx context.Context, id int, token string) error
	RemoveSessionToken(ctx context.Context, id int, token string) (bool, error)
}

// SessionService owns the per-user session-token ledger: it issues
// signed tokens, revokes them, and decides whether a presented token is
// currently authorized. The ledger lives on the user record in the
// store, so revocation survives restarts and works across instances.
type SessionService struct {
	repo   UserRepository
	secret []byte
	ttl    time.Duration
}

func NewSessionService(repo UserRepository, jwtSecret string) *SessionService {
	return &SessionService{
		repo:   repo,
		secret: []byte(jwtSecret),
		ttl:    defaultSessionTTL,
	}
}

// Issue signs a new session token bound to the user's email, appends it
// to the user's ledger, and returns the token with its expiry. Expired
// ledger entries are pruned on the way so the array does not grow
// without bound when logouts are skipped.
func (s *SessionService) Issue(ctx context.Context, user types.User) (string, time.Time, error) {
	s.pruneExpired(ctx, user)

	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   user.Email,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	if err := s.repo.AppendSessionToken(ctx, user.ID, signed); err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Revoke removes the token from the user's ledger and reports whether
// a removal occurred.
func (s *SessionService) Revoke(ctx context.Context, user types.User, token string) (bool, error) {
	return s.repo.RemoveSessionToken(ctx, user.ID, token)
}

// Authorize reports whether the token is currently valid for the user:
// signature checks out, the embedded expiry has not passed, and the
// token is still present in the user's ledger.
func (s *SessionService) Authorize(user types.User, token string) bool {
	if _, err := s.parseSubject(token, true); err != nil {
		return false
	}
	return slices.Contains(user.SessionTokens, token)
}

// TokenEmail extracts the email claim from a token after verifying its
// signature. Expiry is deliberately not checked: logout must be able to
// revoke a token that has already expired.
func (s *SessionService) TokenEmail(token string) (string, error) {
	return s.parseSubject(token, false)
}

func (s *SessionService) parseSubject(tokenString string, validateClaims bool) (string, error) {
	claims := jwt.RegisteredClaims{}
	opts := []jwt.ParserOption{}
	if !validateClaims {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}

func (s *SessionService) pruneExpired(ctx context.Context, user types.User) {
	for _, token := range user.SessionTokens {
		if _, err := s.parseSubject(token, true); err != nil {
			// Each removal is its own atomic update; a failure here
			// only delays pruning until the next login.
			_, _ = s.repo.RemoveSessionToken(ctx, user.ID, token)
		}
	}
}
