package services

import (
	"context"
	"errors"
	"time"

	"github.com/manraj-ms/accounts-api/internal/store"
	"github.com/manraj-ms/accounts-api/internal/validate"
	"github.com/manraj-ms/accounts-api/types"
	"golang.org/x/crypto/bcrypt"
)

// AccountService encapsulates the account use-cases: registration,
// credential login, logout, and user lookup.
type AccountService struct {
	repo     UserRepository
	sessions *SessionService
}

func NewAccountService(repo UserRepository, sessions *SessionService) *AccountService {
	return &AccountService{repo: repo, sessions: sessions}
}

// RegisterParams carries the fields required to create an account.
type RegisterParams struct {
	Name         string
	Email        string
	Address      string
	Password     string
	MobileNumber string
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// Register validates the input, hashes the password, and creates the
// user with an empty session ledger. Fields are checked in a fixed
// order and the first failure wins.
func (s *AccountService) Register(ctx context.Context, p RegisterParams) (types.UserSummary, error) {
	if p.Name == "" || p.Email == "" || p.Address == "" || p.Password == "" || p.MobileNumber == "" {
		return types.UserSummary{}, errInvalidInput("All fields are required")
	}
	if !validate.Name(p.Name) {
		return types.UserSummary{}, errInvalidInput("Name must be at least 3 characters long")
	}
	if !validate.Email(p.Email) {
		return types.UserSummary{}, errInvalidInput("Invalid email format")
	}
	if !validate.Address(p.Address) {
		return types.UserSummary{}, errInvalidInput("Address must be at least 10 characters long")
	}
	if !validate.Password(p.Password) {
		return types.UserSummary{}, errInvalidInput("Password must be at least 7 characters long and contain at least one special character")
	}
	if !validate.MobileNumber(p.MobileNumber) {
		return types.UserSummary{}, errInvalidInput("Invalid mobile number")
	}

	if _, err := s.repo.GetByEmail(ctx, p.Email); err == nil {
		return types.UserSummary{}, errConflict("Email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.UserSummary{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.UserSummary{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Name:         p.Name,
		Email:        p.Email,
		Address:      p.Address,
		PasswordHash: string(hashed),
		MobileNumber: p.MobileNumber,
	})
	if err != nil {
		// The unique index is the arbiter when two registrations race
		// past the lookup above.
		if errors.Is(err, store.ErrDuplicateEmail) {
			return types.UserSummary{}, errConflict("Email already exists")
		}
		return types.UserSummary{}, err
	}
	return user.Summary(), nil
}

// Login verifies the credentials and issues a new session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, errInvalidInput("Email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, errUnauthenticated("Invalid email or password")
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, errUnauthenticated("Invalid email or password")
	}

	token, expiresAt, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Email: user.Email, ExpiresAt: expiresAt}, nil
}

// Logout revokes the session token and returns the owning email. A
// token that cannot be resolved to a tracked session is a not-found
// failure, never an internal one.
func (s *AccountService) Logout(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errInvalidInput("Token is required for logout")
	}

	email, err := s.sessions.TokenEmail(token)
	if err != nil {
		return "", errNotFound("Session not found")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", errNotFound("Session not found")
		}
		return "", err
	}

	removed, err := s.sessions.Revoke(ctx, user, token)
	if err != nil {
		return "", err
	}
	if !removed {
		return "", errNotFound("Session not found")
	}
	return user.Email, nil
}

// FindByEmail loads a user for the auth gate.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// ListByMobileNumber returns the names of every user whose mobile
// number matches exactly. The number is always validated; zero matches
// is a success with an empty list.
func (s *AccountService) ListByMobileNumber(ctx context.Context, mobileNumber string) ([]string, error) {
	if !validate.MobileNumber(mobileNumber) {
		return nil, errInvalidInput("Invalid mobile number format")
	}

	users, err := s.repo.ListByMobileNumber(ctx, mobileNumber)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(users))
	for _, user := range users {
		names = append(names, user.Name)
	}
	return names, nil
}

// ListAll returns every user projected onto the API-safe summary type.
func (s *AccountService) ListAll(ctx context.Context) ([]types.UserSummary, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]types.UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, user.Summary())
	}
	return summaries, nil
}
