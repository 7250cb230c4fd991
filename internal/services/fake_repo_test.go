package services

import (
	"context"
	"slices"
	"sync"

	"github.com/manraj-ms/accounts-api/internal/store"
	"github.com/manraj-ms/accounts-api/types"
)

// fakeUserRepo is an in-memory UserRepository for service tests. The
// mutex mirrors the store's per-row atomicity for ledger mutations.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int]*types.User{}}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return cloneUser(*user), nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return cloneUser(*user), nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	user.ID = f.nextID
	f.nextID++
	if user.SessionTokens == nil {
		user.SessionTokens = []string{}
	}
	stored := cloneUser(user)
	f.users[user.ID] = &stored
	return cloneUser(stored), nil
}

func (f *fakeUserRepo) ListByMobileNumber(ctx context.Context, mobileNumber string) ([]types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := []types.User{}
	for id := 1; id < f.nextID; id++ {
		if user, ok := f.users[id]; ok && user.MobileNumber == mobileNumber {
			matches = append(matches, cloneUser(*user))
		}
	}
	return matches, nil
}

func (f *fakeUserRepo) ListAll(ctx context.Context) ([]types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := []types.User{}
	for id := 1; id < f.nextID; id++ {
		if user, ok := f.users[id]; ok {
			all = append(all, cloneUser(*user))
		}
	}
	return all, nil
}

func (f *fakeUserRepo) AppendSessionToken(ctx context.Context, id int, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.SessionTokens = append(user.SessionTokens, token)
	return nil
}

func (f *fakeUserRepo) RemoveSessionToken(ctx context.Context, id int, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return false, nil
	}
	index := slices.Index(user.SessionTokens, token)
	if index < 0 {
		return false, nil
	}
	user.SessionTokens = slices.Delete(user.SessionTokens, index, index+1)
	return true, nil
}

func cloneUser(user types.User) types.User {
	user.SessionTokens = slices.Clone(user.SessionTokens)
	return user
}
