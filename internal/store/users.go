package store

import (
	"context"
	"time"

	"github.com/Aarti-panchal01/Khoj/types"
)

// CreateUser registers a new account. It fails with ErrDuplicateUser
// when a user with the same email already exists. The session pointer
// is not touched; logging the new user in is the caller's decision.
func (s *Store) CreateUser(ctx context.Context, data types.User) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []types.User
	if _, err := s.loadValue(ctx, keyUsers, &users); err != nil {
		return types.User{}, err
	}

	for _, u := range users {
		if u.Email == data.Email {
			return types.User{}, ErrDuplicateUser
		}
	}

	data.ID = newID()
	data.Verified = true
	data.Reputation = 0
	data.ItemsFound = 0
	data.ItemsReturned = 0
	data.CreatedAt = time.Now()

	users = append(users, data)
	if err := s.saveValue(ctx, keyUsers, users); err != nil {
		return types.User{}, err
	}
	return data, nil
}

// LoginUser authenticates by exact email and password match. The
// comparison is plaintext on purpose: stored passwords are not hashed,
// and that byte-equal compare is the documented contract. On success
// the session pointer is set to a snapshot of the matched user; on
// failure it is left untouched.
func (s *Store) LoginUser(ctx context.Context, email, password string) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []types.User
	if _, err := s.loadValue(ctx, keyUsers, &users); err != nil {
		return types.User{}, err
	}

	for _, u := range users {
		if u.Email == email && u.Password == password {
			if err := s.saveValue(ctx, keyCurrentUser, u); err != nil {
				return types.User{}, err
			}
			return u, nil
		}
	}
	return types.User{}, ErrInvalidCredentials
}

// CurrentUser returns the session pointer's snapshot, or nil when no
// user is logged in.
func (s *Store) CurrentUser(ctx context.Context) (*types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUserLocked(ctx)
}

func (s *Store) currentUserLocked(ctx context.Context) (*types.User, error) {
	var user types.User
	found, err := s.loadValue(ctx, keyCurrentUser, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// LogoutUser clears the session pointer. Idempotent.
func (s *Store) LogoutUser(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, keyCurrentUser); err != nil {
		return ErrStorageUnavailable
	}
	return nil
}

// UpdateUser merges the non-nil fields of upd over the stored record.
// When the session pointer refers to the same user it is refreshed to
// the merged record, so the visible "current user" stays consistent
// with the authoritative one.
func (s *Store) UpdateUser(ctx context.Context, userID string, upd types.UserUpdate) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []types.User
	if _, err := s.loadValue(ctx, keyUsers, &users); err != nil {
		return types.User{}, err
	}

	index := -1
	for i, u := range users {
		if u.ID == userID {
			index = i
			break
		}
	}
	if index == -1 {
		return types.User{}, ErrUserNotFound
	}

	merged := applyUserUpdate(users[index], upd)
	users[index] = merged
	if err := s.saveValue(ctx, keyUsers, users); err != nil {
		return types.User{}, err
	}

	current, err := s.currentUserLocked(ctx)
	if err != nil {
		return types.User{}, err
	}
	if current != nil && current.ID == userID {
		if err := s.saveValue(ctx, keyCurrentUser, merged); err != nil {
			return types.User{}, err
		}
	}

	return merged, nil
}

func applyUserUpdate(user types.User, upd types.UserUpdate) types.User {
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Password != nil {
		user.Password = *upd.Password
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	if upd.College != nil {
		user.College = *upd.College
	}
	if upd.Reputation != nil {
		user.Reputation = *upd.Reputation
	}
	if upd.ItemsFound != nil {
		user.ItemsFound = *upd.ItemsFound
	}
	if upd.ItemsReturned != nil {
		user.ItemsReturned = *upd.ItemsReturned
	}
	return user
}
