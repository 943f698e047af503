package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/picfeed/picfeed/models"
)

// ErrAuthentication is the single generic failure for login attempts. It never
// says whether the account was unknown or the password wrong.
var ErrAuthentication = errors.New("auth: invalid account name or password")

// ErrAccountTaken is returned by Register when the account name is in use.
var ErrAccountTaken = errors.New("auth: account name already in use")

// AccountStore is the slice of Users the credential service needs; tests
// substitute fakes.
type AccountStore interface {
	ByID(ctx context.Context, id int) (*models.User, error)
	ActiveByAccountName(ctx context.Context, accountName string) (*models.User, error)
	AccountNameTaken(ctx context.Context, accountName string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

// Service implements the credential operations: registration and login.
type Service struct {
	users  AccountStore
	hasher *Hasher
}

// NewService wires the credential service.
func NewService(users AccountStore, hasher *Hasher) *Service {
	return &Service{users: users, hasher: hasher}
}

// TryLogin resolves the account and checks the supplied password. Unknown
// account and hash mismatch both come back as ErrAuthentication; a digest
// failure propagates as its own error.
func (s *Service) TryLogin(ctx context.Context, accountName, password string) (*models.User, error) {
	user, err := s.users.ActiveByAccountName(ctx, accountName)
	if err != nil {
		return nil, fmt.Errorf("auth: login lookup: %w", err)
	}
	if user == nil {
		return nil, ErrAuthentication
	}
	ok, err := s.hasher.Verify(user.Passhash, user.AccountName, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthentication
	}
	return user, nil
}

// Register validates the credentials, enforces account name uniqueness, and
// creates the account with its derived passhash. Validation runs before any
// store access.
func (s *Service) Register(ctx context.Context, accountName, password string) (*models.User, error) {
	if err := ValidateCredentials(accountName, password); err != nil {
		return nil, err
	}
	taken, err := s.users.AccountNameTaken(ctx, accountName)
	if err != nil {
		return nil, fmt.Errorf("auth: uniqueness check: %w", err)
	}
	if taken {
		return nil, ErrAccountTaken
	}
	passhash, err := s.hasher.Passhash(accountName, password)
	if err != nil {
		return nil, err
	}
	user := &models.User{AccountName: accountName, Passhash: passhash}
	if err := s.users.Create(ctx, user); err != nil {
		// The pre-check and the insert are not atomic; a concurrent
		// duplicate comes back from the store as ErrAccountTaken.
		if errors.Is(err, ErrAccountTaken) {
			return nil, ErrAccountTaken
		}
		return nil, fmt.Errorf("auth: create account: %w", err)
	}
	return user, nil
}
