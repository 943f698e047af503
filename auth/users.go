package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/picfeed/picfeed/models"
)

// Users is the gorm-backed accessor for account rows. It is the store of
// record: session resolution and ban checks always read through here, never
// from a cache.
type Users struct {
	db *gorm.DB
}

// NewUsers wraps a database handle.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// ByID returns the user row for an id, or nil when absent. Soft-deleted rows
// are returned as-is; callers decide what a del_flg means for them.
func (u *Users) ByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ActiveByAccountName returns the non-deleted user with the given account
// name, or nil when there is none.
func (u *Users) ActiveByAccountName(ctx context.Context, accountName string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Where("account_name = ? AND del_flg = 0", accountName).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AccountNameTaken reports whether any row, deleted or not, already owns the
// account name. Names are immutable after creation, so a soft-deleted holder
// still blocks reuse.
func (u *Users) AccountNameTaken(ctx context.Context, accountName string) (bool, error) {
	var n int64
	err := u.db.WithContext(ctx).Model(&models.User{}).
		Where("account_name = ?", accountName).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new account row. Losing a race against a concurrent
// registration for the same name trips the unique index; that surfaces as
// ErrAccountTaken, same as failing the uniqueness pre-check.
func (u *Users) Create(ctx context.Context, user *models.User) error {
	err := u.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAccountTaken
	}
	return err
}

// OrdinaryActive lists non-privileged, non-deleted users newest first, for
// the admin ban surface.
func (u *Users) OrdinaryActive(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := u.db.WithContext(ctx).
		Where("authority = 0 AND del_flg = 0").
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// MarkDeleted sets del_flg on the given user ids. Historical posts and
// comments stay in storage; the feed rules exclude them from then on.
func (u *Users) MarkDeleted(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	return u.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN ?", ids).
		Update("del_flg", 1).Error
}
