package models

import "time"

// User is an account row. DelFlg is a soft delete: the row stays in storage
// but the account is invisible to every feed surface and cannot log in.
type User struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	AccountName string    `gorm:"column:account_name;size:64;uniqueIndex;not null" json:"account_name"`
	Passhash    string    `gorm:"column:passhash;size:128;not null" json:"-"`
	Authority   int       `gorm:"column:authority;not null;default:0" json:"authority"`
	DelFlg      int       `gorm:"column:del_flg;not null;default:0" json:"del_flg"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName pins the canonical table name.
func (User) TableName() string { return "users" }

// Deleted reports whether the account has been soft deleted.
func (u User) Deleted() bool { return u.DelFlg != 0 }

// Admin reports whether the account carries the privileged authority flag.
func (u User) Admin() bool { return u.Authority != 0 }
