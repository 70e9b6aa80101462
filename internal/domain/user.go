package domain

import "time"

type UserRole string

const (
	RoleTourist  UserRole = "tourist"
	RoleCoWorker UserRole = "co-worker"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleTourist, RoleCoWorker, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;not null" validate:"required,min=3,max=50"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	FullName     string     `json:"full_name,omitempty" gorm:"column:full_name"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;not null"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);default:'tourist';index"`
	IsActive     bool       `json:"isActive" gorm:"column:is_active"`
	LoginCount   int        `json:"loginCount" gorm:"column:login_count"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty" gorm:"column:last_login_at"`
	LastActiveAt *time.Time `json:"lastActiveAt,omitempty" gorm:"column:last_active_at"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "users" }
