package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("user not found")

type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

type User struct {
	ID              uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email           string         `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	FirstName       string         `gorm:"column:first_name;size:100" json:"first_name"`
	LastName        string         `gorm:"column:last_name;size:100" json:"last_name"`
	Role            Role           `gorm:"column:role;size:20;default:'member'" json:"role"`
	KYCVerified     bool           `gorm:"column:kyc_verified;default:false" json:"kyc_verified"`
	MonthlySalary   float64        `gorm:"column:monthly_salary;type:decimal(18,2)" json:"monthly_salary"`
	MonthsEmployed  int            `gorm:"column:months_employed" json:"months_employed"`
	IsActive        bool           `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (User) TableName() string { return "users" }

// Actor is the authenticated caller as supplied by the auth layer.
// The core trusts it as given.
type Actor struct {
	UserID uint64
	Role   Role
}

// Elevated reports whether the actor holds an admin-tier role.
func (a Actor) Elevated() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
