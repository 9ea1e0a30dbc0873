package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the account role. Authorization checkpoints switch over it
// exhaustively instead of consulting a permission table.
type Role string

const (
	RoleLearner    Role = "LEARNER"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleLearner, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Name          string    `json:"name" gorm:"default:''"`
	Email         string    `json:"email" gorm:"unique;not null"`
	Password      string    `json:"-"`                              // bcrypt hash; empty for provider-created accounts
	Role          Role      `json:"role" gorm:"default:'LEARNER'"`  // LEARNER, INSTRUCTOR, ADMIN
	Bio           string    `json:"bio" gorm:"type:text;default:''"`
	AvatarURL     string    `json:"avatar_url" gorm:"default:''"`
	PayoutAccount string    `json:"payout_account" gorm:"default:''"` // instructor's receiving account at the payment gateway
	ProviderID    string    `json:"provider_id" gorm:"index"`         // external identity provider subject, set on first session exchange
	LastLogin     time.Time `json:"last_login" gorm:"default:NULL"`
	IsDeleted     bool      `gorm:"default:false"`
}
