package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPro  Plan = "PRO"
)

func (p Plan) Valid() bool { return p == PlanFree || p == PlanPro }

// User is an account holder. PasswordHash is nil for accounts created through
// an external identity provider.
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(320);uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"type:varchar(120);not null" json:"name"`
	PasswordHash *string   `gorm:"type:varchar(255)" json:"-"`
	Plan         Plan      `gorm:"type:varchar(8);not null;default:FREE" json:"plan"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Plan == "" {
		u.Plan = PlanFree
	}
	return nil
}
