package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

type Household struct {
	ID        string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string            `gorm:"type:varchar(120);not null" json:"name"`
	Members   []HouseholdMember `gorm:"foreignKey:HouseholdID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (h *Household) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// HouseholdMember links a user to a household. The unique index on UserID
// keeps a user in at most one household even under concurrent redemptions.
type HouseholdMember struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	HouseholdID string    `gorm:"type:varchar(36);index;not null" json:"householdId"`
	UserID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"userId"`
	Role        Role      `gorm:"type:varchar(8);not null" json:"role"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (m *HouseholdMember) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
