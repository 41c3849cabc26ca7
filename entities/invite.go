package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InviteState string

const (
	InvitePending InviteState = "PENDING"
	InviteExpired InviteState = "EXPIRED"
)

// HouseholdInvite is a time-bounded, multi-use join token.
type HouseholdInvite struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Token       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	HouseholdID string    `gorm:"type:varchar(36);index;not null" json:"householdId"`
	CreatedByID string    `gorm:"type:varchar(36);not null" json:"createdById"`
	ExpiresAt   time.Time `gorm:"index;not null" json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (i *HouseholdInvite) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// ValidAt reports whether the invite can still be redeemed at now. An invite
// is already expired at the exact instant of ExpiresAt.
func (i *HouseholdInvite) ValidAt(now time.Time) bool {
	return now.Before(i.ExpiresAt)
}

func (i *HouseholdInvite) StateAt(now time.Time) InviteState {
	if i.ValidAt(now) {
		return InvitePending
	}
	return InviteExpired
}
