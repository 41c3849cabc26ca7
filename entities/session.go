package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session backs a browser login. Only the SHA-256 of the cookie value is
// stored.
type Session struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TokenHash string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"userId"`
	ExpiresAt time.Time `gorm:"index" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
