package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxOriginalURLLength = 2048

// ShortLink maps an opaque hash to a stored URL. The hash is immutable after
// the first save; only click_count changes afterwards.
type ShortLink struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Hash        string    `gorm:"size:15;not null;uniqueIndex" json:"hash"`
	OriginalURL string    `gorm:"size:2048;not null;index" json:"original_url"`
	ClickCount  int64     `gorm:"not null;default:0" json:"click_count"`
}

func (ShortLink) TableName() string {
	return "short_links"
}

func (l *ShortLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
