package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel is an alternative to gorm.Model for records keyed by prefixed
// string IDs ("proj_...", "wrk_...").
type BaseModel struct {
	ID        string         `gorm:"primarykey;type:varchar(64)" json:"_id"`
	CreatedAt time.Time      `json:"created"`
	UpdatedAt time.Time      `json:"modified"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewID returns a fresh record ID with the given prefix.
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (m *BaseModel) ensureID(prefix string) {
	if m.ID == "" {
		m.ID = NewID(prefix)
	}
}
