package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Disease represents a disease entity
// @Description Disease information
type Disease struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey" example:"0b6f6c1e-3c1e-4f44-9d55-1f0e0e8d8a10"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null;index" example:"Type 2 Diabetes"`
	DisgenetID  string    `json:"disgenet_id" gorm:"column:disgenet_id;type:varchar(64);not null;uniqueIndex" example:"C0011860"`
	Description string    `json:"description" gorm:"type:text" example:"A metabolic disorder"`
	Category    string    `json:"category" gorm:"type:varchar(128);index" example:"Metabolic"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

// BeforeCreate assigns a random identifier to new rows.
func (d *Disease) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
