package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gene represents a gene entity
// @Description Gene information
type Gene struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey" example:"5d0c4c58-1f3b-4a8e-8f0e-9a3b1f7c2e11"`
	Symbol     string    `json:"symbol" gorm:"type:varchar(64);not null;uniqueIndex" example:"TCF7L2"`
	Name       string    `json:"name" gorm:"type:varchar(255)" example:"Transcription factor 7 like 2"`
	Chromosome string    `json:"chromosome" gorm:"type:varchar(16)" example:"10"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`
}

func (g *Gene) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
