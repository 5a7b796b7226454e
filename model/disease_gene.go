package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiseaseGene is a scored association between a disease and a gene. At most
// one row exists per (disease, gene) pair.
// @Description Disease to gene association
type DiseaseGene struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	DiseaseID string    `json:"disease_id" gorm:"column:disease_id;type:varchar(36);not null;uniqueIndex:idx_disease_gene_pair"`
	GeneID    string    `json:"gene_id" gorm:"column:gene_id;type:varchar(36);not null;uniqueIndex:idx_disease_gene_pair;index"`
	Score     float64   `json:"score" gorm:"not null;default:0" example:"0.82"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (dg *DiseaseGene) BeforeCreate(tx *gorm.DB) error {
	if dg.ID == "" {
		dg.ID = uuid.NewString()
	}
	return nil
}

// GeneAssociation is a gene as seen from one disease, carrying the
// association score.
// @Description Gene associated with a disease
type GeneAssociation struct {
	AssociationID string  `json:"id" gorm:"column:association_id"`
	Score         float64 `json:"score" gorm:"column:score" example:"0.82"`
	Gene          Gene    `json:"gene" gorm:"embedded;embeddedPrefix:gene_"`
}
