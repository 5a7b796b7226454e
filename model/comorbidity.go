package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiseaseComorbidity is the persisted form of a comorbidity edge. The pair is
// stored in canonical order (DiseaseAID < DiseaseBID) and is unique.
// @Description Comorbidity between two diseases
type DiseaseComorbidity struct {
	ID               string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	DiseaseAID       string    `json:"disease_a_id" gorm:"column:disease_a_id;type:varchar(36);not null;uniqueIndex:idx_comorbidity_pair"`
	DiseaseBID       string    `json:"disease_b_id" gorm:"column:disease_b_id;type:varchar(36);not null;uniqueIndex:idx_comorbidity_pair;index"`
	SharedGenesCount int       `json:"shared_genes_count" gorm:"column:shared_genes_count;not null" example:"2"`
	Score            float64   `json:"score" gorm:"column:score;not null;index" example:"66.67"`
	JaccardIndex     float64   `json:"jaccard_index" gorm:"column:jaccard_index;not null" example:"0.5"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"-"`

	DiseaseA *Disease `json:"disease_a,omitempty" gorm:"foreignKey:DiseaseAID;references:ID"`
	DiseaseB *Disease `json:"disease_b,omitempty" gorm:"foreignKey:DiseaseBID;references:ID"`
}

func (dc *DiseaseComorbidity) BeforeCreate(tx *gorm.DB) error {
	if dc.ID == "" {
		dc.ID = uuid.NewString()
	}
	return nil
}

// Other returns the disease on the opposite side of the edge from diseaseID.
func (dc DiseaseComorbidity) Other(diseaseID string) *Disease {
	if dc.DiseaseAID == diseaseID {
		return dc.DiseaseB
	}
	return dc.DiseaseA
}
