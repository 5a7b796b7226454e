package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RunSourceFile  = "file"
	RunSourceStore = "store"

	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// PipelineRun records one invocation of the comorbidity pipeline.
type PipelineRun struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	Source              string         `json:"source" gorm:"column:source;type:varchar(16)"`
	Status              string         `json:"status" gorm:"column:status;type:varchar(16);index"`
	Strategy            string         `json:"strategy" gorm:"column:strategy;type:varchar(16)"`
	Diseases            int            `json:"diseases"`
	Genes               int            `json:"genes"`
	Associations        int            `json:"associations"`
	DroppedAssociations int            `json:"dropped_associations"`
	QuarantinedRows     int            `json:"quarantined_rows"`
	Comorbidities       int            `json:"comorbidities"`
	BatchesCommitted    int            `json:"batches_committed"`
	Error               string         `json:"error,omitempty" gorm:"column:error;type:text"`
	Stats               datatypes.JSON `json:"stats,omitempty" gorm:"column:stats;type:json"`
	StartedAt           time.Time      `json:"started_at"`
	FinishedAt          *time.Time     `json:"finished_at,omitempty"`
}
