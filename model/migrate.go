package model

import "gorm.io/gorm"

// All lists every persisted model in dependency order.
var All = []interface{}{
	&Disease{},
	&Gene{},
	&DiseaseGene{},
	&DiseaseComorbidity{},
	&PipelineRun{},
}

// AutoMigrate creates or updates the tables for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All...)
}
