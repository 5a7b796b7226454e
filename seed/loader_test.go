package seed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ariebrainware/comorbidity-network/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_seed_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

func TestResolve_DropsUnresolvedAndCollapsesDuplicates(t *testing.T) {
	diseases := map[string]string{"Asthma": "d1", "Obesity": "d2"}
	genes := map[string]string{"IL13": "g1", "FTO": "g2"}

	out, dropped, collapsed := Resolve([]AssociationRecord{
		{DiseaseName: "Asthma", GeneSymbol: "IL13", Score: 0.1},
		{DiseaseName: "Obesity", GeneSymbol: "FTO", Score: 0.5},
		{DiseaseName: "Lupus", GeneSymbol: "IL13", Score: 0.5},
		{DiseaseName: "Asthma", GeneSymbol: "NOPE", Score: 0.5},
		{DiseaseName: "Asthma", GeneSymbol: "IL13", Score: 0.7},
	}, diseases, genes)

	assert.Equal(t, 2, dropped)
	assert.Equal(t, 1, collapsed)
	require.Len(t, out, 2)
	assert.Equal(t, "d1", out[0].DiseaseID)
	assert.Equal(t, 0.7, out[0].Score)
	assert.Equal(t, "d2", out[1].DiseaseID)
}

func TestLoader_Load(t *testing.T) {
	db := setupTestDB(t)
	ds, _, err := ParseFile("testdata/mock-data.json")
	require.NoError(t, err)

	res, err := NewLoader(db, 2, nil).Load(context.Background(), ds)
	require.NoError(t, err)

	assert.Len(t, res.Diseases, 4)
	assert.Len(t, res.Genes, 5)
	assert.Equal(t, 2, res.Dropped)
	assert.Equal(t, 1, res.Collapsed)
	assert.Len(t, res.Associations, 8)

	var diabetes model.Disease
	require.NoError(t, db.Where("disgenet_id = ?", "C0011860").First(&diabetes).Error)
	assert.Equal(t, "Type 2 diabetes mellitus", diabetes.Description)

	var fto model.Gene
	require.NoError(t, db.Where("symbol = ?", "FTO").First(&fto).Error)
	assert.Equal(t, "Fat mass and obesity associated", fto.Name)

	var tcf model.Gene
	require.NoError(t, db.Where("symbol = ?", "TCF7L2").First(&tcf).Error)
	var assoc model.DiseaseGene
	require.NoError(t, db.Where("disease_id = ? AND gene_id = ?", diabetes.ID, tcf.ID).First(&assoc).Error)
	assert.Equal(t, 0.92, assoc.Score)

	var n int64
	db.Model(&model.DiseaseGene{}).Count(&n)
	assert.EqualValues(t, 8, n)
}

func TestLoader_LoadTwiceKeepsIdentifiers(t *testing.T) {
	db := setupTestDB(t)
	ds, _, err := ParseFile("testdata/mock-data.json")
	require.NoError(t, err)
	loader := NewLoader(db, 100, nil)

	first, err := loader.Load(context.Background(), ds)
	require.NoError(t, err)
	second, err := loader.Load(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, first.Associations, second.Associations)
	for i := range first.Diseases {
		assert.Equal(t, first.Diseases[i].ID, second.Diseases[i].ID)
	}

	var diseases, genes, assocs int64
	db.Model(&model.Disease{}).Count(&diseases)
	db.Model(&model.Gene{}).Count(&genes)
	db.Model(&model.DiseaseGene{}).Count(&assocs)
	assert.EqualValues(t, 4, diseases)
	assert.EqualValues(t, 5, genes)
	assert.EqualValues(t, 8, assocs)
}

func TestLoader_LoadFromStore(t *testing.T) {
	db := setupTestDB(t)
	ds, _, err := ParseFile("testdata/mock-data.json")
	require.NoError(t, err)
	loader := NewLoader(db, 100, nil)
	res, err := loader.Load(context.Background(), ds)
	require.NoError(t, err)

	stored, err := loader.LoadFromStore(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, res.Associations, stored)
}

func TestLoader_EmptyDataset(t *testing.T) {
	db := setupTestDB(t)

	res, err := NewLoader(db, 100, nil).Load(context.Background(), Dataset{})
	require.NoError(t, err)
	assert.Empty(t, res.Associations)
}
