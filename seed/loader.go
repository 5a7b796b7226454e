package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ariebrainware/comorbidity-network/comorbidity"
	"github.com/ariebrainware/comorbidity-network/logger"
	"github.com/ariebrainware/comorbidity-network/model"
)

// Result summarizes what a load wrote and what it resolved.
type Result struct {
	Diseases     []model.Disease
	Genes        []model.Gene
	Associations []comorbidity.Association
	// Dropped counts association rows whose disease name or gene symbol did
	// not resolve.
	Dropped int
	// Collapsed counts association rows overwritten by a later row for the
	// same (disease, gene) pair.
	Collapsed int
}

// Loader writes seed records into the store.
type Loader struct {
	db        *gorm.DB
	batchSize int
	log       *logger.Logger
}

func NewLoader(db *gorm.DB, batchSize int, log *logger.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = 100
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{db: db, batchSize: batchSize, log: log.With("component", "SeedLoader")}
}

// Load upserts diseases, genes and associations from ds and returns the
// resolved associations of this load.
func (l *Loader) Load(ctx context.Context, ds Dataset) (*Result, error) {
	diseaseRows := DedupeDiseases(ds.Diseases)
	geneRows := DedupeGenes(ds.Genes)
	l.log.Info("upserting diseases", "count", len(diseaseRows), "raw", len(ds.Diseases))

	diseases, err := l.upsertDiseases(ctx, diseaseRows)
	if err != nil {
		return nil, err
	}

	l.log.Info("upserting genes", "count", len(geneRows), "raw", len(ds.Genes))
	genes, err := l.upsertGenes(ctx, geneRows)
	if err != nil {
		return nil, err
	}

	diseaseByName := make(map[string]string, len(diseases))
	for _, d := range diseases {
		diseaseByName[d.Name] = d.ID
	}
	geneBySymbol := make(map[string]string, len(genes))
	for _, g := range genes {
		geneBySymbol[g.Symbol] = g.ID
	}

	assocs, dropped, collapsed := Resolve(ds.DiseaseGenes, diseaseByName, geneBySymbol)
	if dropped > 0 {
		l.log.Info("dropped unresolved associations", "count", dropped)
	}

	l.log.Info("upserting disease-gene associations", "count", len(assocs))
	if err := l.upsertAssociations(ctx, assocs); err != nil {
		return nil, err
	}

	return &Result{
		Diseases:     diseases,
		Genes:        genes,
		Associations: assocs,
		Dropped:      dropped,
		Collapsed:    collapsed,
	}, nil
}

// LoadFromStore reads every persisted association.
func (l *Loader) LoadFromStore(ctx context.Context) ([]comorbidity.Association, error) {
	var rows []model.DiseaseGene
	if err := l.db.WithContext(ctx).Select("disease_id", "gene_id", "score").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read associations: %w", err)
	}
	out := make([]comorbidity.Association, 0, len(rows))
	for _, r := range rows {
		out = append(out, comorbidity.Association{DiseaseID: r.DiseaseID, GeneID: r.GeneID, Score: r.Score})
	}
	return out, nil
}

// Resolve maps association rows onto identifier pairs. Rows whose disease
// name or gene symbol is unknown are dropped without error. Repeated pairs
// keep the last score and the position of the first occurrence.
func Resolve(rows []AssociationRecord, diseaseByName, geneBySymbol map[string]string) (out []comorbidity.Association, dropped, collapsed int) {
	type pair struct{ disease, gene string }
	pos := make(map[pair]int, len(rows))
	out = make([]comorbidity.Association, 0, len(rows))
	for _, r := range rows {
		diseaseID, ok := diseaseByName[r.DiseaseName]
		if !ok {
			dropped++
			continue
		}
		geneID, ok := geneBySymbol[r.GeneSymbol]
		if !ok {
			dropped++
			continue
		}
		key := pair{diseaseID, geneID}
		if i, seen := pos[key]; seen {
			out[i].Score = r.Score
			collapsed++
			continue
		}
		pos[key] = len(out)
		out = append(out, comorbidity.Association{DiseaseID: diseaseID, GeneID: geneID, Score: r.Score})
	}
	return out, dropped, collapsed
}

// upsertDiseases writes rows keyed on disgenet_id and returns the stored
// diseases in input order with their persisted identifiers.
func (l *Loader) upsertDiseases(ctx context.Context, rows []DiseaseRecord) ([]model.Disease, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	models := make([]model.Disease, 0, len(rows))
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		models = append(models, model.Disease{
			Name:        r.Name,
			DisgenetID:  r.DisgenetID,
			Description: r.Description,
			Category:    r.Category,
		})
		keys = append(keys, r.DisgenetID)
	}

	if err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "disgenet_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "category", "updated_at"}),
	}).CreateInBatches(&models, l.batchSize).Error; err != nil {
		return nil, fmt.Errorf("upsert diseases: %w", err)
	}

	// Conflicting rows keep their original id, so read the ids back.
	stored := make(map[string]model.Disease, len(keys))
	for _, chunk := range chunkStrings(keys, l.batchSize) {
		var found []model.Disease
		if err := l.db.WithContext(ctx).Where("disgenet_id IN ?", chunk).Find(&found).Error; err != nil {
			return nil, fmt.Errorf("read diseases: %w", err)
		}
		for _, d := range found {
			stored[d.DisgenetID] = d
		}
	}

	out := make([]model.Disease, 0, len(keys))
	for _, k := range keys {
		if d, ok := stored[k]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (l *Loader) upsertGenes(ctx context.Context, rows []GeneRecord) ([]model.Gene, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	models := make([]model.Gene, 0, len(rows))
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		models = append(models, model.Gene{Symbol: r.Symbol, Name: r.Name, Chromosome: r.Chromosome})
		keys = append(keys, r.Symbol)
	}

	if err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "chromosome", "updated_at"}),
	}).CreateInBatches(&models, l.batchSize).Error; err != nil {
		return nil, fmt.Errorf("upsert genes: %w", err)
	}

	stored := make(map[string]model.Gene, len(keys))
	for _, chunk := range chunkStrings(keys, l.batchSize) {
		var found []model.Gene
		if err := l.db.WithContext(ctx).Where("symbol IN ?", chunk).Find(&found).Error; err != nil {
			return nil, fmt.Errorf("read genes: %w", err)
		}
		for _, g := range found {
			stored[g.Symbol] = g
		}
	}

	out := make([]model.Gene, 0, len(keys))
	for _, k := range keys {
		if g, ok := stored[k]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (l *Loader) upsertAssociations(ctx context.Context, assocs []comorbidity.Association) error {
	if len(assocs) == 0 {
		return nil
	}
	rows := make([]model.DiseaseGene, 0, len(assocs))
	for _, a := range assocs {
		rows = append(rows, model.DiseaseGene{DiseaseID: a.DiseaseID, GeneID: a.GeneID, Score: a.Score})
	}
	if err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "disease_id"}, {Name: "gene_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).CreateInBatches(&rows, l.batchSize).Error; err != nil {
		return fmt.Errorf("upsert associations: %w", err)
	}
	return nil
}

func chunkStrings(s []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(s); start += size {
		end := min(start+size, len(s))
		out = append(out, s[start:end])
	}
	return out
}
