// Package store persists comorbidity records and serves the read queries
// used by the network and catalog views.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ariebrainware/comorbidity-network/comorbidity"
	"github.com/ariebrainware/comorbidity-network/logger"
	"github.com/ariebrainware/comorbidity-network/model"
)

// DefaultBatchSize bounds the rows sent in one upsert statement.
const DefaultBatchSize = 100

// ErrNotFound is returned when a requested disease does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps the relational database holding diseases, genes, associations
// and comorbidities.
type Store struct {
	db        *gorm.DB
	batchSize int
	log       *logger.Logger
}

func New(db *gorm.DB, batchSize int, log *logger.Logger) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{db: db, batchSize: batchSize, log: log.With("component", "ComorbidityStore")}
}

// DB exposes the underlying connection.
func (s *Store) DB() *gorm.DB { return s.db }

// BatchSize reports the configured upsert batch size.
func (s *Store) BatchSize() int { return s.batchSize }

// ToModel converts an engine record into its persisted form.
func ToModel(c comorbidity.Comorbidity) model.DiseaseComorbidity {
	a, b := comorbidity.PairKey(c.DiseaseA, c.DiseaseB)
	return model.DiseaseComorbidity{
		DiseaseAID:       a,
		DiseaseBID:       b,
		SharedGenesCount: c.SharedGenes,
		Score:            c.Score,
		JaccardIndex:     c.JaccardIndex,
	}
}

// UpsertComorbidities writes records in fixed-size batches keyed on the
// disease pair. Each batch is its own statement: when one fails, earlier
// batches stay committed and the rest are not attempted. It returns the
// number of committed batches.
func (s *Store) UpsertComorbidities(ctx context.Context, records []comorbidity.Comorbidity) (int, error) {
	committed := 0
	for start := 0; start < len(records); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return committed, err
		}
		end := min(start+s.batchSize, len(records))
		batch := make([]model.DiseaseComorbidity, 0, end-start)
		for _, c := range records[start:end] {
			batch = append(batch, ToModel(c))
		}

		err := s.db.WithContext(ctx).Session(&gorm.Session{SkipDefaultTransaction: true}).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "disease_a_id"}, {Name: "disease_b_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"shared_genes_count", "score", "jaccard_index", "updated_at"}),
			}).Create(&batch).Error
		if err != nil {
			return committed, fmt.Errorf("upsert comorbidity batch %d: %w", committed+1, err)
		}
		committed++
		s.log.Debug("comorbidity batch committed", "batch", committed, "rows", len(batch))
	}
	return committed, nil
}

// Disease fetches one disease by id.
func (s *Store) Disease(ctx context.Context, id string) (model.Disease, error) {
	var d model.Disease
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Disease{}, ErrNotFound
	}
	if err != nil {
		return model.Disease{}, fmt.Errorf("read disease: %w", err)
	}
	return d, nil
}

// DiseasesByIDs returns the diseases with the given ids ordered by name.
func (s *Store) DiseasesByIDs(ctx context.Context, ids []string) ([]model.Disease, error) {
	out := make([]model.Disease, 0, len(ids))
	for start := 0; start < len(ids); start += s.batchSize {
		end := min(start+s.batchSize, len(ids))
		var found []model.Disease
		if err := s.db.WithContext(ctx).Where("id IN ?", ids[start:end]).Find(&found).Error; err != nil {
			return nil, fmt.Errorf("read diseases: %w", err)
		}
		out = append(out, found...)
	}
	sortDiseases(out)
	return out, nil
}

// SearchQuery filters the disease catalog.
type SearchQuery struct {
	Text   string
	Limit  int
	Offset int
}

// SearchDiseases matches the text against name, disgenet id and category,
// case-insensitively, ordered by name. It also returns the total match count.
func (s *Store) SearchDiseases(ctx context.Context, q SearchQuery) ([]model.Disease, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Disease{})
	if text := strings.ToLower(strings.TrimSpace(q.Text)); text != "" {
		kw := "%" + text + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(disgenet_id) LIKE ? OR LOWER(category) LIKE ?", kw, kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count diseases: %w", err)
	}

	var diseases []model.Disease
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if err := query.Order("name ASC").Order("id ASC").Find(&diseases).Error; err != nil {
		return nil, 0, fmt.Errorf("search diseases: %w", err)
	}
	return diseases, total, nil
}

// GenesFor lists the genes associated with a disease, highest association
// score first.
func (s *Store) GenesFor(ctx context.Context, diseaseID string) ([]model.GeneAssociation, error) {
	var rows []model.GeneAssociation
	err := s.db.WithContext(ctx).Table("disease_genes").
		Select(`disease_genes.id AS association_id, disease_genes.score AS score,
			genes.id AS gene_id, genes.symbol AS gene_symbol, genes.name AS gene_name,
			genes.chromosome AS gene_chromosome`).
		Joins("JOIN genes ON genes.id = disease_genes.gene_id").
		Where("disease_genes.disease_id = ?", diseaseID).
		Order("disease_genes.score DESC").Order("genes.symbol ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("read genes for disease: %w", err)
	}
	return rows, nil
}

// ComorbiditiesFor returns the edges touching a disease on either side,
// highest score first, with both diseases loaded.
func (s *Store) ComorbiditiesFor(ctx context.Context, diseaseID string, limit int) ([]model.DiseaseComorbidity, error) {
	var rows []model.DiseaseComorbidity
	query := s.db.WithContext(ctx).Preload("DiseaseA").Preload("DiseaseB").
		Where("disease_a_id = ? OR disease_b_id = ?", diseaseID, diseaseID).
		Order("score DESC").Order("disease_a_id ASC").Order("disease_b_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read comorbidities for disease: %w", err)
	}
	return rows, nil
}

// TopComorbidities returns the highest scoring edges globally.
func (s *Store) TopComorbidities(ctx context.Context, limit int) ([]model.DiseaseComorbidity, error) {
	var rows []model.DiseaseComorbidity
	query := s.db.WithContext(ctx).Preload("DiseaseA").Preload("DiseaseB").
		Order("score DESC").Order("disease_a_id ASC").Order("disease_b_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read top comorbidities: %w", err)
	}
	return rows, nil
}

// CountComorbidities returns the number of stored edges.
func (s *Store) CountComorbidities(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.DiseaseComorbidity{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count comorbidities: %w", err)
	}
	return n, nil
}
