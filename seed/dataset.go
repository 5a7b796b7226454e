// Package seed loads disease, gene and association records into the store
// and resolves them into identifier pairs for the comorbidity engine.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ariebrainware/comorbidity-network/util"
)

// ErrEmptyDataset is returned when a seed source holds no usable rows.
var ErrEmptyDataset = errors.New("seed dataset is empty")

// DiseaseRecord is a disease as it appears in a seed file.
type DiseaseRecord struct {
	Name        string `json:"name"`
	DisgenetID  string `json:"disgenet_id"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// GeneRecord is a gene as it appears in a seed file.
type GeneRecord struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Chromosome string `json:"chromosome"`
}

// AssociationRecord references a disease by name and a gene by symbol.
type AssociationRecord struct {
	DiseaseName string  `json:"diseaseName"`
	GeneSymbol  string  `json:"geneSymbol"`
	Score       float64 `json:"score"`
}

// Dataset is the typed content of a seed source.
type Dataset struct {
	Diseases     []DiseaseRecord     `json:"diseases"`
	Genes        []GeneRecord        `json:"genes"`
	DiseaseGenes []AssociationRecord `json:"diseaseGenes"`
}

// Rejected describes a quarantined input row.
type Rejected struct {
	Kind   string `json:"kind"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

const (
	KindDisease     = "disease"
	KindGene        = "gene"
	KindAssociation = "association"
)

type rawDataset struct {
	Diseases     []json.RawMessage `json:"diseases"`
	Genes        []json.RawMessage `json:"genes"`
	DiseaseGenes []json.RawMessage `json:"diseaseGenes"`
}

// ParseFile reads and validates a seed file.
func ParseFile(path string) (Dataset, []Rejected, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a seed document row by row. Rows that fail to decode or to
// validate are returned as rejected instead of failing the whole document.
func Parse(r io.Reader) (Dataset, []Rejected, error) {
	var raw rawDataset
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Dataset{}, nil, fmt.Errorf("decode seed document: %w", err)
	}

	var ds Dataset
	var rejected []Rejected
	for i, msg := range raw.Diseases {
		var rec DiseaseRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			rejected = append(rejected, Rejected{Kind: KindDisease, Index: i, Reason: err.Error()})
			continue
		}
		ds.Diseases = append(ds.Diseases, rec)
	}
	for i, msg := range raw.Genes {
		var rec GeneRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			rejected = append(rejected, Rejected{Kind: KindGene, Index: i, Reason: err.Error()})
			continue
		}
		ds.Genes = append(ds.Genes, rec)
	}
	for i, msg := range raw.DiseaseGenes {
		var rec AssociationRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			rejected = append(rejected, Rejected{Kind: KindAssociation, Index: i, Reason: err.Error()})
			continue
		}
		ds.DiseaseGenes = append(ds.DiseaseGenes, rec)
	}

	valid, invalid := ds.Validate()
	rejected = append(rejected, invalid...)
	if len(valid.Diseases) == 0 && len(valid.Genes) == 0 && len(valid.DiseaseGenes) == 0 {
		return valid, rejected, ErrEmptyDataset
	}
	return valid, rejected, nil
}

// Validate normalizes every row and splits the dataset into usable rows and
// rejected ones. Indexes in the rejections refer to positions in ds.
func (ds Dataset) Validate() (Dataset, []Rejected) {
	var out Dataset
	var rejected []Rejected

	for i, d := range ds.Diseases {
		d.Name = util.NormalizeName(d.Name)
		d.DisgenetID = util.NormalizeName(d.DisgenetID)
		d.Category = util.NormalizeName(d.Category)
		switch {
		case d.Name == "":
			rejected = append(rejected, Rejected{Kind: KindDisease, Index: i, Reason: "name is required"})
		case d.DisgenetID == "":
			rejected = append(rejected, Rejected{Kind: KindDisease, Index: i, Reason: "disgenet_id is required"})
		default:
			out.Diseases = append(out.Diseases, d)
		}
	}

	for i, g := range ds.Genes {
		g.Symbol = util.NormalizeName(g.Symbol)
		g.Name = util.NormalizeName(g.Name)
		g.Chromosome = util.NormalizeName(g.Chromosome)
		if g.Symbol == "" {
			rejected = append(rejected, Rejected{Kind: KindGene, Index: i, Reason: "symbol is required"})
			continue
		}
		out.Genes = append(out.Genes, g)
	}

	for i, a := range ds.DiseaseGenes {
		a.DiseaseName = util.NormalizeName(a.DiseaseName)
		a.GeneSymbol = util.NormalizeName(a.GeneSymbol)
		switch {
		case a.DiseaseName == "":
			rejected = append(rejected, Rejected{Kind: KindAssociation, Index: i, Reason: "diseaseName is required"})
		case a.GeneSymbol == "":
			rejected = append(rejected, Rejected{Kind: KindAssociation, Index: i, Reason: "geneSymbol is required"})
		case math.IsNaN(a.Score) || math.IsInf(a.Score, 0) || a.Score < 0:
			rejected = append(rejected, Rejected{Kind: KindAssociation, Index: i, Reason: "score must be a non-negative number"})
		default:
			out.DiseaseGenes = append(out.DiseaseGenes, a)
		}
	}

	return out, rejected
}

// DedupeDiseases keeps one record per disgenet_id. The last occurrence wins
// and takes the position of the first.
func DedupeDiseases(rows []DiseaseRecord) []DiseaseRecord {
	return dedupeByKey(rows, func(d DiseaseRecord) string { return d.DisgenetID })
}

// DedupeGenes keeps one record per symbol, last occurrence wins.
func DedupeGenes(rows []GeneRecord) []GeneRecord {
	return dedupeByKey(rows, func(g GeneRecord) string { return g.Symbol })
}

func dedupeByKey[T any](rows []T, key func(T) string) []T {
	pos := make(map[string]int, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if i, ok := pos[k]; ok {
			out[i] = row
			continue
		}
		pos[k] = len(out)
		out = append(out, row)
	}
	return out
}
