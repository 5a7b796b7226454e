package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ariebrainware/comorbidity-network/comorbidity"
	"github.com/ariebrainware/comorbidity-network/logger"
	"github.com/ariebrainware/comorbidity-network/model"
)

const defaultBatchSize = 100

const (
	cypherConstraint = `CREATE CONSTRAINT disease_id_unique IF NOT EXISTS FOR (d:Disease) REQUIRE d.id IS UNIQUE`

	cypherNodes = `
UNWIND $rows AS row
MERGE (d:Disease {id: row.id})
SET d.name = row.name,
    d.disgenet_id = row.disgenet_id,
    d.category = row.category,
    d.synced_at = row.synced_at
`

	cypherEdges = `
UNWIND $rows AS row
MATCH (a:Disease {id: row.a})
MATCH (b:Disease {id: row.b})
MERGE (a)-[r:COMORBID_WITH]->(b)
SET r.shared_genes_count = row.shared_genes_count,
    r.jaccard_index = row.jaccard_index,
    r.score = row.score,
    r.synced_at = row.synced_at
`
)

// Projector mirrors diseases and comorbidity edges into Neo4j. A Projector
// with a nil client does nothing.
type Projector struct {
	client    *Client
	batchSize int
	log       *logger.Logger
}

func NewProjector(client *Client, batchSize int, log *logger.Logger) *Projector {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Projector{client: client, batchSize: batchSize, log: log.With("component", "GraphProjector")}
}

// Enabled reports whether a Neo4j client is configured.
func (p *Projector) Enabled() bool {
	return p != nil && p.client != nil && p.client.Driver != nil
}

// Sync upserts every disease as a node and every comorbidity as a
// COMORBID_WITH relationship from DiseaseA to DiseaseB. Edges whose endpoints
// are not in diseases are still sent; MATCH skips them.
func (p *Projector) Sync(ctx context.Context, diseases []model.Disease, recs []comorbidity.Comorbidity) error {
	if !p.Enabled() {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	nodes := diseaseRows(diseases, now)
	edges := edgeRows(recs, now)

	session := p.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: p.client.Database,
	})
	defer session.Close(ctx)

	if res, err := session.Run(ctx, cypherConstraint, nil); err != nil {
		p.log.Warn("neo4j schema init failed (continuing)", "error", err)
	} else {
		_, _ = res.Consume(ctx)
	}

	if err := p.writeBatches(ctx, session, cypherNodes, nodes); err != nil {
		return fmt.Errorf("graph: sync diseases: %w", err)
	}
	if err := p.writeBatches(ctx, session, cypherEdges, edges); err != nil {
		return fmt.Errorf("graph: sync comorbidities: %w", err)
	}
	p.log.Info("graph projection synced", "nodes", len(nodes), "edges", len(edges))
	return nil
}

func (p *Projector) writeBatches(ctx context.Context, session neo4j.SessionWithContext, cypher string, rows []map[string]any) error {
	for _, batch := range chunkRows(rows, p.batchSize) {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, cypher, map[string]any{"rows": batch})
			if err != nil {
				return nil, err
			}
			return res.Consume(ctx)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func diseaseRows(diseases []model.Disease, syncedAt string) []map[string]any {
	rows := make([]map[string]any, 0, len(diseases))
	for _, d := range diseases {
		if d.ID == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"id":          d.ID,
			"name":        d.Name,
			"disgenet_id": d.DisgenetID,
			"category":    d.Category,
			"synced_at":   syncedAt,
		})
	}
	return rows
}

func edgeRows(recs []comorbidity.Comorbidity, syncedAt string) []map[string]any {
	rows := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		if r.DiseaseA == "" || r.DiseaseB == "" || r.SharedGenes <= 0 {
			continue
		}
		rows = append(rows, map[string]any{
			"a":                  r.DiseaseA,
			"b":                  r.DiseaseB,
			"shared_genes_count": int64(r.SharedGenes),
			"jaccard_index":      r.JaccardIndex,
			"score":              r.Score,
			"synced_at":          syncedAt,
		})
	}
	return rows
}

func chunkRows(rows []map[string]any, size int) [][]map[string]any {
	if size <= 0 {
		size = defaultBatchSize
	}
	var out [][]map[string]any
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}
