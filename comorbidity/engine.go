package comorbidity

import (
	"fmt"
	"sort"

	"github.com/ariebrainware/comorbidity-network/logger"
)

// LargeCatalogThreshold is the disease count above which the all-pairs
// strategy is reported as a known scaling limitation.
const LargeCatalogThreshold = 5000

// Comorbidity is the derived relationship between two diseases that share at
// least one gene. DiseaseA always sorts before DiseaseB.
type Comorbidity struct {
	DiseaseA     string
	DiseaseB     string
	SharedGenes  int
	JaccardIndex float64
	Score        float64
}

// PairKey returns the canonical (ordered) form of an unordered disease pair.
func PairKey(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

func newComorbidity(a, b string, shared, sizeA, sizeB int) Comorbidity {
	a, b = PairKey(a, b)
	return Comorbidity{
		DiseaseA:     a,
		DiseaseB:     b,
		SharedGenes:  shared,
		JaccardIndex: jaccardFromCounts(shared, sizeA, sizeB),
		Score:        SimilarityScore(shared, sizeA, sizeB),
	}
}

// ComputePairs evaluates every unordered pair of indexed diseases and keeps
// those sharing at least one gene. It is quadratic in the number of diseases.
func ComputePairs(idx Index) []Comorbidity {
	ids := idx.DiseaseIDs()
	out := make([]Comorbidity, 0)
	for i := 0; i < len(ids); i++ {
		genesA := idx[ids[i]]
		for j := i + 1; j < len(ids); j++ {
			genesB := idx[ids[j]]
			shared := genesA.IntersectionSize(genesB)
			if shared == 0 {
				continue
			}
			out = append(out, newComorbidity(ids[i], ids[j], shared, len(genesA), len(genesB)))
		}
	}
	return out
}

// ComputePairsIndexed returns the same records as ComputePairs but only
// visits pairs that co-occur on some gene, found through a gene→diseases
// index.
func ComputePairsIndexed(idx Index) []Comorbidity {
	inv := idx.genesToDiseases()
	out := make([]Comorbidity, 0)
	for _, a := range idx.DiseaseIDs() {
		genesA := idx[a]
		shared := make(map[string]int)
		for g := range genesA {
			for _, b := range inv[g] {
				if b > a {
					shared[b]++
				}
			}
		}
		partners := make([]string, 0, len(shared))
		for b := range shared {
			partners = append(partners, b)
		}
		sort.Strings(partners)
		for _, b := range partners {
			out = append(out, newComorbidity(a, b, shared[b], len(genesA), len(idx[b])))
		}
	}
	return out
}

// Strategy selects how candidate pairs are enumerated.
type Strategy string

const (
	StrategyNaive   Strategy = "naive"
	StrategyIndexed Strategy = "indexed"
)

// ParseStrategy maps a configuration value to a Strategy. Empty selects the
// indexed strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyIndexed:
		return StrategyIndexed, nil
	case StrategyNaive:
		return StrategyNaive, nil
	default:
		return "", fmt.Errorf("unknown comorbidity strategy %q", s)
	}
}

// Engine runs the pairwise computation with a configured strategy.
type Engine struct {
	strategy Strategy
	log      *logger.Logger
}

func NewEngine(strategy Strategy, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{strategy: strategy, log: log.With("component", "ComorbidityEngine")}
}

// Strategy reports the enumeration strategy in use.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Compute derives all comorbidity records for the index. Records are ordered
// by (DiseaseA, DiseaseB).
func (e *Engine) Compute(idx Index) []Comorbidity {
	var out []Comorbidity
	switch e.strategy {
	case StrategyNaive:
		if len(idx) > LargeCatalogThreshold {
			e.log.Warn("all-pairs comparison on a large catalog is quadratic",
				"diseases", len(idx), "threshold", LargeCatalogThreshold)
		}
		out = ComputePairs(idx)
	default:
		out = ComputePairsIndexed(idx)
	}
	e.log.Info("comorbidities computed", "strategy", string(e.strategy), "diseases", len(idx), "comorbidities", len(out))
	return out
}
