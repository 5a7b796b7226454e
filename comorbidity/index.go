package comorbidity

import "sort"

// Association links a disease to a gene with a non-negative score.
type Association struct {
	DiseaseID string
	GeneID    string
	Score     float64
}

// GeneSet is a set of gene identifiers.
type GeneSet map[string]struct{}

func NewGeneSet(ids ...string) GeneSet {
	s := make(GeneSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s GeneSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IntersectionSize counts the members shared with other, iterating the
// smaller of the two sets.
func (s GeneSet) IntersectionSize(other GeneSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for id := range small {
		if large.Has(id) {
			n++
		}
	}
	return n
}

// Sorted returns the members in lexical order.
func (s GeneSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Index maps a disease identifier to the genes associated with it. Diseases
// without associations are never present.
type Index map[string]GeneSet

// BuildIndex groups associations by disease. Repeated (disease, gene) pairs
// collapse into one membership; rows missing either identifier are ignored.
func BuildIndex(associations []Association) Index {
	idx := make(Index)
	for _, a := range associations {
		if a.DiseaseID == "" || a.GeneID == "" {
			continue
		}
		genes, ok := idx[a.DiseaseID]
		if !ok {
			genes = make(GeneSet)
			idx[a.DiseaseID] = genes
		}
		genes[a.GeneID] = struct{}{}
	}
	return idx
}

// DiseaseIDs returns the indexed diseases in lexical order.
func (idx Index) DiseaseIDs() []string {
	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// genesToDiseases inverts the index. Disease lists come out sorted because
// diseases are visited in lexical order.
func (idx Index) genesToDiseases() map[string][]string {
	inv := make(map[string][]string)
	for _, d := range idx.DiseaseIDs() {
		for g := range idx[d] {
			inv[g] = append(inv[g], d)
		}
	}
	return inv
}
