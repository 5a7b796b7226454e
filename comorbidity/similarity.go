// Package comorbidity derives disease-to-disease relationships from shared
// gene associations.
package comorbidity

// Jaccard returns |A ∩ B| / |A ∪ B| for two lists of gene identifiers.
// Duplicates inside a list are ignored. Two empty lists are defined as fully
// similar (1) while exactly one empty list yields 0.
func Jaccard(genesA, genesB []string) float64 {
	return JaccardSets(NewGeneSet(genesA...), NewGeneSet(genesB...))
}

// JaccardSets is Jaccard over already deduplicated sets.
func JaccardSets(a, b GeneSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := a.IntersectionSize(b)
	return jaccardFromCounts(shared, len(a), len(b))
}

// SimilarityScore weighs the shared gene count against the larger of the two
// gene sets, on a 0–100 scale. Unlike Jaccard, an empty side scores 0.
func SimilarityScore(sharedGenes, totalGenesA, totalGenesB int) float64 {
	if totalGenesA == 0 || totalGenesB == 0 {
		return 0
	}
	return float64(sharedGenes) / float64(max(totalGenesA, totalGenesB)) * 100
}

// jaccardFromCounts expects non-empty sets.
func jaccardFromCounts(shared, totalA, totalB int) float64 {
	union := totalA + totalB - shared
	return float64(shared) / float64(union)
}
