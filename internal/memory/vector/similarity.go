package vector

import (
	"cmp"
	"math"
	"reflect"
	"slices"
)

// cosineSimilarity returns (a·b)/(|a||b|), or 0 for mismatched or zero vectors.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// matchesFilters reports whether every filter key is present in the record
// metadata with an equal value.
func matchesFilters(record VectorRecord, filters map[string]any) bool {
	for key, want := range filters {
		got, ok := record.Metadata[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// rankResults sorts by descending score, ties broken by ID, and truncates
// to topK.
func rankResults(results []VectorResult, topK int) []VectorResult {
	slices.SortFunc(results, func(a, b VectorResult) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Record.ID, b.Record.ID)
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// score applies the query to one record; ok is false if it is filtered out.
func score(query VectorQuery, record VectorRecord) (VectorResult, bool) {
	if !matchesFilters(record, query.Filters) {
		return VectorResult{}, false
	}
	s := cosineSimilarity(query.Embedding, record.Embedding)
	if s < query.MinScore {
		return VectorResult{}, false
	}
	return VectorResult{Record: record, Score: s}, true
}
