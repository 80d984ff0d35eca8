package storer

import "math"

// Valid reports whether a record carries a vector of exactly size floats.
// Backends use it to skip malformed records instead of failing the batch.
func Valid(rec Record, size int) bool {
	if len(rec.Values) == 0 {
		return false
	}
	if size > 0 && len(rec.Values) != size {
		return false
	}
	return true
}

// CosineSimilarity is used by backends that rank in-process.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
