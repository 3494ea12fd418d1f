package retrieval

import "math"

// epsilon guards the cosine denominator against a zero-norm vector.
const epsilon = 1e-8

// cosineSimilarity computes dot(a,b) / (|a|*|b| + eps) in float64. Returns a
// value in [-1, 1]. Mismatched lengths score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + epsilon)
}
