// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package recommend

import "math"

// Cosine computes the cosine similarity between two sparse rating vectors.
//
// The dot product runs over the co-rated dimensions only; the norms run
// over each full vector, so a large non-overlapping remainder dilutes
// the score instead of two single-overlap vectors scoring as identical.
//
// The result is in [-1, 1]. The second return value is false when the
// similarity is undefined: either vector is empty, has zero norm, or the
// vectors share no dimension. Callers must treat undefined as "ineligible
// neighbor", never as similarity 0.
//
// Cosine is pure and symmetric; Cosine(a, a) is 1 for any non-empty a.
func Cosine[K comparable](a, b map[K]float64) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}

	// Iterate the smaller vector for the intersection.
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	var dot float64
	overlap := false
	for k, sv := range small {
		if lv, ok := large[k]; ok {
			dot += sv * lv
			overlap = true
		}
	}
	if !overlap {
		return 0, false
	}

	var normA, normB float64
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Float rounding can push an exact match a hair past 1.
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return sim, true
}
