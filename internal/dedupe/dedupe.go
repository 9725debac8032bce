// Package dedupe collapses near-duplicate parsed references by title
// similarity.
package dedupe

import (
	"strings"

	"github.com/refsift/refsift/internal/reference"
)

// SimilarityThreshold is the title similarity above which two records are
// treated as the same underlying work.
const SimilarityThreshold = 0.85

// Merge collapses near-duplicates in one document's reference list. When a
// duplicate pair is found, the record with strictly higher confidence
// survives; on a tie the earlier (already accumulated) record wins. Records
// are never field-merged, only selected whole.
func Merge(refs []reference.ParsedReference) []reference.ParsedReference {
	var unique []reference.ParsedReference

	for _, ref := range refs {
		duplicate := false
		for i, existing := range unique {
			if Similarity(ref.Title, existing.Title) > SimilarityThreshold {
				duplicate = true
				if ref.Confidence > existing.Confidence {
					unique[i] = ref
				}
				break
			}
		}
		if !duplicate {
			unique = append(unique, ref)
		}
	}

	return unique
}

// Similarity scores two titles in [0, 1] as the mean of a character-sequence
// ratio and a Jaccard similarity over lower-cased word sets. Either side
// being empty yields 0, so untitled records are never considered duplicates
// by this metric alone.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	s1 := strings.ToLower(strings.TrimSpace(a))
	s2 := strings.ToLower(strings.TrimSpace(b))

	charSim := sequenceRatio(s1, s2)
	wordSim := jaccard(strings.Fields(s1), strings.Fields(s2))

	return (charSim + wordSim) / 2
}

// sequenceRatio is the classic matching-blocks ratio: twice the number of
// matching characters (found by recursively locating longest common
// substrings) over the total length of both strings.
func sequenceRatio(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 0.0
	}
	ra, rb := []rune(a), []rune(b)
	matched := matchingRunes(ra, 0, len(ra), rb, 0, len(rb))
	return 2.0 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingRunes counts matching runes between a[alo:ahi] and b[blo:bhi] by
// finding the longest common substring and recursing on both sides.
func matchingRunes(a []rune, alo, ahi int, b []rune, blo, bhi int) int {
	besti, bestj, bestsize := longestMatch(a, alo, ahi, b, blo, bhi)
	if bestsize == 0 {
		return 0
	}
	total := bestsize
	total += matchingRunes(a, alo, besti, b, blo, bestj)
	total += matchingRunes(a, besti+bestsize, ahi, b, bestj+bestsize, bhi)
	return total
}

// longestMatch finds the longest run of equal runes between the two slices
// within the given bounds. Ties favor the earliest match in a, then in b.
func longestMatch(a []rune, alo, ahi int, b []rune, blo, bhi int) (int, int, int) {
	besti, bestj, bestsize := alo, blo, 0

	// lengths[j] holds the length of the match ending at a[i-1], b[j-1].
	lengths := make([]int, bhi-blo+1)
	for i := alo; i < ahi; i++ {
		prev := 0
		for j := blo; j < bhi; j++ {
			cur := lengths[j-blo+1]
			if a[i] == b[j] {
				size := prev + 1
				lengths[j-blo+1] = size
				if size > bestsize {
					besti, bestj, bestsize = i-size+1, j-size+1, size
				}
			} else {
				lengths[j-blo+1] = 0
			}
			prev = cur
		}
	}

	return besti, bestj, bestsize
}

// jaccard computes set overlap over unique words.
func jaccard(wordsA, wordsB []string) float64 {
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	setA := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		setB[w] = struct{}{}
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}
