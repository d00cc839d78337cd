// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity scores how alike two normalized titles are on a 0-100
// scale. It combines character-level sequence similarity, token overlap, and
// character trigram overlap so that neither pure character-level nor pure
// token-level differences dominate the score.
package similarity

import "strings"

// Sub-score weights. Sequence similarity carries the most because it is the
// strongest signal for reorderings and small edits; the two Jaccard measures
// split the remainder.
const (
	seqWeight     = 0.4
	tokenWeight   = 0.3
	trigramWeight = 0.3
)

// Title returns the combined similarity of two normalized titles in
// [0, 100]. The function is symmetric. An empty input zeroes the affected
// sub-scores rather than producing an undefined result, so two empty
// strings score 0, not 100.
func Title(a, b string) float64 {
	seq := sequenceRatio(a, b)
	tok := jaccard(tokenSet(a), tokenSet(b))
	tri := jaccard(ngramSet(a, 3), ngramSet(b, 3))

	return (seq*seqWeight + tok*tokenWeight + tri*trigramWeight) * 100
}

// sequenceRatio is the Ratcliff/Obershelp matching-blocks ratio: twice the
// total length of all recursively longest matching blocks divided by the
// combined length. Equivalent to difflib's SequenceMatcher.ratio.
func sequenceRatio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// Block tie-breaking depends on which string is scanned first, and a
	// different winning block changes the recursive partition. Canonical
	// argument order keeps the ratio identical whichever way the pair
	// arrives.
	if a > b {
		a, b = b, a
	}
	matched := matchingBlocks([]byte(a), []byte(b))
	return 2 * float64(matched) / float64(len(a)+len(b))
}

// matchingBlocks returns the total length of matching blocks between a and
// b: the longest common substring, plus matching blocks of the pieces to
// its left and right.
func matchingBlocks(a, b []byte) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlocks(a[:ai], b[:bi])
	total += matchingBlocks(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonSubstring finds the longest block common to a and b using
// the rolling-map approach: j2len[j] is the length of the common suffix
// ending at a[i] and b[j]. Ties go to the lowest i, then the highest j.
func longestCommonSubstring(a, b []byte) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	j2len := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		// Iterate j descending so j2len[j-1] still holds the previous row.
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] != b[j] {
				j2len[j+1] = 0
				continue
			}
			k := j2len[j] + 1
			j2len[j+1] = k
			if k > size {
				ai, bi, size = i-k+1, j-k+1, k
			}
		}
	}
	return ai, bi, size
}

// tokenSet splits s into its whitespace-delimited words.
func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// ngramSet returns the set of all n-rune substrings of s. A non-empty
// string shorter than n runes contributes itself as a single gram so that
// identical short strings still score as identical.
func ngramSet(s string, n int) map[string]bool {
	set := make(map[string]bool)
	runes := []rune(s)
	if len(runes) > 0 && len(runes) < n {
		set[s] = true
		return set
	}
	for i := 0; i+n <= len(runes); i++ {
		set[string(runes[i:i+n])] = true
	}
	return set
}

// jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}
