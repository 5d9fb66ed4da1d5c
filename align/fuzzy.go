package align

// FindFuzzy looks for the transcript window that best resembles phrase.
//
// Windows range from len(phrase)-slack to len(phrase)+slack words, with
// slack = 1 + len(phrase)/4, so a contraction or a dropped word on either
// side can still line up. A window scores 2*LCS/(len(phrase)+len(window)).
// The best window at or above threshold wins; ties go to the earliest start
// and then the shortest window. The returned span is trimmed to words that
// occur in the phrase.
func FindFuzzy(transcript, phrase []string, threshold float64) Span {
	n := len(phrase)
	if n == 0 || len(transcript) == 0 {
		return NotFound
	}
	slack := 1 + n/4
	minW, maxW := n-slack, n+slack
	if minW < 1 {
		minW = 1
	}

	best := NotFound
	for i := range transcript {
		for w := minW; w <= maxW && i+w <= len(transcript); w++ {
			l := lcs(transcript[i:i+w], phrase)
			if l == 0 {
				continue
			}
			score := 2 * float64(l) / float64(n+w)
			if score > best.Score {
				best = Span{Start: i, End: i + w - 1, Pass: PassFuzzy, Score: score}
			}
		}
	}
	if !best.Found() || best.Score < threshold {
		return NotFound
	}

	in := make(map[string]bool, n)
	for _, p := range phrase {
		in[p] = true
	}
	for best.Start < best.End && !in[transcript[best.Start]] {
		best.Start++
	}
	for best.End > best.Start && !in[transcript[best.End]] {
		best.End--
	}
	return best
}

func lcs(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
