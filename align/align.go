// Package align locates storyboard script phrases inside a word-level
// transcription.
//
// Both sides are normalized the same way (lowercase, ". , ! ?" stripped,
// whitespace split) and compared as contiguous word sequences. The first
// exact occurrence wins. An Aligner may additionally run a fuzzy pass when
// the exact search misses; it is disabled unless a threshold is set.
package align

import (
	"strings"
)

var stripper = strings.NewReplacer(".", "", ",", "", "!", "", "?", "")

// NormalizeWord lowercases w and strips . , ! ?
func NormalizeWord(w string) string {
	return stripper.Replace(strings.ToLower(w))
}

// Normalize turns free text into comparable words. Empty tokens are dropped.
func Normalize(text string) []string {
	return strings.Fields(NormalizeWord(text))
}

// Pass identifies which search produced a match.
type Pass int

const (
	PassNone Pass = iota
	PassExact
	PassFuzzy
)

func (p Pass) String() string {
	switch p {
	case PassExact:
		return "exact"
	case PassFuzzy:
		return "fuzzy"
	}
	return "none"
}

// Span is an inclusive index range into the transcription words.
type Span struct {
	Start int
	End   int
	Pass  Pass
	Score float64
}

// NotFound is returned when the phrase does not occur.
var NotFound = Span{Start: -1, End: -1}

// Found reports whether s is a match.
func (s Span) Found() bool { return s.Start >= 0 }

// Find returns the earliest exact occurrence of phrase in transcript.
// An empty phrase never matches.
func Find(transcript, phrase []string) Span {
	n := len(phrase)
	if n == 0 || n > len(transcript) {
		return NotFound
	}
	want := strings.Join(phrase, " ")
	for i := 0; i+n <= len(transcript); i++ {
		if strings.Join(transcript[i:i+n], " ") == want {
			return Span{Start: i, End: i + n - 1, Pass: PassExact, Score: 1}
		}
	}
	return NotFound
}

// Aligner runs the exact search and, when FuzzyThreshold > 0, a fuzzy
// fallback pass. The zero value is an exact-only aligner.
type Aligner struct {
	// FuzzyThreshold is the minimum similarity (0..1] a window needs to be
	// accepted by the fuzzy pass. Zero disables the pass.
	FuzzyThreshold float64
}

// Align finds phrase in transcript.
func (a Aligner) Align(transcript, phrase []string) Span {
	if sp := Find(transcript, phrase); sp.Found() {
		return sp
	}
	if a.FuzzyThreshold <= 0 {
		return NotFound
	}
	return FindFuzzy(transcript, phrase, a.FuzzyThreshold)
}
