// Package transcribe produces and reads word-level transcriptions.
package transcribe

import (
	"context"
	"strings"

	"github.com/storyreel/preedit-pipeline/project"
	"github.com/storyreel/preedit-pipeline/timecode"
)

// Timing used when a transcription is estimated from the script alone.
const (
	BaseWordSec     = 0.1
	PerCharSec      = 0.05
	InterWordGapSec = 0.05
)

// Transcriber produces a word-level transcription of the narrated script.
type Transcriber interface {
	Transcribe(ctx context.Context, script string) ([]project.TranscriptionWord, error)
}

// Synthesize estimates word timings from the script text: each word lasts
// BaseWordSec plus PerCharSec per character, followed by InterWordGapSec.
func Synthesize(script string) []project.TranscriptionWord {
	fields := strings.Fields(script)
	words := make([]project.TranscriptionWord, 0, len(fields))
	t := 0.0
	for _, w := range fields {
		end := t + BaseWordSec + PerCharSec*float64(len([]rune(w)))
		words = append(words, project.TranscriptionWord{
			Word:      w,
			StartTime: timecode.Format(t),
			EndTime:   timecode.Format(end),
		})
		t = end + InterWordGapSec
	}
	return words
}

// SyntheticTranscriber is a Transcriber that never leaves the process.
type SyntheticTranscriber struct{}

func (SyntheticTranscriber) Transcribe(_ context.Context, script string) ([]project.TranscriptionWord, error) {
	return Synthesize(script), nil
}
