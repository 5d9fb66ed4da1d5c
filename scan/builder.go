// Package scan builds the pre-edit scan: one timed entry per storyboard shot,
// aligned against the word-level transcription of the narration.
package scan

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/storyreel/preedit-pipeline/align"
	"github.com/storyreel/preedit-pipeline/project"
	"github.com/storyreel/preedit-pipeline/timecode"
)

const (
	// FallbackGap separates an unaligned shot from the previous entry.
	FallbackGap = 0.1
	// FallbackDuration is the length given to an unaligned shot.
	FallbackDuration = 3.0
)

// Builder turns a storyboard and a transcription into scan items.
type Builder struct {
	Aligner align.Aligner
	Log     logrus.FieldLogger
}

type Option func(*Builder)

// WithFuzzy enables the fuzzy alignment pass at threshold t.
func WithFuzzy(t float64) Option {
	return func(b *Builder) { b.Aligner.FuzzyThreshold = t }
}

// WithLogger sets the logger used for fallback and bad-timestamp reports.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Builder) { b.Log = l }
}

// New returns an exact-match Builder that logs nowhere unless told to.
func New(opts ...Option) *Builder {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	b := &Builder{Log: discard}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Generate builds a scan with the default Builder.
func Generate(storyboard []project.StoryboardRow, transcription []project.TranscriptionWord, selection project.ImageSelection) []project.PreEditScanItem {
	return New().Build(storyboard, transcription, selection)
}

// Build returns exactly one item per storyboard row, in order. Rows whose
// phrase cannot be located, or whose matched words carry bad timestamps,
// get FallbackDuration seconds starting FallbackGap after the previous item.
func (b *Builder) Build(storyboard []project.StoryboardRow, transcription []project.TranscriptionWord, selection project.ImageSelection) []project.PreEditScanItem {
	items := make([]project.PreEditScanItem, 0, len(storyboard))
	if len(storyboard) == 0 || len(transcription) == 0 {
		return items
	}

	words := make([]string, len(transcription))
	for i, w := range transcription {
		words[i] = align.NormalizeWord(w.Word)
	}

	prevEnd := 0.0
	for _, row := range storyboard {
		log := b.Log.WithFields(logrus.Fields{"shot": row.ShotNumber, "beat": row.BeatNumber})

		start, end, ok := b.locate(log, row, words, transcription)
		if !ok {
			start = prevEnd + FallbackGap
			end = start + FallbackDuration
			log.Debugf("no alignment for %q, using %.2f-%.2f", row.ScriptPhrase, start, end)
		}

		item := project.PreEditScanItem{
			BeatNumber: row.BeatNumber,
			Start:      timecode.Round2(start),
			End:        timecode.Round2(end),
			Text:       row.KineticText,
			Photo:      selection.URLFor(row.BeatNumber),
			SFX:        row.SFX,
			Fallback:   !ok,
		}
		items = append(items, item)
		prevEnd = item.End
	}
	return items
}

func (b *Builder) locate(log logrus.FieldLogger, row project.StoryboardRow, words []string, transcription []project.TranscriptionWord) (float64, float64, bool) {
	phrase := align.Normalize(row.ScriptPhrase)
	if len(phrase) == 0 {
		return 0, 0, false
	}
	span := b.Aligner.Align(words, phrase)
	if !span.Found() {
		return 0, 0, false
	}
	start, err := timecode.Parse(transcription[span.Start].StartTime)
	if err != nil {
		log.WithError(err).WithField("word", span.Start).Warn("bad start timestamp in transcription")
		return 0, 0, false
	}
	end, err := timecode.Parse(transcription[span.End].EndTime)
	if err != nil {
		log.WithError(err).WithField("word", span.End).Warn("bad end timestamp in transcription")
		return 0, 0, false
	}
	if span.Pass == align.PassFuzzy {
		log.Debugf("fuzzy alignment (score %.2f) for %q", span.Score, row.ScriptPhrase)
	}
	return start, end, true
}
