package transcribe

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/storyreel/preedit-pipeline/project"
	"github.com/storyreel/preedit-pipeline/timecode"
)

// WriteSRT writes one cue per word.
func WriteSRT(w io.Writer, words []project.TranscriptionWord) error {
	bw := bufio.NewWriter(w)
	for i, word := range words {
		if i > 0 {
			bw.WriteString("\n")
		}
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n", i+1, word.StartTime, word.EndTime, word.Word)
	}
	return bw.Flush()
}

var cueTimeRe = regexp.MustCompile(`^(\S+)\s+-->\s+(\S+)`)

// ParseSRT reads an SRT file into words. Cues holding several words are
// split evenly across the cue interval. Cue numbers are optional.
func ParseSRT(r io.Reader) ([]project.TranscriptionWord, error) {
	var (
		out   []project.TranscriptionWord
		start float64
		end   float64
		text  []string
		inCue bool
		line  int
	)
	flush := func() {
		if inCue {
			out = append(out, SplitInterval(start, end, strings.Join(text, " "))...)
		}
		inCue, text = false, nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		s := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if s == "" {
			flush()
			continue
		}
		if m := cueTimeRe.FindStringSubmatch(s); m != nil {
			flush()
			var err error
			if start, err = timecode.Parse(m[1]); err != nil {
				return nil, fmt.Errorf("srt line %d: %w", line, err)
			}
			if end, err = timecode.Parse(m[2]); err != nil {
				return nil, fmt.Errorf("srt line %d: %w", line, err)
			}
			inCue = true
			continue
		}
		if !inCue {
			if _, err := strconv.Atoi(s); err == nil {
				continue
			}
			return nil, fmt.Errorf("srt line %d: unexpected text %q", line, s)
		}
		text = append(text, s)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return out, nil
}

// SplitInterval spreads the words of text evenly over [start, end].
func SplitInterval(start, end float64, text string) []project.TranscriptionWord {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	step := (end - start) / float64(len(fields))
	out := make([]project.TranscriptionWord, len(fields))
	for i, f := range fields {
		s := start + step*float64(i)
		e := s + step
		if i == len(fields)-1 {
			e = end
		}
		out[i] = project.TranscriptionWord{Word: f, StartTime: timecode.Format(s), EndTime: timecode.Format(e)}
	}
	return out
}
