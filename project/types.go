package project

import (
	"encoding/json"
	"fmt"
	"strings"
)

// None is the storyboard collaborator's sentinel for an absent cue.
const None = "None"

// TranscriptionWord is one spoken word with SRT-style timestamps.
type TranscriptionWord struct {
	Word      string `json:"word"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// StoryboardRow is one shot. KineticText and SFX are nil when the
// storyboard says "None".
type StoryboardRow struct {
	ShotNumber     int     `json:"shot_number"`
	BeatNumber     string  `json:"beat_number"`
	ScriptPhrase   string  `json:"script_phrase"`
	TransitionType string  `json:"transition_type"`
	AIPrompt       string  `json:"ai_prompt"`
	TextOverlay    string  `json:"text_overlay"`
	KineticText    *string `json:"kinetic_text"`
	SFX            *string `json:"sfx"`
}

type rawStoryboardRow struct {
	ShotNumber     int     `json:"shot_number"`
	BeatNumber     string  `json:"beat_number"`
	ScriptPhrase   string  `json:"script_phrase"`
	TransitionType string  `json:"transition_type"`
	AIPrompt       string  `json:"ai_prompt"`
	TextOverlay    string  `json:"text_overlay"`
	KineticText    *string `json:"kinetic_text"`
	SFX            *string `json:"sfx"`
}

func (r *StoryboardRow) UnmarshalJSON(b []byte) error {
	var raw rawStoryboardRow
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = StoryboardRow(raw)
	r.KineticText = fromSentinel(raw.KineticText)
	r.SFX = fromSentinel(raw.SFX)
	return nil
}

func (r StoryboardRow) MarshalJSON() ([]byte, error) {
	raw := rawStoryboardRow(r)
	raw.KineticText = sentinel(r.KineticText)
	raw.SFX = sentinel(r.SFX)
	return json.Marshal(raw)
}

// Cue maps the "None" sentinel to nil. Any other value is kept as is.
func Cue(s string) *string {
	if s == None {
		return nil
	}
	return &s
}

func fromSentinel(p *string) *string {
	if p == nil {
		return nil
	}
	return Cue(*p)
}

func sentinel(p *string) *string {
	if p == nil {
		s := None
		return &s
	}
	return p
}

// Style is a visual style; each style has its own storyboard.
type Style string

const (
	StyleIllustration Style = "illustration"
	StyleClear        Style = "clear"
	StyleConsistent   Style = "consistent"
)

// Styles lists every known style in display order.
var Styles = []Style{StyleIllustration, StyleClear, StyleConsistent}

// ParseStyle validates s.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Styles {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown style %q (want illustration, clear or consistent)", s)
}

// SelectedImage is the image chosen for a beat.
type SelectedImage struct {
	Style Style  `json:"style"`
	URL   string `json:"url"`
}

// ImageSelection maps beat_number to the chosen image. Entries may be nil.
type ImageSelection map[string]*SelectedImage

// URLFor returns the selected URL for beat, or "" when nothing is selected.
func (s ImageSelection) URLFor(beat string) string {
	if img := s[beat]; img != nil {
		return img.URL
	}
	return ""
}

// PreEditScanItem is one entry of the aligned timeline.
type PreEditScanItem struct {
	BeatNumber string  `json:"beat_number"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       *string `json:"text"`
	Photo      string  `json:"photo"`
	SFX        *string `json:"sfx"`
	// Fallback is set when the row could not be aligned and got the default
	// interval.
	Fallback bool `json:"fallback,omitempty"`
}
