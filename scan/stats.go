package scan

import "github.com/storyreel/preedit-pipeline/project"

// Stats summarizes a scan.
type Stats struct {
	Total    int     `json:"total"`
	Matched  int     `json:"matched"`
	Fallback int     `json:"fallback"`
	Duration float64 `json:"duration"`
}

// Summary counts matched and fallback rows; Duration is the last end time.
func Summary(items []project.PreEditScanItem) Stats {
	s := Stats{Total: len(items)}
	for _, it := range items {
		if it.Fallback {
			s.Fallback++
		} else {
			s.Matched++
		}
		if it.End > s.Duration {
			s.Duration = it.End
		}
	}
	return s
}

// Fallbacks returns the beat numbers that used fallback timing.
func Fallbacks(items []project.PreEditScanItem) []string {
	var out []string
	for _, it := range items {
		if it.Fallback {
			out = append(out, it.BeatNumber)
		}
	}
	return out
}
