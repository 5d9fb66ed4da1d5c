package orchestrator

import (
	"context"
	"time"

	"github.com/storyreel/preedit-pipeline/clients"
	"github.com/storyreel/preedit-pipeline/project"
	"github.com/storyreel/preedit-pipeline/scan"
)

// Renderer receives a finished scan as an edit decision list.
type Renderer interface {
	Render(ctx context.Context, url string, req clients.RenderReq) (*clients.RenderResp, error)
}

type StyleResult struct {
	Style     project.Style             `json:"style"`
	Items     []project.PreEditScanItem `json:"-"`
	Stats     scan.Stats                `json:"stats"`
	Fallbacks []string                  `json:"fallback_beats,omitempty"`
	Path      string                    `json:"path"`
}

type Result struct {
	SessionID   string              `json:"session_id"`
	Project     string              `json:"project"`
	Dir         string              `json:"dir"`
	GeneratedAt time.Time           `json:"generated_at"`
	Transcribed bool                `json:"transcribed"` // transcription produced during this run
	Words       int                 `json:"words"`
	Styles      []StyleResult       `json:"styles"`
	Render      *clients.RenderResp `json:"render,omitempty"`
}

// Primary is the first style's result, or nil.
func (r *Result) Primary() *StyleResult {
	if r == nil || len(r.Styles) == 0 {
		return nil
	}
	return &r.Styles[0]
}
