package clients

import (
	"context"

	"github.com/storyreel/preedit-pipeline/project"
)

// --- Renderer (/render) ---
type RenderReq struct {
	Project      string                    `json:"project"`
	Style        string                    `json:"style"`
	VoiceoverURL string                    `json:"voiceover_url,omitempty"`
	Items        []project.PreEditScanItem `json:"items"`
	OutputDir    string                    `json:"output_dir,omitempty"`
}

type RenderResp struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

// Render posts an ordered scan to the renderer as its edit decision list.
func (h *HTTP) Render(ctx context.Context, url string, req RenderReq) (*RenderResp, error) {
	var out RenderResp
	if err := h.postJSON(ctx, "render", url+"/render", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
