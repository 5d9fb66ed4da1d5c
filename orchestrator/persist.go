package orchestrator

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/storyreel/preedit-pipeline/project"
)

// ManifestFile lists the session's styles and their stats.
const ManifestFile = "manifest.json"

func mkSessionDir(outputsRoot string, now time.Time) (string, string, error) {
	ts := now.Format("20060102-150405")
	sid := "scan_" + ts + "_" + uuid.NewString()[:8]
	dir := filepath.Join(outputsRoot, sid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	return sid, dir, nil
}

// persist writes <style>.json per style and the manifest into a fresh
// session directory under the configured outputs root.
func (p *Pipeline) persist(res *Result) error {
	sid, dir, err := mkSessionDir(p.cfg.Paths.Outputs, res.GeneratedAt)
	if err != nil {
		return err
	}
	res.SessionID, res.Dir = sid, dir

	for i := range res.Styles {
		r := &res.Styles[i]
		r.Path = filepath.Join(dir, string(r.Style)+".json")
		if err := project.WriteJSON(r.Path, r.Items); err != nil {
			return err
		}
	}
	return project.WriteJSON(filepath.Join(dir, ManifestFile), res)
}
