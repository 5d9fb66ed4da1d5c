package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/storyreel/preedit-pipeline/project"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "does-not-exist")
	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Transcription.Engine != EngineSynthetic || cfg.Alignment.FuzzyThreshold != 0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	styles, err := cfg.StyleList()
	if err != nil || len(styles) != len(project.Styles) {
		t.Errorf("styles = %v, %v", styles, err)
	}
	if cfg.CacheTTL() != 24*time.Hour {
		t.Errorf("ttl = %v", cfg.CacheTTL())
	}
}

func TestLoadFileOverDefaults(t *testing.T) {
	p := writeFile(t, `
pipeline:
  log_level: debug
alignment:
  fuzzy_threshold: 0.75
styles: [clear]
services:
  render:
    url: http://render:9000
`)
	v := NewViper()
	v.Set("config", p)
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.LogLvl != "debug" || cfg.Alignment.FuzzyThreshold != 0.75 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if len(cfg.Styles) != 1 || cfg.Styles[0] != "clear" {
		t.Errorf("styles = %v", cfg.Styles)
	}
	if cfg.Services.Render.URL != "http://render:9000" {
		t.Errorf("render url = %q", cfg.Services.Render.URL)
	}
	if cfg.Paths.Outputs != "outputs" || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	p := writeFile(t, "paths:\n  outputs: from-file\n")
	t.Setenv("REEL_OUTPUTS", "/tmp/reel-out")
	t.Setenv("REEL_FUZZY", "0.5")
	t.Setenv("REEL_STYLES", "clear,consistent")
	t.Setenv("REEL_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	v := NewViper()
	v.Set("config", p)
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.Outputs != "/tmp/reel-out" {
		t.Errorf("outputs = %q", cfg.Paths.Outputs)
	}
	if cfg.Alignment.FuzzyThreshold != 0.5 {
		t.Errorf("fuzzy = %v", cfg.Alignment.FuzzyThreshold)
	}
	if len(cfg.Styles) != 2 || cfg.Styles[1] != "consistent" {
		t.Errorf("styles = %v", cfg.Styles)
	}
	if cfg.Transcription.OpenAIKey != "sk-env" {
		t.Errorf("openai key = %q", cfg.Transcription.OpenAIKey)
	}
}

func TestLoadErrors(t *testing.T) {
	v := NewViper()
	v.Set("config", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(v); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing explicit file: err = %v", err)
	}

	cases := map[string]string{
		"bad yaml":   "pipeline: [",
		"bad engine": "transcription:\n  engine: whisper\n",
		"bad fuzzy":  "alignment:\n  fuzzy_threshold: 1.5\n",
		"bad style":  "styles: [watercolor]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			v := NewViper()
			v.Set("config", writeFile(t, body))
			if _, err := Load(v); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestEmptyFile(t *testing.T) {
	v := NewViper()
	v.Set("config", writeFile(t, ""))
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}
