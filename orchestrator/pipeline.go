// Package orchestrator runs the pre-edit scan over a project directory.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/storyreel/preedit-pipeline/clients"
	cfg "github.com/storyreel/preedit-pipeline/config"
	"github.com/storyreel/preedit-pipeline/project"
	"github.com/storyreel/preedit-pipeline/scan"
	"github.com/storyreel/preedit-pipeline/transcribe"
)

// ErrNoStoryboards is returned when none of the configured styles has a
// storyboard in the project.
var ErrNoStoryboards = errors.New("no storyboards for the configured styles")

type Pipeline struct {
	cfg         *cfg.Root
	transcriber transcribe.Transcriber
	renderer    Renderer
	render      bool
	log         logrus.FieldLogger
	now         func() time.Time
}

type Option func(*Pipeline)

func WithTranscriber(t transcribe.Transcriber) Option {
	return func(p *Pipeline) { p.transcriber = t }
}

// WithRenderer posts the primary style's scan to r after every run.
func WithRenderer(r Renderer) Option {
	return func(p *Pipeline) { p.renderer, p.render = r, true }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.log = l }
}

func NewPipeline(c *cfg.Root, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:         c,
		transcriber: transcribe.SyntheticTranscriber{},
		log:         logrus.StandardLogger(),
		now:         time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) Run(ctx context.Context, projectDir string) (*Result, error) {
	store, err := project.Open(projectDir)
	if err != nil {
		return nil, err
	}
	log := p.log.WithField("project", store.Root)

	words, transcribed, err := p.transcription(ctx, store)
	if err != nil {
		return nil, err
	}
	selection, err := store.LoadImageSelection()
	if err != nil {
		return nil, err
	}

	styles, err := p.styles(store)
	if err != nil {
		return nil, err
	}

	builder := scan.New(
		scan.WithFuzzy(p.cfg.Alignment.FuzzyThreshold),
		scan.WithLogger(log),
	)
	results, err := p.scanStyles(ctx, builder, store, styles, words, selection)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Project:     store.Root,
		GeneratedAt: p.now(),
		Transcribed: transcribed,
		Words:       len(words),
		Styles:      results,
	}
	if err := p.persist(res); err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	log = log.WithField("session", res.SessionID)
	for _, r := range res.Styles {
		log.WithFields(logrus.Fields{
			"style":    r.Style,
			"matched":  r.Stats.Matched,
			"fallback": r.Stats.Fallback,
			"duration": r.Stats.Duration,
		}).Info("pre-edit scan written")
	}

	if p.render {
		primary := res.Primary()
		rr, err := p.renderer.Render(ctx, p.cfg.Services.Render.URL, clients.RenderReq{
			Project:   store.Root,
			Style:     string(primary.Style),
			Items:     primary.Items,
			OutputDir: res.Dir,
		})
		if err != nil {
			return res, fmt.Errorf("render: %w", err)
		}
		res.Render = rr
		log.WithField("path", rr.Path).Info("render requested")
	}
	return res, nil
}

// transcription loads the project transcription or produces one from the
// script and saves it next to the script as JSON and SRT.
func (p *Pipeline) transcription(ctx context.Context, store *project.Store) ([]project.TranscriptionWord, bool, error) {
	words, err := store.LoadTranscription()
	if err == nil {
		return words, false, nil
	}
	if !errors.Is(err, project.ErrNotFound) {
		return nil, false, err
	}

	script, err := store.LoadScript()
	if err != nil {
		return nil, false, err
	}
	words, err = p.transcriber.Transcribe(ctx, script)
	if err != nil {
		return nil, false, fmt.Errorf("transcribe: %w", err)
	}
	if err := SaveTranscription(store, words); err != nil {
		return nil, false, err
	}
	p.log.WithField("words", len(words)).Info("transcription generated")
	return words, true, nil
}

// SaveTranscription writes words as transcription.json and transcription.srt.
func SaveTranscription(store *project.Store, words []project.TranscriptionWord) error {
	if err := store.SaveTranscription(words); err != nil {
		return err
	}
	w, err := store.CreateSRT()
	if err != nil {
		return err
	}
	if err := transcribe.WriteSRT(w, words); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// styles returns the configured styles that have a storyboard on disk.
func (p *Pipeline) styles(store *project.Store) ([]project.Style, error) {
	want, err := p.cfg.StyleList()
	if err != nil {
		return nil, err
	}
	have, err := store.Styles()
	if err != nil {
		return nil, err
	}
	present := map[project.Style]bool{}
	for _, st := range have {
		present[st] = true
	}
	var out []project.Style
	for _, st := range want {
		if present[st] {
			out = append(out, st)
		} else {
			p.log.WithField("style", st).Debug("no storyboard, skipping style")
		}
	}
	if len(out) == 0 {
		return nil, ErrNoStoryboards
	}
	return out, nil
}
