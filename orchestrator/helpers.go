package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/storyreel/preedit-pipeline/project"
	"github.com/storyreel/preedit-pipeline/scan"
)

// scanStyles builds one scan per style concurrently. Styles share only the
// read-only transcription and selection. Results keep the order of styles.
func (p *Pipeline) scanStyles(
	ctx context.Context,
	b *scan.Builder,
	store *project.Store,
	styles []project.Style,
	words []project.TranscriptionWord,
	selection project.ImageSelection,
) ([]StyleResult, error) {
	out := make([]StyleResult, len(styles))
	errs := make([]error, len(styles))

	var wg sync.WaitGroup
	for i, st := range styles {
		wg.Add(1)
		go func(i int, st project.Style) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			rows, err := store.LoadStoryboard(st)
			if err != nil {
				errs[i] = fmt.Errorf("style %s: %w", st, err)
				return
			}
			items := b.Build(rows, words, selection)
			out[i] = StyleResult{
				Style:     st,
				Items:     items,
				Stats:     scan.Summary(items),
				Fallbacks: scan.Fallbacks(items),
			}
		}(i, st)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
