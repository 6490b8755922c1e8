package pipeline

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// ErrNoImage reports a batch item with neither an image nor a path.
var ErrNoImage = errors.New("item has no image or path")

// Item is one line of a batch. Image wins over Path when both are set.
type Item struct {
	Name  string
	Path  string
	Image *raster.Gray

	// Label is carried through to the result untouched.
	Label string
}

// ItemResult is the outcome for one Item.
type ItemResult struct {
	Name   string
	Label  string
	Output *Output
	Err    error
}

// ProcessBatch processes items on up to Workers goroutines. Results keep
// the order of items. Once ctx is done, items that have not started fail
// with ctx.Err().
func (p *Pipeline) ProcessBatch(ctx context.Context, items []Item) []ItemResult {
	results := make([]ItemResult, len(items))
	for i, it := range items {
		results[i] = ItemResult{Name: it.Name, Label: it.Label}
	}

	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)

	for i := range items {
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Output, results[i].Err = p.processItem(items[i])
			if results[i].Err != nil {
				p.logger.Warn().Err(results[i].Err).Str("item", items[i].Name).Msg("line failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *Pipeline) processItem(it Item) (*Output, error) {
	switch {
	case it.Image != nil:
		return p.Process(it.Image)
	case it.Path != "":
		return p.ProcessFile(it.Path)
	}
	return nil, stageErr(StageDecode, ErrNoImage)
}

// ProcessSplits runs ProcessBatch over every split of a dataset, one split
// after another in name order.
func (p *Pipeline) ProcessSplits(ctx context.Context, splits map[string][]Item) map[string][]ItemResult {
	names := make([]string, 0, len(splits))
	for name := range splits {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string][]ItemResult, len(splits))
	for _, name := range names {
		p.logger.Info().Str("split", name).Int("items", len(splits[name])).Msg("processing split")
		out[name] = p.ProcessBatch(ctx, splits[name])
	}
	return out
}

// Failed counts the failed results.
func Failed(results []ItemResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
