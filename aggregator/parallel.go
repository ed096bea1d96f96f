package aggregator

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rulego/maxintersect/logger"
	"github.com/rulego/maxintersect/metrics"
)

// ctxCheckInterval is how many rows a worker adds between context checks
const ctxCheckInterval = 1024

// ParallelAggregate splits rows into contiguous chunks, aggregates each
// chunk into its own partial of proto and merges the partials pairwise.
// proto itself is not modified; the merged result is returned.
// workers <= 0 uses runtime.NumCPU().
//
// Each partial counts into its own stats collector. The counters reach the
// collector of proto only when the whole batch succeeds; a failed batch
// contributes nothing but its error count.
func ParallelAggregate(ctx context.Context, proto *GroupAggregator, rows []interface{}, workers int) (*GroupAggregator, error) {
	if proto == nil {
		return nil, fmt.Errorf("%w: nil aggregator", ErrInvalidConfig)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(rows) {
		workers = len(rows)
	}
	workers = max(workers, 1)

	shared := proto.Stats()
	partials := make([]*GroupAggregator, workers)
	for i := range partials {
		partials[i] = proto.NewPartial()
		if shared != nil {
			partials[i].SetStats(metrics.NewStatsCollector())
		}
	}
	collectors := make([]*metrics.StatsCollector, workers)
	for i, p := range partials {
		collectors[i] = p.Stats()
	}

	out, err := aggregatePartials(ctx, partials, rows)
	if err != nil {
		for _, c := range collectors {
			shared.AddErrors(c.Errors())
		}
		return nil, err
	}
	for _, c := range collectors {
		shared.Add(c)
	}
	out.SetStats(shared)
	return out, nil
}

func aggregatePartials(ctx context.Context, partials []*GroupAggregator, rows []interface{}) (*GroupAggregator, error) {
	if len(partials) == 1 {
		if err := addRows(ctx, partials[0], rows, 0); err != nil {
			return nil, err
		}
		return partials[0], nil
	}

	workers := len(partials)
	chunk := (len(rows) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range partials {
		lo := i * chunk
		hi := min(lo+chunk, len(rows))
		if lo >= hi {
			continue
		}
		p := p
		g.Go(func() error {
			return addRows(gctx, p, rows[lo:hi], lo)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("aggregated %d rows with %d workers", len(rows), workers)

	return mergeTree(ctx, partials)
}

func addRows(ctx context.Context, ga *GroupAggregator, rows []interface{}, offset int) error {
	for i, row := range rows {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := ga.Add(row); err != nil {
			return fmt.Errorf("row %d: %w", offset+i, err)
		}
	}
	return nil
}

// mergeTree merges partials in rounds of disjoint pairs
func mergeTree(ctx context.Context, partials []*GroupAggregator) (*GroupAggregator, error) {
	for len(partials) > 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var g errgroup.Group
		next := make([]*GroupAggregator, 0, (len(partials)+1)/2)
		for i := 0; i+1 < len(partials); i += 2 {
			dst, src := partials[i], partials[i+1]
			g.Go(func() error {
				return dst.Merge(src)
			})
			next = append(next, dst)
		}
		if len(partials)%2 == 1 {
			next = append(next, partials[len(partials)-1])
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		partials = next
	}
	return partials[0], nil
}
