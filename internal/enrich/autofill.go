package enrich

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/contact-cli/internal/dataset"
	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/store"
)

// Fetcher resolves the contact record for one company. Satisfied by
// *Aggregator.
type Fetcher interface {
	CompanyInfo(ctx context.Context, company string) (model.CompanyRecord, error)
}

// Stats summarizes an autofill run.
type Stats struct {
	Processed int // rows fetched and merged
	Filled    int // cells written
	Skipped   int // rows without a usable firm name
	Failed    int // rows whose lookup errored
}

// EngineOptions configures an autofill Engine.
type EngineOptions struct {
	FirmColumn  string        // column holding the company name; default model.FirmColumn
	Delay       time.Duration // inter-row pacing delay; 0 disables pacing
	Concurrency int           // worker limit; values < 2 mean strictly sequential
	CacheTTL    time.Duration // journal TTL for completed lookups
}

// Engine runs company lookups over a dataset and fills empty cells. Cells
// that already hold a non-empty, non-sentinel value are never overwritten.
type Engine struct {
	fetcher Fetcher
	store   store.Store // optional; nil disables caching
	opts    EngineOptions
	pacer   *rate.Limiter
}

// NewEngine creates an autofill Engine. st may be nil to disable the
// lookup cache.
func NewEngine(fetcher Fetcher, st store.Store, opts EngineOptions) *Engine {
	if opts.FirmColumn == "" {
		opts.FirmColumn = model.FirmColumn
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	var pacer *rate.Limiter
	if opts.Delay > 0 {
		pacer = rate.NewLimiter(rate.Every(opts.Delay), 1)
		pacer.Allow() // spend the initial burst so the first wait paces too
	}

	return &Engine{fetcher: fetcher, store: st, opts: opts, pacer: pacer}
}

// Run processes every row of the table in place and returns run statistics.
// Lookup failures are logged with the firm name and do not abort the run;
// the error return is reserved for cancellation.
func (e *Engine) Run(ctx context.Context, table *dataset.Table) (*Stats, error) {
	var (
		mu    sync.Mutex
		stats Stats
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	for i := range table.Rows {
		i := i
		row := table.Rows[i]
		g.Go(func() error {
			company := strings.TrimSpace(row[e.opts.FirmColumn])
			if company == "" {
				zap.L().Warn("autofill: row has no firm name, skipping",
					zap.Int("row", i),
					zap.String("column", e.opts.FirmColumn),
				)
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				return nil
			}

			zap.L().Info("autofill: processing", zap.Int("row", i), zap.String("company", company))

			fields, err := e.fetch(gCtx, company)
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				zap.L().Error("autofill: lookup failed",
					zap.String("company", company),
					zap.Error(err),
				)
				mu.Lock()
				stats.Failed++
				mu.Unlock()
				return e.pace(gCtx)
			}

			mu.Lock()
			stats.Processed++
			stats.Filled += fillRow(row, fields)
			mu.Unlock()

			return e.pace(gCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return &stats, err
	}
	return &stats, nil
}

// fetch resolves company fields through the cache when a store is
// configured. Store failures degrade to an uncached lookup.
func (e *Engine) fetch(ctx context.Context, company string) (map[string]string, error) {
	if e.store != nil {
		cached, err := e.store.GetCached(ctx, company)
		if err != nil {
			zap.L().Warn("autofill: cache lookup failed", zap.String("company", company), zap.Error(err))
		}
		if cached != nil {
			zap.L().Debug("autofill: using cached lookup", zap.String("company", company))
			return cached, nil
		}
	}

	rec, err := e.fetcher.CompanyInfo(ctx, company)
	if err != nil {
		return nil, err
	}
	fields := rec.Fields()

	if e.store != nil {
		if err := e.store.Record(ctx, company, fields, e.opts.CacheTTL); err != nil {
			zap.L().Warn("autofill: cache record failed", zap.String("company", company), zap.Error(err))
		}
	}
	return fields, nil
}

// pace waits out the inter-row delay. Applied exactly once per row, after
// the row is processed.
func (e *Engine) pace(ctx context.Context) error {
	if e.pacer == nil {
		return nil
	}
	return e.pacer.Wait(ctx)
}

// fillRow applies the fill policy: a fetched value lands in a cell only if
// that cell is absent, empty, or holds the sentinel. Returns the number of
// cells written.
func fillRow(row dataset.Row, fields map[string]string) int {
	var filled int
	for key, value := range fields {
		if current, ok := row[key]; ok {
			if strings.TrimSpace(current) != "" && !model.IsSentinel(current) {
				continue
			}
		}
		row[key] = value
		filled++
	}
	return filled
}
