package games

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brogergvhs/comicsd/internal/failure"
	"github.com/brogergvhs/comicsd/internal/ui"
)

const msgNoQuery = "Tell me which game to search for."

type SearcherOptions struct {
	// Cache is optional; nil disables memoisation.
	Cache *Cache
	// Workers bounds concurrent detail fetches. Values below 1 mean 1.
	Workers int
	// Timeout bounds each RAWG request. Zero leaves only the client's own.
	Timeout  time.Duration
	Logger   *ui.Logger
	Progress *ui.MPBProgressManager
}

type Searcher struct {
	client   *Client
	cache    *Cache
	workers  int
	timeout  time.Duration
	log      *ui.Logger
	progress *ui.MPBProgressManager
}

func NewSearcher(c *Client, opts SearcherOptions) *Searcher {
	return &Searcher{
		client:   c,
		cache:    opts.Cache,
		workers:  max(opts.Workers, 1),
		timeout:  opts.Timeout,
		log:      opts.Logger,
		progress: opts.Progress,
	}
}

// Search returns one summary per RAWG hit, in RAWG's order. Any failed
// detail lookup fails the whole search.
func (s *Searcher) Search(ctx context.Context, query string) ([]Summary, error) {
	if strings.TrimSpace(query) == "" {
		return nil, failure.Invalid(msgNoQuery, nil)
	}

	if s.cache == nil {
		return s.search(ctx, query)
	}

	return s.cache.Load(ctx, query, func(fctx context.Context) ([]Summary, error) {
		s.log.Debugf("gamesearch: cache miss for %q\n", query)
		return s.search(fctx, query)
	})
}

func (s *Searcher) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.timeout)
}

func (s *Searcher) search(ctx context.Context, query string) ([]Summary, error) {
	sctx, cancel := s.bounded(ctx)
	results, err := s.client.search(sctx, query)
	cancel()
	if err != nil {
		return nil, err
	}

	s.log.Debugf("gamesearch: %d results for %q\n", len(results), query)
	out := make([]Summary, len(results))
	if len(results) == 0 {
		return out, nil
	}

	var ph *ui.ProgressHandle
	if s.progress != nil {
		ph = s.progress.Steps("details", len(results))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, r := range results {
		g.Go(func() error {
			dctx, cancel := s.bounded(gctx)
			defer cancel()

			d, err := s.client.detail(dctx, r.ID)
			if err != nil {
				return err
			}

			out[i] = summarize(r, d)
			ph.Increment()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		ph.Abort()
		return nil, err
	}
	ph.MarkDone()

	return out, nil
}
