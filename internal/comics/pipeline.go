package comics

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/comicsd/internal/dates"
	"github.com/brogergvhs/comicsd/internal/downloader"
	"github.com/brogergvhs/comicsd/internal/failure"
	"github.com/brogergvhs/comicsd/internal/ui"
)

const msgNoDate = "There is no comic available for this date."

// Fetcher is the network side of the pipeline. *downloader.Downloader
// satisfies it.
type Fetcher interface {
	Document(ctx context.Context, target string) (*goquery.Document, error)
	Image(ctx context.Context, target, referer string, ph *ui.ProgressHandle) (*downloader.Image, error)
}

// Result is a downloaded strip ready for delivery.
type Result struct {
	Source      string
	Filename    string
	Data        []byte
	ContentType string
	ImageURL    string
	Extra       map[string]string
}

type PipelineOptions struct {
	Logger   *ui.Logger
	Progress *ui.MPBProgressManager
	// Rand seeds date sampling and random picks. Nil means a fresh PCG
	// seeded from the clock.
	Rand *rand.Rand
	Now  func() time.Time
}

type Pipeline struct {
	fetch    Fetcher
	log      *ui.Logger
	progress *ui.MPBProgressManager
	now      func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewPipeline(f Fetcher, opts PipelineOptions) *Pipeline {
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Pipeline{
		fetch:    f,
		log:      opts.Logger,
		progress: opts.Progress,
		now:      now,
		rng:      rng,
	}
}

// Resolve turns the optional command argument into a Mode.
func (p *Pipeline) Resolve(r Rule, raw string) (Mode, error) {
	raw = strings.TrimSpace(raw)

	if raw == "" {
		if r.DateRequired {
			return Mode{}, failure.Invalid(fmt.Sprintf(
				"There is no random search feature for this comic. Please use a date with this command, formatted like `%s`.",
				r.Example), nil)
		}

		if !r.Dated() {
			return Random(), nil
		}

		w, err := r.Window(p.now())
		if err != nil {
			return Mode{}, outOfRange(r, err)
		}

		p.mu.Lock()
		d, err := dates.Sample(p.rng, w)
		p.mu.Unlock()
		if err != nil {
			return Mode{}, outOfRange(r, err)
		}

		return On(d), nil
	}

	if r.RandomOnly || !r.Dated() {
		p.log.Debugf("%s: ignoring argument %q\n", r.ID, raw)
		return Random(), nil
	}

	w, err := r.Window(p.now())
	if err != nil {
		return Mode{}, outOfRange(r, err)
	}

	d, err := dates.Parse(raw, w)
	switch {
	case err == nil:
		return On(d), nil
	case errors.Is(err, dates.ErrOutOfRange):
		return Mode{}, outOfRange(r, err)
	default:
		return Mode{}, failure.Invalid(
			fmt.Sprintf("That doesn't seem like a valid date. Try a format like `%s`.", r.Example), err)
	}
}

func outOfRange(r Rule, err error) error {
	return failure.Invalid(fmt.Sprintf("This comic can only be used on dates between %s.", r.RangeText()), err)
}

// Fetch resolves raw and runs the pipeline.
func (p *Pipeline) Fetch(ctx context.Context, r Rule, raw string) (*Result, error) {
	m, err := p.Resolve(r, raw)
	if err != nil {
		return nil, err
	}

	return p.Run(ctx, r, m)
}

// Run fetches the page for m, follows the optional pick, extracts the image
// URL and downloads it. Every step is attempted once.
func (p *Pipeline) Run(ctx context.Context, r Rule, m Mode) (*Result, error) {
	target := r.URL(m)
	p.log.Debugf("%s: page %s\n", r.ID, target)

	doc, err := p.fetch.Document(ctx, target)
	if err != nil {
		return nil, err
	}

	if r.Pick != nil {
		p.mu.Lock()
		next, err := r.Pick(doc, p.rng)
		p.mu.Unlock()
		if err != nil {
			return nil, err
		}

		p.log.Debugf("%s: picked %s\n", r.ID, next)
		if doc, err = p.fetch.Document(ctx, next); err != nil {
			return nil, err
		}
	}

	ext, err := r.Extract(r, doc)
	if err != nil {
		if !m.IsRandom() && failure.Is(err, failure.NotFound) {
			return nil, failure.Missing(msgNoDate)
		}
		return nil, err
	}

	if r.TrustedPrefix != "" && !strings.HasPrefix(ext.ImageURL, r.TrustedPrefix) {
		p.log.Warnf("%s: dropping untrusted image %s\n", r.ID, ext.ImageURL)
		return nil, failure.Missing(msgNoImage)
	}

	p.log.Debugf("%s: image %s\n", r.ID, ext.ImageURL)

	var ph *ui.ProgressHandle
	if p.progress != nil {
		ph = p.progress.Bytes(r.ID)
	}

	referer := ""
	if doc.Url != nil {
		referer = doc.Url.String()
	}

	img, err := p.fetch.Image(ctx, ext.ImageURL, referer, ph)
	if err != nil {
		return nil, err
	}

	return &Result{
		Source:      r.ID,
		Filename:    r.Filename(m, ext),
		Data:        img.Data,
		ContentType: img.ContentType,
		ImageURL:    ext.ImageURL,
		Extra:       ext.Extra,
	}, nil
}
