package ui

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/brogergvhs/comicsd/internal/util"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type MPBProgressManager struct {
	p *mpb.Progress
}

func NewProgressManager(out io.Writer) *MPBProgressManager {
	if out == nil {
		out = os.Stderr
	}

	p := mpb.New(
		mpb.WithWidth(40),
		mpb.WithOutput(out),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	return &MPBProgressManager{p: p}
}

func (pm *MPBProgressManager) Close() {
	pm.p.Wait()
}

// Bytes registers a bar counting transferred bytes (image downloads).
func (pm *MPBProgressManager) Bytes(prefix string) *ProgressHandle {
	h := &ProgressHandle{pm: pm, prefix: prefix}
	h.initBar(func(_ decor.Statistics) string {
		return " | " + util.Human(atomic.LoadInt64(&h.done))
	})
	return h
}

// Steps registers a bar counting finished steps (game detail fetches).
func (pm *MPBProgressManager) Steps(prefix string, total int) *ProgressHandle {
	h := &ProgressHandle{pm: pm, prefix: prefix}
	h.initBar(func(_ decor.Statistics) string {
		return fmt.Sprintf(" | %d/%d", atomic.LoadInt64(&h.done), atomic.LoadInt64(&h.total))
	})
	h.SetTotal(int64(total))
	return h
}

// ProgressHandle is safe to use as a nil pointer; every method is then a
// no-op, so callers without a terminal can pass nil.
type ProgressHandle struct {
	pm     *MPBProgressManager
	prefix string
	bar    *mpb.Bar

	total int64
	done  int64

	start   time.Time
	elapsed atomic.Int64

	final atomic.Bool
}

func (h *ProgressHandle) initBar(counter decor.DecorFunc) {
	h.start = time.Now()

	h.bar = h.pm.p.New(
		0,
		mpb.BarStyle().Rbound("]"),

		mpb.PrependDecorators(
			decor.Name(h.prefix+"  "),
		),

		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.Any(counter),
			decor.Any(func(_ decor.Statistics) string {
				if h.final.Load() {
					return fmt.Sprintf(" | %dms", h.elapsed.Load())
				}

				return fmt.Sprintf(" | %dms", time.Since(h.start).Milliseconds())
			}),
		),
	)
}

func (h *ProgressHandle) SetTotal(total int64) {
	if h == nil || h.final.Load() || total <= 0 {
		return
	}

	atomic.StoreInt64(&h.total, total)
	h.bar.SetTotal(total, false)
}

// Update records the absolute amount done so far.
func (h *ProgressHandle) Update(done int64) {
	if h == nil || h.final.Load() {
		return
	}

	atomic.StoreInt64(&h.done, done)
	h.bar.SetCurrent(done)
}

// Increment adds one finished step.
func (h *ProgressHandle) Increment() {
	if h == nil || h.final.Load() {
		return
	}

	atomic.AddInt64(&h.done, 1)
	h.bar.Increment()
}

func (h *ProgressHandle) MarkDone() {
	if h == nil || h.final.Swap(true) {
		return
	}

	h.elapsed.Store(time.Since(h.start).Milliseconds())

	done := atomic.LoadInt64(&h.done)
	if total := atomic.LoadInt64(&h.total); total > done {
		done = total
	}
	h.bar.SetCurrent(done)
	h.bar.SetTotal(done, true)
}

// Abort removes the bar after a failed transfer.
func (h *ProgressHandle) Abort() {
	if h == nil || h.final.Swap(true) {
		return
	}

	h.bar.Abort(true)
}
