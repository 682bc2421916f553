// Package deliver hands command results back to the user: images go to the
// output folder, failures become one short line on the error stream.
package deliver

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/fatih/color"

	"github.com/brogergvhs/comicsd/internal/comics"
	"github.com/brogergvhs/comicsd/internal/failure"
	"github.com/brogergvhs/comicsd/internal/ui"
	"github.com/brogergvhs/comicsd/internal/util"
)

const (
	ComicFallback = "I can't read that comic page."
	GameFallback  = "I can't read the game search results."
)

type Deliverer struct {
	dir       string
	out       io.Writer
	errOut    io.Writer
	log       *ui.Logger
	useColors bool
}

func New(dir string, out, errOut io.Writer, log *ui.Logger, useColors bool) *Deliverer {
	return &Deliverer{dir: dir, out: out, errOut: errOut, log: log, useColors: useColors}
}

// ResolveColors turns the configured preference off for NO_COLOR and dumb
// terminals.
func ResolveColors(configColors bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return configColors
}

// Comic saves the image and prints where it went, plus any extra links the
// source exposed.
func (d *Deliverer) Comic(res *comics.Result) (string, error) {
	path, err := util.WriteFileAtomic(d.dir, res.Filename, res.Data)
	if err != nil {
		return "", err
	}

	line := fmt.Sprintf("Saved %s (%s)", path, util.Human(int64(len(res.Data))))
	if d.useColors {
		_, _ = color.New(color.FgGreen).Fprintln(d.out, line)
	} else {
		_, _ = fmt.Fprintln(d.out, line)
	}
	for _, k := range slices.Sorted(maps.Keys(res.Extra)) {
		_, _ = fmt.Fprintf(d.out, "%s: %s\n", k, res.Extra[k])
	}

	return path, nil
}

// Text prints a plain reply.
func (d *Deliverer) Text(s string) {
	_, _ = fmt.Fprintln(d.out, s)
}

// Error prints the user facing line for err. Upstream causes are logged,
// never shown.
func (d *Deliverer) Error(err error, fallback string) {
	if err == nil {
		return
	}

	if failure.KindOf(err) == failure.UpstreamError {
		d.log.Errorf("%v\n", err)
	} else {
		d.log.Debugf("%v\n", err)
	}

	msg := failure.Message(err, fallback)
	if d.useColors {
		_, _ = color.New(color.FgRed).Fprintln(d.errOut, msg)
	} else {
		_, _ = fmt.Fprintln(d.errOut, msg)
	}
}
