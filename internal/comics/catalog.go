// Package comics holds one extraction rule per supported comic site and the
// pipeline that turns a rule into a downloaded strip.
package comics

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/comicsd/internal/dates"
)

// Mode selects a random strip (zero value) or the strip for one date.
type Mode struct {
	Date time.Time
}

func Random() Mode { return Mode{} }

func On(d time.Time) Mode { return Mode{Date: dates.Midnight(d)} }

func (m Mode) IsRandom() bool { return m.Date.IsZero() }

// Extraction is what a rule pulls out of a fetched page.
type Extraction struct {
	ImageURL string
	// Name is a human label some sources expose (used in filenames).
	Name  string
	Extra map[string]string
}

// Rule describes one comic source. Rules are built once by NewCatalog and
// never mutated afterwards.
type Rule struct {
	ID       string
	Aliases  []string
	Title    string
	Homepage string

	// Base is the site root every request URL is built from.
	Base string

	// Since/Until bound the dates the source publishes. A zero Since means
	// the source has no date support; a zero Until means "today".
	Since time.Time
	Until time.Time

	// Example is shown in the malformed-date message.
	Example string

	DateRequired bool
	RandomOnly   bool

	// TrustedPrefix, when set, is the only host prefix an extracted image
	// URL may start with.
	TrustedPrefix string

	Build    func(base string, m Mode) string
	Pick     func(doc *goquery.Document, rng *rand.Rand) (string, error)
	Extract  func(r Rule, doc *goquery.Document) (Extraction, error)
	Filename func(m Mode, e Extraction) string
}

func (r Rule) Dated() bool { return !r.Since.IsZero() }

func (r Rule) URL(m Mode) string { return r.Build(strings.TrimRight(r.Base, "/"), m) }

// Window is the inclusive publishing range as of now. It fails with
// dates.ErrEmptyWindow when the source starts after now.
func (r Rule) Window(now time.Time) (dates.Window, error) {
	end := r.Until
	if end.IsZero() {
		end = now
	}

	return dates.NewWindow(r.Since, end)
}

// RangeText renders the window for user messages.
func (r Rule) RangeText() string {
	until := "today"
	if !r.Until.IsZero() {
		until = r.Until.Format(dates.ISO)
	}

	return fmt.Sprintf("%s and %s", r.Since.Format(dates.ISO), until)
}

// WindowOverride replaces a rule's publishing range. Zero fields keep the
// built-in value.
type WindowOverride struct {
	Start time.Time
	End   time.Time
}

type CatalogOptions struct {
	BaseURLs map[string]string
	Windows  map[string]WindowOverride
}

type Catalog struct {
	rules  []Rule
	byName map[string]int
}

// NewCatalog builds the rule set and applies the per-source overrides.
// Override keys may name a rule by ID or alias.
func NewCatalog(opts CatalogOptions) (*Catalog, error) {
	rules := builtinRules()

	ids := map[string]string{}
	for _, r := range rules {
		for _, name := range append([]string{r.ID}, r.Aliases...) {
			if _, dup := ids[name]; dup {
				return nil, fmt.Errorf("duplicate command name %q", name)
			}
			ids[name] = r.ID
		}
	}

	baseURLs, err := byID(opts.BaseURLs, ids, "base_urls")
	if err != nil {
		return nil, err
	}
	windows, err := byID(opts.Windows, ids, "windows")
	if err != nil {
		return nil, err
	}

	c := &Catalog{byName: map[string]int{}}
	for _, r := range rules {
		if base, ok := baseURLs[r.ID]; ok && strings.TrimSpace(base) != "" {
			r.Base = strings.TrimSpace(base)
		}

		if w, ok := windows[r.ID]; ok {
			if !r.Dated() {
				return nil, fmt.Errorf("source %q has no date support", r.ID)
			}
			if !w.Start.IsZero() {
				r.Since = dates.Midnight(w.Start)
			}
			if !w.End.IsZero() {
				r.Until = dates.Midnight(w.End)
			}
			if !r.Until.IsZero() {
				if _, err := dates.NewWindow(r.Since, r.Until); err != nil {
					return nil, fmt.Errorf("source %q: %w", r.ID, err)
				}
			}
		}

		idx := len(c.rules)
		c.rules = append(c.rules, r)
		for _, name := range append([]string{r.ID}, r.Aliases...) {
			c.byName[name] = idx
		}
	}

	return c, nil
}

// byID rekeys overrides from command names to rule IDs.
func byID[V any](in map[string]V, ids map[string]string, field string) (map[string]V, error) {
	out := make(map[string]V, len(in))
	for name, v := range in {
		id, ok := ids[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown source %q in %s", name, field)
		}
		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("source %q set twice in %s", id, field)
		}
		out[id] = v
	}

	return out, nil
}

// Lookup finds a rule by ID or alias.
func (c *Catalog) Lookup(name string) (Rule, bool) {
	idx, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Rule{}, false
	}

	return c.rules[idx], true
}

// Rules returns the rules sorted by ID.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
