package comics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/comicsd/internal/dates"
)

func TestCatalog_LookupAndAliases(t *testing.T) {
	c, err := NewCatalog(CatalogOptions{})
	require.NoError(t, err)

	for name, id := range map[string]string{
		"calvin":     "calvin",
		"C&H":        "calvin",
		"candh":      "calvin",
		"xkcdsimple": "xkcd",
		" fatcat ":   "garfield",
		"pbf":        "pbf",
	} {
		r, ok := c.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, id, r.ID, name)
	}

	_, ok := c.Lookup("nope")
	assert.False(t, ok)
}

func TestCatalog_RulesSorted(t *testing.T) {
	c, err := NewCatalog(CatalogOptions{})
	require.NoError(t, err)

	rules := c.Rules()
	require.Len(t, rules, 12)
	for i := 1; i < len(rules); i++ {
		assert.Less(t, rules[i-1].ID, rules[i].ID)
	}
}

func TestCatalog_Overrides(t *testing.T) {
	c, err := NewCatalog(CatalogOptions{
		BaseURLs: map[string]string{"pbf": "http://127.0.0.1:9999/"},
		Windows: map[string]WindowOverride{
			"garfield": {End: dates.Date(2000, time.January, 1)},
		},
	})
	require.NoError(t, err)

	pbf, _ := c.Lookup("pbf")
	assert.Equal(t, "http://127.0.0.1:9999/random", pbf.URL(Random()))

	g, _ := c.Lookup("garfield")
	assert.Equal(t, "1978-06-19 and 2000-01-01", g.RangeText())
}

func TestCatalog_OverridesByAlias(t *testing.T) {
	c, err := NewCatalog(CatalogOptions{
		BaseURLs: map[string]string{"fatcat": "http://mirror.local"},
		Windows: map[string]WindowOverride{
			"C&H": {End: dates.Date(1990, time.January, 1)},
		},
	})
	require.NoError(t, err)

	g, _ := c.Lookup("garfield")
	assert.Equal(t, "http://mirror.local/garfield/2000/01/01", g.URL(On(dates.Date(2000, time.January, 1))))

	calvin, _ := c.Lookup("calvin")
	assert.Equal(t, "1985-11-18 and 1990-01-01", calvin.RangeText())

	_, err = NewCatalog(CatalogOptions{BaseURLs: map[string]string{
		"garfield": "http://a.local",
		"fatcat":   "http://b.local",
	}})
	assert.ErrorContains(t, err, "set twice")
}

func TestCatalog_RejectsBadOverrides(t *testing.T) {
	_, err := NewCatalog(CatalogOptions{BaseURLs: map[string]string{"nope": "http://x"}})
	assert.Error(t, err)

	_, err = NewCatalog(CatalogOptions{Windows: map[string]WindowOverride{"pbf": {}}})
	assert.Error(t, err)

	_, err = NewCatalog(CatalogOptions{Windows: map[string]WindowOverride{
		"dilbert": {Start: dates.Date(2001, time.January, 1), End: dates.Date(2000, time.January, 1)},
	}})
	assert.ErrorIs(t, err, dates.ErrEmptyWindow)
}

func TestRule_URLs(t *testing.T) {
	c, err := NewCatalog(CatalogOptions{})
	require.NoError(t, err)

	cases := []struct {
		name string
		mode Mode
		want string
	}{
		{"chainsaw", On(dates.Date(2008, time.September, 4)), "https://chainsawsuit.krisstraub.com/20080904.shtml"},
		{"calvin", On(dates.Date(1995, time.December, 31)), "https://www.gocomics.com/calvinandhobbes/1995/12/31"},
		{"dilbert", On(dates.Date(2020, time.January, 15)), "https://dilbert.com/strip/2020-01-15"},
		{"xkcd", Random(), "https://c.xkcd.com/random/comic/"},
		{"oddones", Random(), "https://theodd1sout.com/pages/comics"},
	}

	for _, tc := range cases {
		r, ok := c.Lookup(tc.name)
		require.True(t, ok)
		assert.Equal(t, tc.want, r.URL(tc.mode), tc.name)
	}
}

func TestRule_Filenames(t *testing.T) {
	c, err := NewCatalog(CatalogOptions{})
	require.NoError(t, err)

	r, _ := c.Lookup("garfield")
	assert.Equal(t, "garfield-1994-06-16.png", r.Filename(On(dates.Date(1994, time.June, 16)), Extraction{}))

	r, _ = c.Lookup("webcomicname")
	assert.Equal(t, "ohno.png", r.Filename(Random(), Extraction{}))

	r, _ = c.Lookup("oddones")
	assert.Equal(t, "oddonesout-Dogs.png", r.Filename(Random(), Extraction{Name: "Dogs"}))
	assert.Equal(t, "oddonesout.png", r.Filename(Random(), Extraction{}))
}

func TestRule_Window(t *testing.T) {
	c, err := NewCatalog(CatalogOptions{})
	require.NoError(t, err)

	now := time.Date(2023, time.March, 12, 15, 4, 5, 0, time.UTC)

	r, _ := c.Lookup("dilbert")
	w, err := r.Window(now)
	require.NoError(t, err)
	assert.Equal(t, dates.Window{Start: dates.Date(1989, time.April, 16), End: dates.Date(2023, time.March, 12)}, w)
	assert.Equal(t, "1989-04-16 and today", r.RangeText())

	_, err = r.Window(dates.Date(1980, time.January, 1))
	assert.ErrorIs(t, err, dates.ErrEmptyWindow)

	r, _ = c.Lookup("pbf")
	assert.False(t, r.Dated())
}
