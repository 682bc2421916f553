package dates

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chainsawWindow = Window{Start: Date(2008, time.August, 10), End: Date(2019, time.February, 6)}

func TestParse_Accepts(t *testing.T) {
	cases := map[string]time.Time{
		"2008-09-04": Date(2008, time.September, 4),
		"2008.9.4":   Date(2008, time.September, 4),
		"2010/12/31": Date(2010, time.December, 31),
		"2008-08-10": chainsawWindow.Start,
		"2019-02-06": chainsawWindow.End,
	}

	for raw, want := range cases {
		got, err := Parse(raw, chainsawWindow)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), "%s: got %s", raw, got)
	}
}

func TestParse_Malformed(t *testing.T) {
	wide := Window{Start: Date(1, time.January, 1), End: Date(2100, time.January, 1)}

	for _, raw := range []string{
		"",
		"2020-13-01",
		"2020-00-10",
		"2020-1-32",
		"2020-02-30",
		"2019-02-29",
		"2021-04-31",
		"2020-01-15x",
		" 2020-01-15",
		"2020-01/15",
		"1820-01-15",
		"202-01-15",
		"today",
		"2020_01_15",
	} {
		_, err := Parse(raw, wide)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrMalformed, raw)
		assert.NotErrorIs(t, err, ErrOutOfRange, raw)
	}
}

func TestParse_LeapDay(t *testing.T) {
	wide := Window{Start: Date(1900, time.January, 1), End: Date(2100, time.January, 1)}

	got, err := Parse("2020-02-29", wide)
	require.NoError(t, err)
	assert.Equal(t, 29, got.Day())
}

func TestParse_OutOfRange(t *testing.T) {
	for _, raw := range []string{"2008-08-09", "2019-02-07", "1995-12-31", "95-01-01"} {
		_, err := Parse(raw, chainsawWindow)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrOutOfRange, raw)
		assert.False(t, errors.Is(err, ErrMalformed), raw)
	}
}

func TestSample_StaysInHalfOpenWindow(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	w := Window{Start: Date(2020, time.January, 1), End: Date(2020, time.January, 4)}

	seen := map[time.Time]bool{}
	for i := 0; i < 500; i++ {
		d, err := Sample(rng, w)
		require.NoError(t, err)
		assert.False(t, d.Before(w.Start))
		assert.True(t, d.Before(w.End), "sampled end date %s", d)
		seen[d] = true
	}

	assert.Len(t, seen, 3)
}

func TestSample_Reproducible(t *testing.T) {
	a, err := Sample(rand.New(rand.NewPCG(7, 7)), chainsawWindow)
	require.NoError(t, err)
	b, err := Sample(rand.New(rand.NewPCG(7, 7)), chainsawWindow)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
}

func TestSample_EmptyWindow(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	d := Date(2020, time.May, 5)

	_, err := Sample(rng, Window{Start: d, End: d})
	assert.ErrorIs(t, err, ErrEmptyWindow)

	_, err = Sample(rng, Window{Start: d, End: d.AddDate(0, 0, -3)})
	assert.ErrorIs(t, err, ErrEmptyWindow)
}

func TestKey_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	for i := 0; i < 200; i++ {
		d, err := Sample(rng, chainsawWindow)
		require.NoError(t, err)

		for _, layout := range []string{ISO, "2006/01/02", "2006.1.2"} {
			back, err := Parse(Key(d, layout), chainsawWindow)
			require.NoError(t, err, layout)
			assert.True(t, d.Equal(back))
		}
	}
}

func TestNewWindow(t *testing.T) {
	w, err := NewWindow(time.Date(2001, 1, 1, 15, 4, 0, 0, time.Local), Date(2001, time.January, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, w.Days())
	assert.Equal(t, "2001-01-01..2001-01-03", w.String())

	_, err = NewWindow(Date(2001, time.January, 3), Date(2001, time.January, 1))
	assert.ErrorIs(t, err, ErrEmptyWindow)
}
