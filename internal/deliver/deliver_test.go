package deliver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/comicsd/internal/comics"
	"github.com/brogergvhs/comicsd/internal/failure"
	"github.com/brogergvhs/comicsd/internal/ui"
)

func TestComic_WritesFileAndExtras(t *testing.T) {
	dir := t.TempDir()
	var out, errOut, log bytes.Buffer

	d := New(dir, &out, &errOut, ui.NewLoggerTo(&log, false), false)
	path, err := d.Comic(&comics.Result{
		Source:   "smbc",
		Filename: "smbc.png",
		Data:     []byte("image"),
		Extra:    map[string]string{"after_comic": "https://www.smbc-comics.com/after.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "smbc.png"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image", string(b))

	assert.Equal(t, "Saved "+path+" (5 B)\nafter_comic: https://www.smbc-comics.com/after.png\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestError_Messages(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		want   string
		logged bool
	}{
		{"invalid", failure.Invalid("That doesn't seem like a valid date.", nil), "That doesn't seem like a valid date.\n", false},
		{"missing", failure.Missing("There is no comic available for this date."), "There is no comic available for this date.\n", false},
		{"upstream", failure.Upstream("GET https://x", errors.New("HTTP 503")), ComicFallback + "\n", true},
		{"unknown", errors.New("boom"), ComicFallback + "\n", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out, errOut, log bytes.Buffer
			d := New(t.TempDir(), &out, &errOut, ui.NewLoggerTo(&log, false), false)

			d.Error(tc.err, ComicFallback)

			assert.Equal(t, tc.want, errOut.String())
			assert.Empty(t, out.String())
			assert.Equal(t, tc.logged, bytes.Contains(log.Bytes(), []byte("[ERROR] ")))
		})
	}
}

func TestText(t *testing.T) {
	var out bytes.Buffer
	New(t.TempDir(), &out, &out, nil, false).Text("No results.")
	assert.Equal(t, "No results.\n", out.String())
}

func TestResolveColors(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	assert.True(t, ResolveColors(true))
	assert.False(t, ResolveColors(false))

	t.Setenv("TERM", "dumb")
	assert.False(t, ResolveColors(true))

	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "")
	assert.False(t, ResolveColors(true))
}
