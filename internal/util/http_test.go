package util

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type debugRecorder struct{ lines []string }

func (d *debugRecorder) Debugf(format string, _ ...any) { d.lines = append(d.lines, format) }

func TestNewHTTPClient_HeadersAndDefaults(t *testing.T) {
	var gotUA, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cookieFile := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(cookieFile, []byte("\n  b=2  \nc=3\n"), 0644))

	rec := &debugRecorder{}
	client, err := NewHTTPClient(HTTPClientOptions{
		UserAgent:   "comicsd-test/1.0",
		Cookie:      "a=1",
		CookieFile:  cookieFile,
		DebugLogger: rec,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, client.Timeout)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "comicsd-test/1.0", gotUA)
	assert.Equal(t, "a=1; b=2", gotCookie)
	assert.NotEmpty(t, rec.lines)
}

func TestPickUserAgent(t *testing.T) {
	assert.Equal(t, "x", PickUserAgent("x"))
	assert.Contains(t, PickUserAgent(""), "Mozilla/5.0")
}
