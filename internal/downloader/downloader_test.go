package downloader

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/comicsd/internal/failure"
	"github.com/brogergvhs/comicsd/internal/ui"
)

func TestDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Strip</title></head></html>`))
	}))
	defer srv.Close()

	d := New(srv.Client(), time.Second)
	doc, err := d.Document(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "Strip", doc.Find("title").Text())
	assert.Equal(t, srv.URL+"/page", doc.Url.String())
}

func TestDocument_URLFollowsRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/random" {
			http.Redirect(w, r, "/comics/42/", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<img src="strip.png">`))
	}))
	defer srv.Close()

	doc, err := New(srv.Client(), time.Second).Document(context.Background(), srv.URL+"/random")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/comics/42/", doc.Url.String())

	src, _ := doc.Find("img").Attr("src")
	ref, err := doc.Url.Parse(src)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/comics/42/strip.png", ref.String())
}

func TestDocument_StatusIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New(srv.Client(), time.Second).Document(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, failure.UpstreamError, failure.KindOf(err))
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestDocument_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := New(srv.Client(), 50*time.Millisecond).Document(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestImage(t *testing.T) {
	payload := bytes.Repeat([]byte{0xff}, 100_000)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://example.com/ref", r.Header.Get("Referer"))
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	pm := ui.NewProgressManager(io.Discard)
	img, err := New(srv.Client(), time.Second).Image(context.Background(), srv.URL, "https://example.com/ref", pm.Bytes("img"))
	pm.Close()

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.Equal(t, payload, img.Data)
}

func TestImage_RejectsNonImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<p>blocked</p>"))
	}))
	defer srv.Close()

	_, err := New(srv.Client(), time.Second).Image(context.Background(), srv.URL, "", nil)
	require.Error(t, err)
	assert.Equal(t, failure.UpstreamError, failure.KindOf(err))
	assert.Contains(t, err.Error(), "unexpected MIME")
}

func TestCopyWithProgress(t *testing.T) {
	var dst bytes.Buffer
	var last int64

	n, err := copyWithProgress(&dst, strings.NewReader("hello"), 10, func(done int64) { last = done })
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
	assert.EqualValues(t, 5, last)

	_, err = copyWithProgress(&bytes.Buffer{}, strings.NewReader("too long"), 3, nil)
	assert.ErrorIs(t, err, errTooLarge)
}
