// Package downloader performs the single-attempt HTTP fetches behind every
// comic command: the page document and the final image bytes.
package downloader

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/comicsd/internal/failure"
	"github.com/brogergvhs/comicsd/internal/ui"
)

const (
	maxPageBytes  = 8 << 20
	maxImageBytes = 32 << 20
)

type Downloader struct {
	client  *http.Client
	timeout time.Duration
}

// New returns a Downloader whose requests are each bounded by timeout in
// addition to the client's own timeout. Zero disables the extra bound.
func New(c *http.Client, timeout time.Duration) *Downloader {
	return &Downloader{
		client:  c,
		timeout: timeout,
	}
}

// Image is a downloaded image payload.
type Image struct {
	Data        []byte
	ContentType string
}

// Document fetches target and parses it as HTML. The document URL is the
// final one after redirects. Transport failures and non-2xx statuses are
// reported as upstream failures.
func (d *Downloader) Document(ctx context.Context, target string) (*goquery.Document, error) {
	base, err := url.Parse(target)
	if err != nil {
		return nil, failure.Upstream("parse url "+target, err)
	}

	body, resp, err := d.get(ctx, target, "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8", "", maxPageBytes, nil, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, failure.Upstream("parse "+target, err)
	}

	// Relative links resolve against where redirects ended up.
	doc.Url = base
	if resp.Request != nil && resp.Request.URL != nil {
		doc.Url = resp.Request.URL
	}

	return doc, nil
}

// Image fetches the bytes at target. The response must carry an image/*
// Content-Type when it declares one.
func (d *Downloader) Image(ctx context.Context, target, referer string, ph *ui.ProgressHandle) (*Image, error) {
	var progress func(int64)
	if ph != nil {
		progress = ph.Update
	}

	body, resp, err := d.get(ctx, target, "image/avif,image/webp,image/apng,image/*,*/*;q=0.8", referer, maxImageBytes, func(r *http.Response) error {
		ph.SetTotal(r.ContentLength)

		ct := r.Header.Get("Content-Type")
		if ct == "" {
			return nil
		}
		if mt, _, _ := mime.ParseMediaType(ct); !strings.HasPrefix(mt, "image/") {
			return fmt.Errorf("unexpected MIME: %s", ct)
		}

		return nil
	}, progress)
	if err != nil {
		ph.Abort()
		return nil, err
	}
	ph.MarkDone()

	return &Image{Data: body, ContentType: resp.Header.Get("Content-Type")}, nil
}

func (d *Downloader) get(
	ctx context.Context,
	target, accept, referer string,
	limit int64,
	check func(*http.Response) error,
	progress func(int64),
) ([]byte, *http.Response, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, failure.Upstream("build request "+target, err)
	}

	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, nil, failure.Upstream("GET "+target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp, failure.Upstream("GET "+target, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	if check != nil {
		if err := check(resp); err != nil {
			return nil, resp, failure.Upstream("GET "+target, err)
		}
	}

	var buf bytes.Buffer
	if _, err := copyWithProgress(&buf, resp.Body, limit, progress); err != nil {
		return nil, resp, failure.Upstream("read "+target, err)
	}

	return buf.Bytes(), resp, nil
}
