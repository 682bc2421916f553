// Package games searches the RAWG catalogue and shapes the answers into
// short summaries for display.
package games

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/brogergvhs/comicsd/internal/failure"
)

const DefaultBaseURL = "https://api.rawg.io/api"

type ClientOptions struct {
	BaseURL string
	// APIKey is sent as the "key" query parameter when set.
	APIKey     string
	HTTPClient *http.Client
}

type Client struct {
	r      *resty.Client
	apiKey string
}

func NewClient(opts ClientOptions) *Client {
	var r *resty.Client
	if opts.HTTPClient != nil {
		r = resty.NewWithClient(opts.HTTPClient)
	} else {
		r = resty.New()
	}

	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}

	r.SetBaseURL(base)
	r.SetHeader("Accept", "application/json")

	return &Client{r: r, apiKey: strings.TrimSpace(opts.APIKey)}
}

type searchResult struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Released        *string  `json:"released"`
	Rating          *float64 `json:"rating"`
	BackgroundImage *string  `json:"background_image"`
}

type searchResponse struct {
	Count   int            `json:"count"`
	Results []searchResult `json:"results"`
}

type detailResponse struct {
	ID             int    `json:"id"`
	DescriptionRaw string `json:"description_raw"`
	Metacritic     *int   `json:"metacritic"`
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.r.R().SetContext(ctx)
	if c.apiKey != "" {
		req.SetQueryParam("key", c.apiKey)
	}

	return req
}

func (c *Client) search(ctx context.Context, query string) ([]searchResult, error) {
	var out searchResponse
	resp, err := c.request(ctx).
		SetQueryParam("search", query).
		SetResult(&out).
		Get("/games")
	if err != nil {
		return nil, failure.Upstream("search "+strconv.Quote(query), err)
	}
	if resp.IsError() {
		return nil, failure.Upstream("search "+strconv.Quote(query), fmt.Errorf("HTTP %d", resp.StatusCode()))
	}

	return out.Results, nil
}

func (c *Client) detail(ctx context.Context, id int) (detailResponse, error) {
	var out detailResponse
	resp, err := c.request(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		SetResult(&out).
		Get("/games/{id}")
	if err != nil {
		return detailResponse{}, failure.Upstream(fmt.Sprintf("game %d", id), err)
	}
	if resp.IsError() {
		return detailResponse{}, failure.Upstream(fmt.Sprintf("game %d", id), fmt.Errorf("HTTP %d", resp.StatusCode()))
	}

	return out, nil
}
