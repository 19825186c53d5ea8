// Package catalog looks up artists in the Last.fm catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Baaaki/backyard-marquee/internal/metrics"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const searchLimit = "10"

// ErrUpstream wraps every failure to get a usable answer from Last.fm.
var ErrUpstream = errors.New("catalog: upstream failure")

// Artist is one catalog match.
type Artist struct {
	Name      string   `json:"name"`
	MBID      *string  `json:"mbid"`
	Image     *string  `json:"image"`
	Listeners string   `json:"listeners,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Placeholder is returned when no API key is configured.
func Placeholder(query string) []Artist {
	return []Artist{{Name: query, Tags: []string{"rock"}}}
}

type Options struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second
}

// Client calls the Last.fm artist.search method.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

func NewClient(opts Options, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		log:        log,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search returns up to ten artists matching query.
func (c *Client) Search(ctx context.Context, query string) ([]Artist, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	params := url.Values{}
	params.Set("method", "artist.search")
	params.Set("artist", query)
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", searchLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrUpstream, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveUpstream(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: status %d, body is not JSON", ErrUpstream, resp.StatusCode)
	}
	doc := gjson.ParseBytes(body)
	if apiErr := doc.Get("error"); apiErr.Exists() {
		c.log.Warn("Last.fm API error",
			zap.Int64("code", apiErr.Int()),
			zap.String("message", doc.Get("message").String()),
		)
		return nil, fmt.Errorf("%w: api error %d", ErrUpstream, apiErr.Int())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	return parseMatches(doc.Get("results.artistmatches.artist")), nil
}

// parseMatches accepts both the list form and the single-object form Last.fm uses for one hit.
func parseMatches(matches gjson.Result) []Artist {
	var items []gjson.Result
	switch {
	case matches.IsArray():
		items = matches.Array()
	case matches.IsObject():
		items = []gjson.Result{matches}
	}

	artists := make([]Artist, 0, len(items))
	for _, item := range items {
		artists = append(artists, Artist{
			Name:      item.Get("name").String(),
			MBID:      nonEmpty(item.Get("mbid").String()),
			Image:     nonEmpty(pickImage(item.Get("image").Array())),
			Listeners: item.Get("listeners").String(),
		})
	}
	return artists
}

// pickImage prefers the large image, then medium, then whatever comes first.
func pickImage(images []gjson.Result) string {
	for _, size := range []string{"large", "medium"} {
		for _, img := range images {
			if img.Get("size").String() == size {
				return img.Get(`\#text`).String()
			}
		}
	}
	if len(images) > 0 {
		return images[0].Get(`\#text`).String()
	}
	return ""
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
