// Package fetch provides the shared outbound HTTP client used by the
// scrapers. One Client is created per batch so connections are pooled across
// every page fetched in that batch.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// ErrStatus is returned for any non-200 response.
var ErrStatus = errors.New("unexpected status code")

// Options configures a Client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Referer is sent with every request when set.
	Referer string
	// DelayMin and DelayMax bound the random pause taken by Pause.
	DelayMin time.Duration
	DelayMax time.Duration
}

// Client fetches and parses HTML pages with a browser-like header set.
type Client struct {
	http     *resty.Client
	delayMin time.Duration
	delayMax time.Duration
	sleep    func(context.Context, time.Duration)
}

// New creates a Client. Zero options fall back to the defaults.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	rc := resty.New().
		SetTimeout(opts.Timeout).
		SetHeaders(map[string]string{
			"User-Agent":                opts.UserAgent,
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.5",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
			"Cache-Control":             "max-age=0",
		})
	if opts.Referer != "" {
		rc.SetHeader("Referer", opts.Referer)
	}

	return &Client{
		http:     rc,
		delayMin: opts.DelayMin,
		delayMax: opts.DelayMax,
		sleep:    sleepContext,
	}
}

// Document GETs url and parses the body. Network errors, non-200 statuses
// and parse errors are all returned; no retry is attempted.
func (c *Client) Document(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// Pause sleeps for a random duration in [DelayMin, DelayMax]. It is called
// before each top-level page fetch to reduce rate limiting.
func (c *Client) Pause(ctx context.Context) {
	d := c.delayMin
	if span := c.delayMax - c.delayMin; span > 0 {
		d += rand.N(span)
	}
	if d > 0 {
		c.sleep(ctx, d)
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
