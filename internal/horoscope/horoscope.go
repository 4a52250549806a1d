// Package horoscope scrapes daily horoscope readings from astroved.com.
//
// The index page is fetched once to discover one link per zodiac sign, then
// every sign page is fetched concurrently with a bounded limit. Results are
// returned in the order the signs appear on the index page, regardless of
// which fetch finishes first. Nothing is cached; every call hits the site.
package horoscope

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/cityevents/internal/fetch"
	"github.com/pfrederiksen/cityevents/internal/fragment"
	"github.com/pfrederiksen/cityevents/internal/logger"
	"github.com/pfrederiksen/cityevents/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	BaseURL            = "https://www.astroved.com"
	IndexPath          = "/horoscope/"
	DefaultConcurrency = 6

	signLinkMarker = "/horoscopes/daily-horoscope/"
	selSection     = "div.horo-title"
)

// Reading statuses.
const (
	StatusOK    = "ok"
	StatusFail  = "fail"
	StatusError = "error"
)

// ErrSignNotFound is returned when the index page lists no such sign.
var ErrSignNotFound = errors.New("sign not found")

// Prediction is one category of a reading, e.g. "Love" or "Career".
type Prediction struct {
	Category string
	Text     string
}

// Predictions keeps page order and encodes as a JSON object.
type Predictions []Prediction

// MarshalJSON writes {"<category>": "<text>", ...} in page order.
func (p Predictions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pred := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(pred.Category)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(pred.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Reading is the full daily horoscope for one sign. Predictions is empty
// unless Status is StatusOK.
type Reading struct {
	Sign        string      `json:"sign"`
	Status      string      `json:"status"`
	Message     string      `json:"message,omitempty"`
	Predictions Predictions `json:"horoscope"`
}

// Brief is the simplified variant: one prediction text per sign.
type Brief struct {
	Sign       string `json:"sign"`
	Status     string `json:"status"`
	Prediction string `json:"prediction"`
}

// SignLink is one sign discovered on the index page.
type SignLink struct {
	Sign string
	URL  string
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	Concurrency int
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
}

// Client fetches horoscope readings
type Client struct {
	fetch       *fetch.Client
	baseURL     string
	concurrency int
	log         *logger.Logger
	metrics     *metrics.Metrics
}

// New creates a Client on top of a shared fetch client.
func New(fc *fetch.Client, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	return &Client{
		fetch:       fc,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		concurrency: opts.Concurrency,
		log:         opts.Logger,
		metrics:     opts.Metrics,
	}
}

// Signs fetches the index page and lists its sign links in page order.
func (c *Client) Signs(ctx context.Context) ([]SignLink, error) {
	doc, err := c.fetch.Document(ctx, c.baseURL+IndexPath)
	c.metrics.ObserveFetch("horoscope_index", err)
	if err != nil {
		return nil, fmt.Errorf("fetching horoscope index: %w", err)
	}
	return ParseIndex(doc, c.baseURL), nil
}

// Readings returns a reading for every sign on the index page, in index
// order. Only an index failure is returned as an error; a sign whose page
// fails carries StatusError or StatusFail instead.
func (c *Client) Readings(ctx context.Context) ([]Reading, error) {
	start := time.Now()

	links, err := c.Signs(ctx)
	if err != nil {
		return nil, err
	}

	readings := make([]Reading, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, link := range links {
		g.Go(func() error {
			readings[i] = c.reading(gctx, link)
			return nil
		})
	}
	_ = g.Wait()

	c.metrics.AddRecords("horoscope", len(readings))
	c.metrics.RecordTiming("horoscope", time.Since(start))
	c.log.Info("Horoscopes fetched", logger.Fields{
		"signs":    len(readings),
		"duration": time.Since(start).String(),
	})
	return readings, nil
}

// Briefs is Readings reduced to one prediction per sign.
func (c *Client) Briefs(ctx context.Context) ([]Brief, error) {
	readings, err := c.Readings(ctx)
	if err != nil {
		return nil, err
	}
	briefs := make([]Brief, len(readings))
	for i, r := range readings {
		briefs[i] = r.Brief()
	}
	return briefs, nil
}

// Sign returns the reading for one sign, matched case-insensitively against
// the index page.
func (c *Client) Sign(ctx context.Context, name string) (Reading, error) {
	links, err := c.Signs(ctx)
	if err != nil {
		return Reading{}, err
	}
	for _, link := range links {
		if strings.EqualFold(link.Sign, strings.TrimSpace(name)) {
			return c.reading(ctx, link), nil
		}
	}
	return Reading{}, fmt.Errorf("%w: %s", ErrSignNotFound, name)
}

func (c *Client) reading(ctx context.Context, link SignLink) Reading {
	doc, err := c.fetch.Document(ctx, link.URL)
	c.metrics.ObserveFetch("horoscope_sign", err)
	if err != nil {
		c.log.Warn("Horoscope fetch failed", logger.Fields{
			"sign":  link.Sign,
			"url":   link.URL,
			"error": err.Error(),
		})
		return Reading{
			Sign:        link.Sign,
			Status:      StatusError,
			Message:     fmt.Sprintf("Failed to fetch %s horoscope", link.Sign),
			Predictions: Predictions{},
		}
	}
	return ParseReading(doc, link.Sign)
}

// Brief reduces a reading to its first prediction.
func (r Reading) Brief() Brief {
	b := Brief{Sign: r.Sign, Status: r.Status, Prediction: r.Message}
	if len(r.Predictions) > 0 {
		b.Prediction = r.Predictions[0].Text
	}
	return b
}

// ParseIndex lists every daily-horoscope link in page order. Duplicate links
// are kept so the result mirrors the markup.
func ParseIndex(doc *goquery.Document, base string) []SignLink {
	var links []SignLink
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, signLinkMarker) {
			return
		}
		sign := signFromPath(href)
		if sign == "" {
			return
		}
		links = append(links, SignLink{Sign: sign, URL: fragment.ResolveLink(base, href)})
	})
	return links
}

// signFromPath capitalizes the last path segment: ".../aries" gives "Aries".
func signFromPath(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	href = strings.TrimRight(href, "/")
	seg := href[strings.LastIndex(href, "/")+1:]
	if seg == "" {
		return ""
	}
	return strings.ToUpper(seg[:1]) + strings.ToLower(seg[1:])
}

// ParseReading pairs each heading in the horoscope section with the
// paragraph at the same position. Extra headings or paragraphs are ignored.
func ParseReading(doc *goquery.Document, sign string) Reading {
	sec := fragment.First(doc, selSection)
	if sec.Length() == 0 {
		return Reading{
			Sign:        sign,
			Status:      StatusFail,
			Message:     "Horoscope section not found",
			Predictions: Predictions{},
		}
	}

	headers := sec.Find("h3")
	paras := sec.Find("p")
	n := min(headers.Length(), paras.Length())

	preds := make(Predictions, 0, n)
	for i := 0; i < n; i++ {
		preds = append(preds, Prediction{
			Category: fragment.Normalize(headers.Eq(i).Text()),
			Text:     fragment.Normalize(paras.Eq(i).Text()),
		})
	}
	return Reading{Sign: sign, Status: StatusOK, Predictions: preds}
}
