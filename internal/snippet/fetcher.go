package snippet

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sozhaa-tech/chatbot-api/internal/model"
)

// Set is the read-only collection of seed snippets the prompt is built
// from. It is fetched once at startup and injected; nothing refreshes it
// while the process runs.
type Set struct {
	Snippets []model.SeedSnippet
}

// Options configures the seed fetch.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	SnippetChars int
	RatePerSec   float64
}

// Fetcher retrieves company pages and reduces them to prompt snippets.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	opts    Options
}

// NewFetcher creates a Fetcher with sensible defaults filled in.
func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.SnippetChars <= 0 {
		opts.SnippetChars = 1500
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "SozhaaBot/1.0 (+https://sozhaa.tech)"
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
		opts:    opts,
	}
}

// FetchAll retrieves every URL and returns one snippet per URL, in input
// order. A page that cannot be fetched yields a placeholder snippet with
// the failure text; FetchAll itself never fails.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) *Set {
	snippets := make([]model.SeedSnippet, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			s, err := f.fetch(ctx, u)
			if err != nil {
				zap.L().Warn("seed fetch failed",
					zap.String("url", u),
					zap.Error(err),
				)
				s = model.SeedSnippet{URL: u, Title: u, Text: fmt.Sprintf("(failed: %v)", err)}
			}
			snippets[i] = s
			return nil
		})
	}
	_ = g.Wait()

	return &Set{Snippets: snippets}
}

func (f *Fetcher) fetch(ctx context.Context, targetURL string) (model.SeedSnippet, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return model.SeedSnippet{}, eris.Wrap(err, "snippet: rate wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return model.SeedSnippet{}, eris.Wrap(err, "snippet: create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return model.SeedSnippet{}, eris.Wrap(err, "snippet: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return model.SeedSnippet{}, eris.Wrap(err, "snippet: read body")
	}

	if resp.StatusCode >= 400 {
		return model.SeedSnippet{}, eris.Errorf("snippet: status %d", resp.StatusCode)
	}

	title := extractTitle(body)
	if title == "" {
		title = targetURL
	}

	text := stripHTML(string(body))
	if len(text) > f.opts.SnippetChars {
		text = text[:f.opts.SnippetChars]
	}

	return model.SeedSnippet{URL: targetURL, Title: title, Text: text}, nil
}
