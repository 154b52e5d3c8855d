package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// StatusError is returned when a page answers with a non-success status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// CollyFetcher implements Fetcher using Colly. It is used for visiting
// third-party pages (citations), so it honours robots.txt and rate limits
// per domain.
type CollyFetcher struct {
	UserAgent       string
	MaxRetries      int
	RequestTimeout  time.Duration
	DomainDelay     time.Duration
	MaxBodySize     int
	IgnoreRobotsTxt bool
	Logger          *zap.Logger
}

func NewCollyFetcher(cfg FetchConfig) *CollyFetcher {
	f := &CollyFetcher{
		UserAgent:      userAgent,
		MaxRetries:     2,
		RequestTimeout: 20 * time.Second,
		DomainDelay:    500 * time.Millisecond,
		MaxBodySize:    2 * 1024 * 1024,
		Logger:         zap.NewNop(),
	}
	if cfg.TimeoutSeconds > 0 {
		f.RequestTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.RateLimitRPS > 0 {
		f.DomainDelay = time.Duration(float64(time.Second) / cfg.RateLimitRPS)
	}
	if cfg.MaxRetries > 0 {
		f.MaxRetries = cfg.MaxRetries
	}
	return f
}

func (f *CollyFetcher) buildCollector(ctx context.Context, host string) *colly.Collector {
	opts := []colly.CollectorOption{
		colly.UserAgent(f.UserAgent),
		colly.MaxBodySize(f.MaxBodySize),
		colly.AllowURLRevisit(),
		colly.AllowedDomains(host),
		colly.StdlibContext(ctx),
	}

	c := colly.NewCollector(opts...)
	c.IgnoreRobotsTxt = f.IgnoreRobotsTxt
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       f.DomainDelay,
	})
	c.SetRequestTimeout(f.RequestTimeout)
	return c
}

// Fetch visits targetURL and returns the body of a successful response.
func (f *CollyFetcher) Fetch(ctx context.Context, targetURL string) (*FetchedDocument, error) {
	parsedURL, err := url.Parse(targetURL)
	if err != nil || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid URL: %s", targetURL)
	}
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := f.buildCollector(ctx, parsedURL.Hostname())

	var result *FetchedDocument
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result = &FetchedDocument{
			URL:         r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        io.NopCloser(bytes.NewReader(r.Body)),
			FetchedAt:   time.Now(),
			Headers:     map[string][]string(r.Headers.Clone()),
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		retries, _ := r.Request.Ctx.GetAny("retries").(int)
		if retries < f.MaxRetries && ctx.Err() == nil && (r.StatusCode == 0 || shouldRetry(nil, r.StatusCode)) {
			r.Request.Ctx.Put("retries", retries+1)
			logger.Debug("retrying", zap.String("url", targetURL), zap.Int("attempt", retries+1), zap.Error(err))
			time.Sleep(time.Duration(retries+1) * time.Second)
			if retryErr := r.Request.Retry(); retryErr == nil {
				return
			}
		}
		if r.StatusCode > 0 {
			fetchErr = &StatusError{URL: targetURL, Code: r.StatusCode}
			return
		}
		fetchErr = fmt.Errorf("fetch %s: %w", targetURL, err)
	})

	visitErr := c.Visit(targetURL)
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if result != nil {
		return result, nil
	}
	if visitErr != nil {
		return nil, fmt.Errorf("visit failed: %w", visitErr)
	}
	return nil, fmt.Errorf("no response received for %s", targetURL)
}
