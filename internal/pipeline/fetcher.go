package pipeline

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/ppiankov/verinex/internal/cache"
	"github.com/ppiankov/verinex/internal/logging"
	"github.com/ppiankov/verinex/internal/model"
)

const fetchMaxRetries = 3

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Fetcher downloads article pages
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      cache.Cache
	cacheTTL   time.Duration
	robots     *RobotsChecker
}

// NewFetcher creates a Fetcher. Empty proxy settings fall back to the environment.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, insecureTLS bool, httpProxy, httpsProxy, noProxy string) *Fetcher {
	transport := &http.Transport{
		Proxy: NewProxyFunc(httpProxy, httpsProxy, noProxy),
	}
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via config
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// NewFetcherFromConfig creates a Fetcher with cache and robots.txt support wired per cfg
func NewFetcherFromConfig(cfg *model.Config) *Fetcher {
	f := NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.InsecureTLS, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, "")

	if cfg.Cache.Enabled {
		f.WithCache(cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL), cfg.Cache.DiskTTL)
	}
	if cfg.HTTP.RespectRobots {
		f.WithRobots(NewRobotsChecker(NormalizeUserAgent(cfg.HTTP.UserAgent), cfg.HTTP.Timeout))
	}
	return f
}

// WithCache enables response caching
func (f *Fetcher) WithCache(c cache.Cache, ttl time.Duration) *Fetcher {
	f.cache = c
	f.cacheTTL = ttl
	return f
}

// WithRobots enables robots.txt checks
func (f *Fetcher) WithRobots(r *RobotsChecker) *Fetcher {
	f.robots = r
	return f
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML     string          `json:"html"`
	Meta     model.FetchMeta `json:"meta"`
	Subject  string          `json:"subject"`
	FinalURL string          `json:"final_url"`
}

// Fetch retrieves a page, consulting the cache and robots.txt first
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if cached, ok := f.fromCache(rawURL); ok {
		return cached, nil
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		if delay > 0 {
			logging.C(ctx).Debug().Dur("crawl_delay", delay).Str("url", rawURL).Msg("robots.txt crawl delay")
		}
	}

	result, err := f.fetchOnce(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	f.toCache(rawURL, result)
	return result, nil
}

// FetchWithRetry wraps Fetch, retrying transient failures with backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			logging.C(ctx).Debug().Int("attempt", attempt+1).Dur("backoff", backoff).Err(lastErr).Msg("retrying fetch")
			fetchSleepFunc(backoff)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	meta := model.FetchMeta{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
		Headers:      make(map[string]string),
	}

	for _, key := range []string{"Content-Length", "Server", "Cache-Control"} {
		if val := resp.Header.Get(key); val != "" {
			meta.Headers[key] = val
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	content, err := decodeBody(raw, meta.ContentType)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	finalURL := resp.Request.URL.String()

	return &FetchResult{
		HTML:     string(content),
		Meta:     meta,
		Subject:  extractSubject(finalURL),
		FinalURL: finalURL,
	}, nil
}

// decodeBody converts a page to UTF-8. Valid UTF-8 is kept as is; anything
// else goes through charset detection, since ISO-8859-1 and Windows-1252
// pages are still common on Portuguese sites.
func decodeBody(raw []byte, contentType string) ([]byte, error) {
	if len(raw) == 0 || utf8.Valid(raw) {
		return raw, nil
	}
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func (f *Fetcher) fromCache(rawURL string) (*FetchResult, bool) {
	if f.cache == nil {
		return nil, false
	}
	data, ok := f.cache.Get(cache.CacheKey(rawURL))
	if !ok {
		return nil, false
	}

	var result FetchResult
	if err := json.Unmarshal(data, &result); err != nil {
		_ = f.cache.Delete(cache.CacheKey(rawURL))
		return nil, false
	}
	result.Meta.FromCache = true
	return &result, true
}

func (f *Fetcher) toCache(rawURL string, result *FetchResult) {
	if f.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := f.cache.Set(cache.CacheKey(rawURL), data, f.cacheTTL); err != nil {
		logging.Named("fetcher").Warn().Err(err).Msg("cache write failed")
	}
}

// isRetryableFetchError reports whether a fetch error is transient:
// transport failures, 5xx and 429
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()

	if strings.HasPrefix(msg, "fetch: ") {
		return true
	}
	if strings.HasPrefix(msg, "unexpected status: ") {
		var code int
		if _, scanErr := fmt.Sscanf(msg, "unexpected status: %d", &code); scanErr == nil {
			return code >= 500 || code == http.StatusTooManyRequests
		}
	}
	return false
}

// extractSubject derives a readable subject from the URL's last path segment
func extractSubject(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	return last
}
