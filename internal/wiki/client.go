// Package wiki provides the HTTP client for the Wikipedia web pages and the
// MediaWiki action API.
//
// Every request waits on a token bucket limiter with burst 1, so consecutive
// calls are spaced by at least the configured delay regardless of caller.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://en.wikipedia.org"
	apiPath        = "/w/api.php"
)

// ErrNotFound is returned when a page, file or thumbnail does not exist.
var ErrNotFound = errors.New("wiki: not found")

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration // minimum spacing between requests
	Logger    *slog.Logger
}

// Client is the rate-limited client for one wiki.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a wiki client.
func NewClient(opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "scoracle-quiz/1.0"
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}
	return &Client{
		http:    client,
		limiter: rate.NewLimiter(limit, 1),
		logger:  opts.Logger,
	}
}

// get performs a rate-limited GET and returns the response body.
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", path, err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if res.IsError() {
		return nil, fmt.Errorf("wiki %s returned %d: %s", path, res.StatusCode(), truncate(res.Body(), 200))
	}
	return res.Body(), nil
}

// apiError is the error envelope of the action API.
type apiError struct {
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// action calls the action API and decodes the JSON response into out.
func (c *Client) action(ctx context.Context, params map[string]string, out any) error {
	params["format"] = "json"
	body, err := c.get(ctx, apiPath, params)
	if err != nil {
		return err
	}

	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", params["action"], err)
	}
	if envelope.Error != nil {
		switch envelope.Error.Code {
		case "missingtitle", "nosuchpageid", "invalidtitle":
			return fmt.Errorf("%s: %w", envelope.Error.Info, ErrNotFound)
		}
		return fmt.Errorf("wiki api %s: %s: %s", params["action"], envelope.Error.Code, envelope.Error.Info)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", params["action"], err)
	}
	return nil
}

// Download fetches an absolute URL through the same limiter, returning the
// body and its content type.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limit wait: %w", err)
	}
	res, err := c.http.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, "", fmt.Errorf("%s: %w", rawURL, ErrNotFound)
	}
	if res.IsError() {
		return nil, "", fmt.Errorf("download %s returned %d", rawURL, res.StatusCode())
	}
	return res.Body(), res.Header().Get("Content-Type"), nil
}

// PageTitle turns a display title into its URL form ("AC Milan" becomes
// "AC_Milan").
func PageTitle(title string) string {
	return strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
}

// TitleFromRef extracts the page title from a "/wiki/Title" link or an
// "/w/index.php?title=Title" link (redlinks, edit links). Other inputs are
// returned with underscores replaced.
func TitleFromRef(ref string) string {
	if strings.HasPrefix(ref, "/w/index.php?") {
		if q, err := url.ParseQuery(strings.TrimPrefix(ref, "/w/index.php?")); err == nil && q.Get("title") != "" {
			return strings.ReplaceAll(q.Get("title"), "_", " ")
		}
	}
	title := strings.TrimPrefix(ref, "/wiki/")
	if i := strings.IndexAny(title, "#?"); i >= 0 {
		title = title[:i]
	}
	if unescaped, err := url.PathUnescape(title); err == nil {
		title = unescaped
	}
	return strings.ReplaceAll(title, "_", " ")
}

// truncate returns a truncated string for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
