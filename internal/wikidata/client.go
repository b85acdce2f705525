// Package wikidata queries the Wikidata knowledge base: SPARQL selects for
// rosters and memberships, and entity documents for sitelinks.
package wikidata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultSPARQLURL = "https://query.wikidata.org/sparql"
	DefaultEntityURL = "https://www.wikidata.org/wiki/Special:EntityData"
)

var (
	// ErrNoSitelink is returned when an entity has no English Wikipedia page.
	ErrNoSitelink = errors.New("wikidata: entity has no enwiki sitelink")
	// ErrNotFound is returned for unknown entities.
	ErrNotFound = errors.New("wikidata: entity not found")
)

var qidPattern = regexp.MustCompile(`^Q\d+$`)

// Options configures a Client.
type Options struct {
	SPARQLURL string
	EntityURL string
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
	Logger    *slog.Logger
}

// Client is the rate-limited Wikidata client.
type Client struct {
	http      *resty.Client
	sparqlURL string
	entityURL string
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewClient creates a Wikidata client.
func NewClient(opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SPARQLURL == "" {
		opts.SPARQLURL = DefaultSPARQLURL
	}
	if opts.EntityURL == "" {
		opts.EntityURL = DefaultEntityURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "scoracle-quiz/1.0"
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}
	return &Client{
		http:      client,
		sparqlURL: opts.SPARQLURL,
		entityURL: strings.TrimRight(opts.EntityURL, "/"),
		limiter:   rate.NewLimiter(limit, 1),
		logger:    opts.Logger,
	}
}

// Row is one SPARQL result binding, variable name to literal value.
// Unbound optional variables are absent.
type Row map[string]string

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// Query runs a SPARQL select. The query travels in a form body, so large
// VALUES clauses are fine.
func (c *Client) Query(ctx context.Context, query string) ([]Row, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/sparql-results+json").
		SetFormData(map[string]string{"query": query}).
		Post(c.sparqlURL)
	if err != nil {
		return nil, fmt.Errorf("sparql request: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("sparql returned %d: %s", res.StatusCode(), truncate(res.Body(), 200))
	}

	var resp sparqlResponse
	if err := json.Unmarshal(res.Body(), &resp); err != nil {
		return nil, fmt.Errorf("decode sparql response: %w", err)
	}

	rows := make([]Row, 0, len(resp.Results.Bindings))
	for _, binding := range resp.Results.Bindings {
		row := make(Row, len(binding))
		for name, v := range binding {
			row[name] = v.Value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type entityResponse struct {
	Entities map[string]struct {
		Sitelinks map[string]struct {
			Title string `json:"title"`
		} `json:"sitelinks"`
	} `json:"entities"`
}

// EntityTitle returns the English Wikipedia page title of an entity.
func (c *Client) EntityTitle(ctx context.Context, qid string) (string, error) {
	if !qidPattern.MatchString(qid) {
		return "", fmt.Errorf("invalid entity id %q", qid)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	res, err := c.http.R().SetContext(ctx).Get(c.entityURL + "/" + qid + ".json")
	if err != nil {
		return "", fmt.Errorf("entity %s: %w", qid, err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return "", fmt.Errorf("entity %s: %w", qid, ErrNotFound)
	}
	if res.IsError() {
		return "", fmt.Errorf("entity %s returned %d", qid, res.StatusCode())
	}

	var resp entityResponse
	if err := json.Unmarshal(res.Body(), &resp); err != nil {
		return "", fmt.Errorf("decode entity %s: %w", qid, err)
	}
	entity, ok := resp.Entities[qid]
	if !ok {
		return "", fmt.Errorf("entity %s: %w", qid, ErrNotFound)
	}
	link, ok := entity.Sitelinks["enwiki"]
	if !ok || link.Title == "" {
		return "", fmt.Errorf("entity %s: %w", qid, ErrNoSitelink)
	}
	return link.Title, nil
}

// QIDFromIRI extracts "Q123" from "http://www.wikidata.org/entity/Q123" or
// accepts a bare QID. ok is false for anything else.
func QIDFromIRI(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "/"); i >= 0 && strings.Contains(s, "wikidata.org") {
		s = s[i+1:]
	}
	if qidPattern.MatchString(s) {
		return s, true
	}
	return "", false
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
