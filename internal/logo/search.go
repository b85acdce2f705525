package logo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// SearchTimeout bounds one image search call, including the service's wait
// for the rendered image.
const SearchTimeout = 5 * time.Second

// SearchClient queries an image search service that answers
// GET <url>?q=<query> with {"image_url": "..."}.
type SearchClient struct {
	http   *resty.Client
	url    string
	logger *slog.Logger
}

// NewSearchClient creates a SearchClient for the service at url.
func NewSearchClient(url string, logger *slog.Logger) *SearchClient {
	if logger == nil {
		logger = slog.Default()
	}
	client := resty.New()
	client.SetTimeout(SearchTimeout)
	return &SearchClient{http: client, url: url, logger: logger}
}

type searchResponse struct {
	ImageURL string `json:"image_url"`
}

// Search returns the first image found for the team's crest, or "" when
// the service found nothing.
func (c *SearchClient) Search(ctx context.Context, team string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, SearchTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", team+" football logo svg").
		Get(c.url)
	if err != nil {
		return "", fmt.Errorf("image search %q: %w", team, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("image search %q returned %d", team, res.StatusCode())
	}

	var resp searchResponse
	if err := json.Unmarshal(res.Body(), &resp); err != nil {
		return "", fmt.Errorf("decode image search response: %w", err)
	}
	if resp.ImageURL == "" {
		c.logger.Debug("image search found nothing", "team", team)
	}
	return resp.ImageURL, nil
}
