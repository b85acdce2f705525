package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ---------------------------------------------------------------------------
// Page content
// ---------------------------------------------------------------------------

// PageHTML fetches the rendered article at /wiki/<title>.
func (c *Client) PageHTML(ctx context.Context, title string) (string, error) {
	body, err := c.get(ctx, "/wiki/"+url.PathEscape(PageTitle(title)), nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

type parseResponse struct {
	Parse struct {
		Title  string `json:"title"`
		PageID int    `json:"pageid"`
		Text   struct {
			HTML string `json:"*"`
		} `json:"text"`
		Images []string `json:"images"`
	} `json:"parse"`
}

// ParsePageHTML returns the parsed HTML of the page with the given id.
func (c *Client) ParsePageHTML(ctx context.Context, pageID int) (string, error) {
	var resp parseResponse
	err := c.action(ctx, map[string]string{
		"action": "parse",
		"pageid": strconv.Itoa(pageID),
		"prop":   "text",
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("parse page %d: %w", pageID, err)
	}
	return resp.Parse.Text.HTML, nil
}

// ParseTitleHTML returns the parsed HTML of the page with the given title,
// following redirects.
func (c *Client) ParseTitleHTML(ctx context.Context, title string) (string, error) {
	var resp parseResponse
	err := c.action(ctx, map[string]string{
		"action":    "parse",
		"page":      title,
		"prop":      "text",
		"redirects": "1",
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("parse page %q: %w", title, err)
	}
	return resp.Parse.Text.HTML, nil
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

// Member is one page of a category.
type Member struct {
	PageID int    `json:"pageid"`
	NS     int    `json:"ns"`
	Title  string `json:"title"`
}

type categoryResponse struct {
	Continue *struct {
		CMContinue string `json:"cmcontinue"`
	} `json:"continue"`
	Query struct {
		CategoryMembers []Member `json:"categorymembers"`
	} `json:"query"`
}

// CategoryMembers pages through every article of a category
// ("Category:Serie_A_players"), following cmcontinue tokens.
func (c *Client) CategoryMembers(ctx context.Context, category string) ([]Member, error) {
	params := map[string]string{
		"action":      "query",
		"list":        "categorymembers",
		"cmtitle":     category,
		"cmlimit":     "max",
		"cmnamespace": "0",
		"cmtype":      "page",
	}

	var members []Member
	for page := 1; ; page++ {
		var resp categoryResponse
		if err := c.action(ctx, params, &resp); err != nil {
			return members, fmt.Errorf("%s page %d: %w", category, page, err)
		}
		members = append(members, resp.Query.CategoryMembers...)
		c.logger.Debug("category page fetched", "category", category, "page", page, "members", len(members))

		if resp.Continue == nil || resp.Continue.CMContinue == "" {
			break
		}
		params["cmcontinue"] = resp.Continue.CMContinue
	}
	return members, nil
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

type queryPage struct {
	PageID    int     `json:"pageid"`
	Title     string  `json:"title"`
	Missing   *string `json:"missing"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ImageInfo []struct {
		URL string `json:"url"`
	} `json:"imageinfo"`
}

type queryResponse struct {
	Query struct {
		Pages map[string]queryPage `json:"pages"`
	} `json:"query"`
}

// PageImage returns the lead image thumbnail of a page. An existing page
// without a lead image yields "".
func (c *Client) PageImage(ctx context.Context, title string, thumbSize int) (string, error) {
	var resp queryResponse
	err := c.action(ctx, map[string]string{
		"action":      "query",
		"titles":      title,
		"prop":        "pageimages",
		"pithumbsize": strconv.Itoa(thumbSize),
		"redirects":   "1",
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("page image %q: %w", title, err)
	}

	for _, p := range resp.Query.Pages {
		if p.Missing != nil {
			return "", fmt.Errorf("page image %q: %w", title, ErrNotFound)
		}
		if p.Thumbnail != nil {
			return p.Thumbnail.Source, nil
		}
	}
	return "", nil
}

// PageImages lists the file names embedded in a page, in page order.
func (c *Client) PageImages(ctx context.Context, title string) ([]string, error) {
	var resp parseResponse
	err := c.action(ctx, map[string]string{
		"action":    "parse",
		"page":      title,
		"prop":      "images",
		"redirects": "1",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("page images %q: %w", title, err)
	}
	return resp.Parse.Images, nil
}

// ImageURL resolves a file name (without the "File:" prefix) to its full
// URL. Files hosted on a shared repository report "missing" locally but
// still carry image info.
func (c *Client) ImageURL(ctx context.Context, file string) (string, error) {
	var resp queryResponse
	err := c.action(ctx, map[string]string{
		"action": "query",
		"titles": "File:" + file,
		"prop":   "imageinfo",
		"iiprop": "url",
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("image url %q: %w", file, err)
	}

	for _, p := range resp.Query.Pages {
		if len(p.ImageInfo) > 0 && p.ImageInfo[0].URL != "" {
			return p.ImageInfo[0].URL, nil
		}
	}
	return "", fmt.Errorf("image url %q: %w", file, ErrNotFound)
}
