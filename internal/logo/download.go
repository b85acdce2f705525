package logo

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Getter fetches a URL, returning the body and its content type.
type Getter interface {
	Download(ctx context.Context, rawURL string) ([]byte, string, error)
}

// Downloader stores crests as <dir>/<team><ext>.
type Downloader struct {
	getter     Getter
	dir        string
	extensions []string
	logger     *slog.Logger
}

// NewDownloader creates a Downloader writing into dir.
func NewDownloader(getter Getter, dir string, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		getter:     getter,
		dir:        dir,
		extensions: DefaultTables().Extensions,
		logger:     logger,
	}
}

// Existing returns the path of a crest already stored for team.
func (d *Downloader) Existing(team string) (string, bool) {
	base := filepath.Join(d.dir, FileName(team))
	for _, ext := range d.extensions {
		if _, err := os.Stat(base + ext); err == nil {
			return base + ext, true
		}
	}
	return "", false
}

// Download stores the crest at imageURL for team unless one is already
// stored. Non-HTTP values (the sentinel, local override paths) are skipped.
func (d *Downloader) Download(ctx context.Context, team, imageURL string) (string, bool, error) {
	if p, ok := d.Existing(team); ok {
		return p, true, nil
	}
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", true, nil
	}

	body, contentType, err := d.getter.Download(ctx, imageURL)
	if err != nil {
		return "", false, fmt.Errorf("download crest for %s: %w", team, err)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create %s: %w", d.dir, err)
	}
	p := filepath.Join(d.dir, FileName(team)+d.extension(u, contentType))
	if err := os.WriteFile(p, body, 0o644); err != nil {
		return "", false, fmt.Errorf("write %s: %w", p, err)
	}
	d.logger.Info("crest downloaded", "team", team, "path", p)
	return p, false, nil
}

func (d *Downloader) extension(u *url.URL, contentType string) string {
	ext := strings.ToLower(path.Ext(u.Path))
	for _, allowed := range d.extensions {
		if ext == allowed {
			return ext
		}
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "image/svg+xml":
			return ".svg"
		case "image/jpeg":
			return ".jpg"
		}
	}
	return ".png"
}

// FileName turns a team name into a file name, keeping it readable.
func FileName(team string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(team))
}
