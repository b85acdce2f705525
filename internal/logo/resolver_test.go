package logo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-quiz/internal/career"
)

type fakeWiki struct {
	lead    map[string]string
	gallery map[string][]string
	files   map[string]string
	calls   int
	titles  []string
}

func (f *fakeWiki) PageImage(_ context.Context, title string, size int) (string, error) {
	f.calls++
	f.titles = append(f.titles, title)
	if size != 500 {
		return "", fmt.Errorf("unexpected size %d", size)
	}
	url, ok := f.lead[title]
	if !ok {
		return "", errors.New("missing")
	}
	return url, nil
}

func (f *fakeWiki) PageImages(_ context.Context, title string) ([]string, error) {
	f.calls++
	files, ok := f.gallery[title]
	if !ok {
		return nil, errors.New("missing")
	}
	return files, nil
}

func (f *fakeWiki) ImageURL(_ context.Context, file string) (string, error) {
	f.calls++
	url, ok := f.files[file]
	if !ok {
		return "", errors.New("missing")
	}
	return url, nil
}

type fakeEntities map[string]string

func (f fakeEntities) EntityTitle(_ context.Context, qid string) (string, error) {
	title, ok := f[qid]
	if !ok {
		return "", errors.New("no sitelink")
	}
	return title, nil
}

type fakeSearch struct{ url string }

func (f fakeSearch) Search(context.Context, string) (string, error) { return f.url, nil }

func newFakeWiki() *fakeWiki {
	return &fakeWiki{lead: map[string]string{}, gallery: map[string][]string{}, files: map[string]string{}}
}

func newResolver(t *testing.T, w Wiki, opts Options) *Resolver {
	t.Helper()
	r, err := NewResolver(w, opts)
	require.NoError(t, err)
	return r
}

func TestResolveOverride(t *testing.T) {
	w := newFakeWiki()
	r := newResolver(t, w, Options{Tables: Tables{Overrides: []Override{
		{Key: "hellas verona fc", URL: "logos/Hellas_Verona.png"},
		{Key: "atletico", URL: "logos/Atletico.png"},
	}}})
	ctx := context.Background()

	require.Equal(t, "logos/Hellas_Verona.png", r.Resolve(ctx, "/wiki/Hellas_Verona_FC"))
	require.Equal(t, "logos/Atletico.png", r.Resolve(ctx, "/wiki/Atl%C3%A9tico_Madrid"))
	require.Zero(t, w.calls)
}

func TestResolveLeadImage(t *testing.T) {
	w := newFakeWiki()
	w.lead["Juventus FC"] = "https://upload.example/thumb/Juventus_FC_2017_icon.png"
	w.lead["AC Milan"] = "https://upload.example/thumb/San_Siro_arena.jpg"
	w.gallery["AC Milan"] = []string{"San_Siro_arena.jpg", "Commons-logo.svg", "Logo_of_AC_Milan.svg", "Milan_kit.png"}
	w.files["Logo_of_AC_Milan.svg"] = "https://upload.example/Logo_of_AC_Milan.svg"
	r := newResolver(t, w, Options{})
	ctx := context.Background()

	require.Equal(t, "https://upload.example/thumb/Juventus_FC_2017_icon.png", r.Resolve(ctx, "Juventus FC"))
	// excluded lead image falls through to the gallery
	require.Equal(t, "https://upload.example/Logo_of_AC_Milan.svg", r.Resolve(ctx, "AC Milan"))
}

func TestResolveFallbacks(t *testing.T) {
	w := newFakeWiki()
	r := newResolver(t, w, Options{Entities: fakeEntities{"Q1": "Nowhere FC"}})
	ctx := context.Background()

	require.Equal(t, DefaultLogo, r.Resolve(ctx, "Q1"))
	require.Equal(t, DefaultLogo, r.Resolve(ctx, "http://www.wikidata.org/entity/Q2"))
	require.Equal(t, DefaultLogo, r.Resolve(ctx, ""))

	withSearch := newResolver(t, w, Options{Search: fakeSearch{url: "https://img.example/nowhere.svg"}})
	require.Equal(t, "https://img.example/nowhere.svg", withSearch.Resolve(ctx, "Nowhere FC"))

	custom := newResolver(t, w, Options{Default: "crests/none.png"})
	require.Equal(t, "crests/none.png", custom.Resolve(ctx, "Nowhere FC"))
	require.True(t, custom.IsDefault("crests/none.png"))
}

func TestResolveMemoizesSuccessOnly(t *testing.T) {
	w := newFakeWiki()
	w.lead["Juventus FC"] = "https://upload.example/juve.png"
	r := newResolver(t, w, Options{})
	ctx := context.Background()

	r.Resolve(ctx, "Juventus FC")
	r.Resolve(ctx, "Juventus FC")
	require.Equal(t, 1, w.calls)

	r.Resolve(ctx, "Nowhere")
	r.Resolve(ctx, "Nowhere")
	require.Equal(t, 1+2*2, w.calls)
}

func TestResolveTeamParents(t *testing.T) {
	w := newFakeWiki()
	w.lead["Italy national football team"] = "https://upload.example/figc.svg"
	w.lead["Real Madrid"] = "https://upload.example/rm.svg"
	r := newResolver(t, w, Options{})
	ctx := context.Background()

	youth := career.Record{Team: "Italy U21", TeamRef: "/wiki/Italy_national_under-21_football_team"}
	require.Equal(t, "https://upload.example/figc.svg", r.ResolveTeam(ctx, youth))

	reserve := career.Record{Team: "Real Madrid B"}
	require.Equal(t, "https://upload.example/rm.svg", r.ResolveTeam(ctx, reserve))

	require.Equal(t, DefaultLogo, r.ResolveTeam(ctx, career.Record{}))
}

func TestResolveTeamRedlink(t *testing.T) {
	w := newFakeWiki()
	w.lead["Foo"] = "https://upload.example/foo.svg"
	r := newResolver(t, w, Options{})

	rec := career.Record{Team: "Foo B", TeamRef: "/w/index.php?title=Foo_B&action=edit&redlink=1"}
	require.Equal(t, "https://upload.example/foo.svg", r.ResolveTeam(context.Background(), rec))
	require.Equal(t, "Foo B", w.titles[0])
	require.NotContains(t, w.titles, rec.TeamRef)
}

func TestBestCandidate(t *testing.T) {
	r := newResolver(t, newFakeWiki(), Options{})

	testCases := []struct {
		title    string
		files    []string
		expected string
		ok       bool
	}{
		{
			title:    "Hellas Verona F.C.",
			files:    []string{"Stadio_Bentegodi.jpg", "Verona_city.jpg", "Hellas_Verona_FC_logo.svg"},
			expected: "Hellas_Verona_FC_logo.svg",
			ok:       true,
		},
		{
			title:    "Real Betis",
			files:    []string{"Escudo_Real_Betis.png", "Real_Betis_crest.png"},
			expected: "Escudo_Real_Betis.png",
			ok:       true,
		},
		{
			title:    "Some Club",
			files:    []string{"readme.txt", "First_photo.jpg", "Second_photo.jpg"},
			expected: "First_photo.jpg",
			ok:       true,
		},
		{
			title: "Some Club",
			files: []string{"Some_Club_kit.png", "Map.gif"},
		},
	}
	for _, tc := range testCases {
		got, ok := r.BestCandidate(tc.title, tc.files)
		require.Equal(t, tc.ok, ok, tc.title)
		require.Equal(t, tc.expected, got, tc.title)
	}
}

func TestScore(t *testing.T) {
	r := newResolver(t, newFakeWiki(), Options{})
	// title (4) + logo (2) + similarity bonus (5)
	require.Equal(t, 11, r.Score("Juventus FC", "Juventus_FC_logo.svg"))
	require.Equal(t, 0, r.Score("Juventus FC", "Allianz_Stadium.jpg"))
	// scudo and escudo both hit "Escudo"
	require.Equal(t, 4, r.Score("Valencia", "Escudo.svg"))
}

func TestSearchClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "Juventus football logo svg":
			fmt.Fprint(w, `{"image_url":"https://img.example/juve.svg"}`)
		default:
			fmt.Fprint(w, `{}`)
		}
	}))
	defer srv.Close()

	c := NewSearchClient(srv.URL+"/scrape-image", nil)
	url, err := c.Search(context.Background(), "Juventus")
	require.NoError(t, err)
	require.Equal(t, "https://img.example/juve.svg", url)

	url, err = c.Search(context.Background(), "Nowhere")
	require.NoError(t, err)
	require.Empty(t, url)
}

type fakeGetter struct {
	calls int
}

func (f *fakeGetter) Download(_ context.Context, rawURL string) ([]byte, string, error) {
	f.calls++
	return []byte("<svg/>"), "image/svg+xml", nil
}

func TestDownloader(t *testing.T) {
	dir := t.TempDir()
	g := &fakeGetter{}
	d := NewDownloader(g, dir, nil)
	ctx := context.Background()

	p, skipped, err := d.Download(ctx, "Juventus", "https://upload.example/juve")
	require.NoError(t, err)
	require.False(t, skipped)
	require.Equal(t, filepath.Join(dir, "Juventus.svg"), p)
	body, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, "<svg/>", string(body))

	p2, skipped, err := d.Download(ctx, "Juventus", "https://upload.example/juve2.png")
	require.NoError(t, err)
	require.True(t, skipped)
	require.Equal(t, p, p2)

	_, skipped, err = d.Download(ctx, "Nowhere", DefaultLogo)
	require.NoError(t, err)
	require.True(t, skipped)

	require.Equal(t, 1, g.calls)
	require.Equal(t, "A_C", FileName(" A/C "))
}
