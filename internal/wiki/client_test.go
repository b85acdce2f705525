package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func TestCategoryMembersFollowsContinue(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		q := r.URL.Query()
		require.Equal(t, "/w/api.php", r.URL.Path)
		require.Equal(t, "categorymembers", q.Get("list"))
		require.Equal(t, "Category:Serie_A_players", q.Get("cmtitle"))

		switch q.Get("cmcontinue") {
		case "":
			fmt.Fprint(w, `{"continue":{"cmcontinue":"page|2","continue":"-||"},"query":{"categorymembers":[{"pageid":1,"ns":0,"title":"A"},{"pageid":2,"ns":0,"title":"B"}]}}`)
		case "page|2":
			fmt.Fprint(w, `{"query":{"categorymembers":[{"pageid":3,"ns":0,"title":"C"}]}}`)
		default:
			t.Fatalf("unexpected cmcontinue %q", q.Get("cmcontinue"))
		}
	})

	members, err := c.CategoryMembers(context.Background(), "Category:Serie_A_players")
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Equal(t, []Member{{PageID: 1, Title: "A"}, {PageID: 2, Title: "B"}, {PageID: 3, Title: "C"}}, members)
}

func TestParsePageHTML(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("pageid") == "404" {
			fmt.Fprint(w, `{"error":{"code":"nosuchpageid","info":"There is no page with ID 404."}}`)
			return
		}
		require.Equal(t, "parse", q.Get("action"))
		require.Equal(t, "text", q.Get("prop"))
		fmt.Fprint(w, `{"parse":{"title":"X","pageid":42,"text":{"*":"<table class=\"infobox\"></table>"}}}`)
	})

	html, err := c.ParsePageHTML(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, `<table class="infobox"></table>`, html)

	_, err = c.ParsePageHTML(context.Background(), 404)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPageHTML(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/wiki/2015–16_Serie_A" {
			fmt.Fprint(w, "<html>standings</html>")
			return
		}
		http.NotFound(w, r)
	})

	body, err := c.PageHTML(context.Background(), "2015–16 Serie A")
	require.NoError(t, err)
	require.Equal(t, "<html>standings</html>", body)

	_, err = c.PageHTML(context.Background(), "Nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestImages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("prop") == "pageimages" && q.Get("titles") == "Missing":
			fmt.Fprint(w, `{"query":{"pages":{"-1":{"ns":0,"title":"Missing","missing":""}}}}`)
		case q.Get("prop") == "pageimages":
			require.Equal(t, "500", q.Get("pithumbsize"))
			fmt.Fprint(w, `{"query":{"pages":{"7":{"pageid":7,"title":"Juventus FC","thumbnail":{"source":"https://upload.example/juve.png"}}}}}`)
		case q.Get("prop") == "images":
			fmt.Fprint(w, `{"parse":{"title":"Juventus FC","images":["Juventus_FC_2017_logo.svg","Allianz_Stadium.jpg"]}}`)
		case q.Get("prop") == "imageinfo":
			require.Equal(t, "File:Juventus_FC_2017_logo.svg", q.Get("titles"))
			fmt.Fprint(w, `{"query":{"pages":{"-1":{"ns":6,"title":"File:Juventus FC 2017 logo.svg","missing":"","imagerepository":"shared","imageinfo":[{"url":"https://upload.example/juve.svg"}]}}}}`)
		default:
			t.Fatalf("unexpected request %s", r.URL.String())
		}
	})
	ctx := context.Background()

	thumb, err := c.PageImage(ctx, "Juventus FC", 500)
	require.NoError(t, err)
	require.Equal(t, "https://upload.example/juve.png", thumb)

	_, err = c.PageImage(ctx, "Missing", 500)
	require.ErrorIs(t, err, ErrNotFound)

	files, err := c.PageImages(ctx, "Juventus FC")
	require.NoError(t, err)
	require.Equal(t, []string{"Juventus_FC_2017_logo.svg", "Allianz_Stadium.jpg"}, files)

	url, err := c.ImageURL(ctx, "Juventus_FC_2017_logo.svg")
	require.NoError(t, err)
	require.Equal(t, "https://upload.example/juve.svg", url)
}

func TestRequestSpacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"parse":{"text":{"*":""}}}`)
	}))
	defer srv.Close()
	c := NewClient(Options{BaseURL: srv.URL, Delay: 50 * time.Millisecond})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.ParsePageHTML(context.Background(), 1)
		require.NoError(t, err)
	}
	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestTitleFromRef(t *testing.T) {
	require.Equal(t, "Hellas Verona FC", TitleFromRef("/wiki/Hellas_Verona_FC"))
	require.Equal(t, "Real Madrid CF", TitleFromRef("/wiki/Real_Madrid_CF#History"))
	require.Equal(t, "Atlético Madrid", TitleFromRef("/wiki/Atl%C3%A9tico_Madrid"))
	require.Equal(t, "Foo B", TitleFromRef("/w/index.php?title=Foo_B&action=edit&redlink=1"))
	require.Equal(t, "AC_Milan", PageTitle("AC_Milan"))
	require.Equal(t, "AC_Milan", PageTitle(" AC Milan "))
}
