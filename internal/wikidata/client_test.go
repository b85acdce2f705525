package wikidata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-quiz/internal/career"
)

const membershipResults = `{"head":{"vars":[]},"results":{"bindings":[
{"player":{"type":"uri","value":"http://www.wikidata.org/entity/Q1"},"qid":{"type":"literal","value":"Q1"},"playerLabel":{"type":"literal","value":"Mario Rossi"},
 "team":{"type":"uri","value":"http://www.wikidata.org/entity/Q630"},"teamLabel":{"type":"literal","value":"Juventus FC"},"membershipType":{"type":"literal","value":"club"},
 "start":{"type":"literal","value":"2016-07-01T00:00:00Z"},"end":{"type":"literal","value":"2019-06-30T00:00:00Z"},"appearances":{"type":"literal","value":"+88"},"goals":{"type":"literal","value":"12"}},
{"player":{"type":"uri","value":"http://www.wikidata.org/entity/Q1"},"qid":{"type":"literal","value":"Q1"},"playerLabel":{"type":"literal","value":"Mario Rossi"},
 "team":{"type":"uri","value":"http://www.wikidata.org/entity/Q676899"},"teamLabel":{"type":"literal","value":"Italy national football team"},"membershipType":{"type":"literal","value":"national"},
 "start":{"type":"literal","value":"2018-01-01T00:00:00Z"}},
{"player":{"type":"uri","value":"http://www.wikidata.org/entity/Q1"},"membershipType":{"type":"literal","value":"club"}}
]}}`

func TestQueryAndMemberships(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		require.Contains(t, r.PostForm.Get("query"), "VALUES ?player { wd:Q1 }")
		require.Equal(t, "application/sparql-results+json", r.Header.Get("Accept"))
		fmt.Fprint(w, membershipResults)
	}))
	defer srv.Close()

	c := NewClient(Options{SPARQLURL: srv.URL})
	rows, err := c.Query(context.Background(), MembershipQuery([]string{"Q1"}))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	ms := Memberships(rows)
	require.Len(t, ms, 2)
	require.Equal(t, 88, *ms[0].Appearances)
	require.Nil(t, ms[1].Appearances)

	grouped := GroupByPlayer(ms)
	n88, n12 := 88, 12
	expected := career.Career{
		Clubs:          []career.Record{{Period: "2016–2019", Team: "Juventus FC", TeamRef: "Q630", Appearances: &n88, Goals: &n12, Kind: career.Club}},
		Internationals: []career.Record{{Period: "2018–", Team: "Italy national football team", TeamRef: "Q676899", Kind: career.International}},
	}
	if diff := cmp.Diff(expected, grouped["Q1"]); diff != "" {
		t.Fatalf("unexpected career (-want +got):\n%s", diff)
	}
}

func TestRosterEntries(t *testing.T) {
	rows := []Row{
		{"player": "http://www.wikidata.org/entity/Q5", "qid": "Q5", "playerLabel": "A"},
		{"player": "http://www.wikidata.org/entity/Q5", "qid": "Q5", "playerLabel": "A"},
		{"player": "http://www.wikidata.org/entity/Q6", "playerLabel": "B"},
		{"playerLabel": "no id"},
	}
	require.Equal(t,
		[]career.RosterEntry{{QID: "Q5", Title: "A"}, {QID: "Q6", Title: "B"}},
		RosterEntries(rows),
	)

	q := RosterQuery(2010, 2022, 2025)
	require.Contains(t, q, `"2010-01-01T00:00:00Z"`)
	require.Contains(t, q, `MAX(?start) >= "2022-01-01T00:00:00Z"`)
	require.Contains(t, q, `COALESCE(?end, "2025-01-01T00:00:00Z"`)
	require.True(t, strings.Contains(q, "wd:Q15804"))
}

func TestEntityTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Q630.json":
			fmt.Fprint(w, `{"entities":{"Q630":{"sitelinks":{"enwiki":{"site":"enwiki","title":"Juventus FC"}}}}}`)
		case "/Q999.json":
			fmt.Fprint(w, `{"entities":{"Q999":{"sitelinks":{"itwiki":{"title":"Qualcosa"}}}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(Options{EntityURL: srv.URL})
	ctx := context.Background()

	title, err := c.EntityTitle(ctx, "Q630")
	require.NoError(t, err)
	require.Equal(t, "Juventus FC", title)

	_, err = c.EntityTitle(ctx, "Q999")
	require.ErrorIs(t, err, ErrNoSitelink)

	_, err = c.EntityTitle(ctx, "Q404")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.EntityTitle(ctx, "not-a-qid")
	require.Error(t, err)
}

func TestQIDFromIRI(t *testing.T) {
	q, ok := QIDFromIRI("http://www.wikidata.org/entity/Q630")
	require.True(t, ok)
	require.Equal(t, "Q630", q)

	q, ok = QIDFromIRI("Q42")
	require.True(t, ok)
	require.Equal(t, "Q42", q)

	_, ok = QIDFromIRI("/wiki/Juventus_FC")
	require.False(t, ok)
}
