package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEnrichr mimics the two Enrichr endpoints used by the client.
func fakeEnrichr(t *testing.T, entries string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/addList":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, r.ParseMultipartForm(1<<20))
			assert.NotEmpty(t, r.FormValue("list"))
			assert.Equal(t, "KnowDEGs", r.FormValue("description"))
			fmt.Fprint(w, `{"userListId": 4242, "shortId": "abc"}`)
		case "/enrich":
			assert.Equal(t, "4242", r.URL.Query().Get("userListId"))
			assert.Equal(t, "KEGG_2021_Human", r.URL.Query().Get("backgroundType"))
			fmt.Fprintf(w, `{"KEGG_2021_Human": %s}`, entries)
		default:
			http.NotFound(w, r)
		}
	}))
}

// entry builds one positional Enrichr result array.
func entry(rank int, term string, pval float64, genes ...string) string {
	fields := []interface{}{rank, term, pval, 1.0, 2.0, genes, 0.001}
	b, _ := json.Marshal(fields)
	return string(b)
}

func TestEnrich(t *testing.T) {
	entries := fmt.Sprintf("[%s,%s,%s]",
		entry(1, "p53 signaling pathway", 0.0001, "TP53", "MDM2"),
		entry(2, "Cell cycle", 0.001, "TP53"),
		entry(3, "Apoptosis", 0.01, "TP53", "BAX"),
	)
	server := fakeEnrichr(t, entries)
	defer server.Close()

	c := NewEnrichrClient(server.URL)
	terms, err := c.Enrich(context.Background(), []string{"TP53", "MDM2", "BAX"})
	require.NoError(t, err)
	require.Len(t, terms, 3)

	require.Equal(t, "p53 signaling pathway", terms[0].Term)
	require.Equal(t, 0.0001, terms[0].PValue)
	require.Equal(t, []string{"TP53", "MDM2"}, terms[0].Genes)
	require.InDelta(t, 4.0, terms[0].NegLog10P, 1e-9)

	// Service rank order is preserved.
	require.Equal(t, "Cell cycle", terms[1].Term)
	require.Equal(t, "Apoptosis", terms[2].Term)
}

func TestEnrichKeepsTopFive(t *testing.T) {
	var entries string
	for i := 0; i < 8; i++ {
		if i > 0 {
			entries += ","
		}
		entries += entry(i+1, fmt.Sprintf("Pathway %d", i+1), 0.001, "TP53")
	}
	server := fakeEnrichr(t, "["+entries+"]")
	defer server.Close()

	c := NewEnrichrClient(server.URL)
	terms, err := c.Enrich(context.Background(), []string{"TP53"})
	require.NoError(t, err)
	require.Len(t, terms, 5)
	require.Equal(t, "Pathway 1", terms[0].Term)
	require.Equal(t, "Pathway 5", terms[4].Term)
}

func TestEnrichEmptyResultIsNotAnError(t *testing.T) {
	server := fakeEnrichr(t, "[]")
	defer server.Close()

	c := NewEnrichrClient(server.URL)
	terms, err := c.Enrich(context.Background(), []string{"TP53"})
	require.NoError(t, err)
	require.Empty(t, terms)
}

func TestEnrichErrors(t *testing.T) {

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "AddListFails",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "down", http.StatusBadGateway)
			},
		},
		{
			name: "AddListWithoutListID",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"shortId": "abc"}`)
			},
		},
		{
			name: "EnrichFails",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/addList" {
					fmt.Fprint(w, `{"userListId": 7}`)
					return
				}
				http.Error(w, "down", http.StatusInternalServerError)
			},
		},
		{
			name: "MissingBackgroundKey",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/addList" {
					fmt.Fprint(w, `{"userListId": 7}`)
					return
				}
				fmt.Fprint(w, `{"GO_Biological_Process_2021": []}`)
			},
		},
		{
			name: "MalformedEntry",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/addList" {
					fmt.Fprint(w, `{"userListId": 7}`)
					return
				}
				fmt.Fprint(w, `{"KEGG_2021_Human": [[1, "Term", "not-a-number", 0, 0, []]]}`)
			},
		},
		{
			name: "ShortEntry",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/addList" {
					fmt.Fprint(w, `{"userListId": 7}`)
					return
				}
				fmt.Fprint(w, `{"KEGG_2021_Human": [[1, "Term", 0.01]]}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			c := NewEnrichrClient(server.URL)
			terms, err := c.Enrich(context.Background(), []string{"TP53"})
			if err == nil {
				t.Fatalf("expected an error but got none")
			}
			if terms != nil {
				t.Errorf("expected no terms on error, got %d", len(terms))
			}
		})
	}
}
