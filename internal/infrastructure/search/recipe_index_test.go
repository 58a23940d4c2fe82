package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func esResponse(status int, body string) *http.Response {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{StatusCode: status, Header: h, Body: io.NopCloser(strings.NewReader(body))}
}

func newIndex(t *testing.T, rt roundTripFunc) *RecipeIndex {
	t.Helper()
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{"http://es:9200"}, Transport: rt})
	require.NoError(t, err)
	return NewRecipeIndex(es, "recipes")
}

func TestRecipeIndex_Search(t *testing.T) {
	var sent map[string]any
	x := newIndex(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "/recipes/_search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		return esResponse(200, `{"hits":{"hits":[{"_id":"b"},{"_id":"a"}]}}`), nil
	})

	ids, err := x.Search(context.Background(), "tomato", entity.CategoryStarter)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids)

	boolQ := sent["query"].(map[string]any)["bool"].(map[string]any)
	assert.Len(t, boolQ["must"], 1)
	assert.Len(t, boolQ["filter"], 1)
}

func TestRecipeIndex_SearchError(t *testing.T) {
	x := newIndex(t, func(*http.Request) (*http.Response, error) {
		return esResponse(500, `{"error":"boom"}`), nil
	})
	_, err := x.Search(context.Background(), "x", "")
	require.Error(t, err)
}

func TestRecipeIndex_IndexAndRemove(t *testing.T) {
	var paths []string
	x := newIndex(t, func(r *http.Request) (*http.Response, error) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			return esResponse(404, `{"result":"not_found"}`), nil
		}
		return esResponse(201, `{"result":"created"}`), nil
	})

	require.NoError(t, x.Index(context.Background(), &entity.Recipe{ID: "r1", Title: "Soup", Category: entity.CategoryStarter}))
	require.NoError(t, x.Remove(context.Background(), "r1"))
	assert.Equal(t, []string{"PUT /recipes/_doc/r1", "DELETE /recipes/_doc/r1"}, paths)
}

func TestSearchBody_EmptyQueryMatchesAll(t *testing.T) {
	b := searchBody("  ", "", 10)
	boolQ := b["query"].(map[string]any)["bool"].(map[string]any)
	assert.Empty(t, boolQ["must"])
	assert.Empty(t, boolQ["filter"])
	assert.Equal(t, 10, b["size"])
}
