// Package search keeps a full-text Elasticsearch index of recipes. The
// primary store stays the source of truth; the index only answers which ids
// match a query.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// RecipeIndex indexes recipes by title, description and ingredients.
type RecipeIndex struct {
	es    *elasticsearch.Client
	index string
	// MaxHits bounds a search result.
	MaxHits int
}

func NewRecipeIndex(es *elasticsearch.Client, index string) *RecipeIndex {
	return &RecipeIndex{es: es, index: index, MaxHits: 100}
}

type recipeDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Category    string   `json:"category"`
	CreatedAt   string   `json:"created_at"`
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("es %s: %s: %s", op, res.Status(), strings.TrimSpace(string(body)))
}

// Index upserts the searchable fields of r.
func (x *RecipeIndex) Index(ctx context.Context, r *entity.Recipe) error {
	b, err := json.Marshal(recipeDocument{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Category:    string(r.Category),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: r.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

// Remove drops id from the index. Unknown ids are ignored.
func (x *RecipeIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete", res)
	}
	return nil
}

func searchBody(query string, category entity.Category, size int) map[string]any {
	must := []any{}
	if q := strings.TrimSpace(query); q != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"title^3", "ingredients^2", "description"},
				"fuzziness": "AUTO",
			},
		})
	}
	filter := []any{}
	if category != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"category": string(category)}})
	}
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must, "filter": filter},
		},
		"size":    size,
		"_source": false,
	}
}

// Search returns the ids of matching recipes, best match first.
func (x *RecipeIndex) Search(ctx context.Context, query string, category entity.Category) ([]string, error) {
	b, err := json.Marshal(searchBody(query, category, x.MaxHits))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, responseError("search", res)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
