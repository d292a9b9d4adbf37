// Package retrieval looks up document chunks for the RAG branch. The corpus
// lives in Memgraph as :Chunk nodes populated by the ingestion service.
package retrieval

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agenthands/cobalt/internal/driver"
	"github.com/agenthands/cobalt/internal/llm"
)

// SearchResult is one retrieved chunk, ordered by descending relevance.
type SearchResult struct {
	Score  float64
	Text   string
	Source string
}

type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]SearchResult, error)
}

// MemgraphRetriever searches chunk embeddings via the vector index when an
// embedder is configured, and falls back to text containment otherwise.
type MemgraphRetriever struct {
	Driver   driver.GraphDriver
	Embedder llm.EmbedderClient
	Reranker llm.RerankerClient
}

func NewMemgraphRetriever(d driver.GraphDriver, embedder llm.EmbedderClient, reranker llm.RerankerClient) *MemgraphRetriever {
	return &MemgraphRetriever{Driver: d, Embedder: embedder, Reranker: reranker}
}

func (r *MemgraphRetriever) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	cypher := driver.TextSearchChunksQuery
	params := map[string]interface{}{
		"query": query,
		"k":     int64(k),
	}

	if r.Embedder != nil {
		vec, err := r.Embedder.Embed(ctx, query)
		if err != nil {
			return nil, err
		}
		cypher = driver.VectorSearchChunksQuery
		params = map[string]interface{}{
			"embedding": vec,
			"k":         int64(k),
		}
	}

	result, err := r.Driver.ExecuteQuery(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, record := range result.Records {
		text, _ := record.Get("text")
		source, _ := record.Get("source")
		score, _ := record.Get("score")

		sr := SearchResult{}
		if s, ok := text.(string); ok {
			sr.Text = s
		}
		if s, ok := source.(string); ok {
			sr.Source = s
		}
		if f, ok := score.(float64); ok {
			sr.Score = f
		}
		results = append(results, sr)
	}

	if r.Reranker != nil && len(results) > 1 {
		results = r.rerank(ctx, query, results)
	}

	log.Debug().Int("results", len(results)).Str("query", query).Msg("retrieval search")
	return results, nil
}

func (r *MemgraphRetriever) rerank(ctx context.Context, query string, results []SearchResult) []SearchResult {
	docs := make([]string, len(results))
	for i, res := range results {
		docs[i] = res.Text
	}

	indices, err := r.Reranker.Rank(ctx, query, docs)
	if err != nil || len(indices) == 0 {
		return results
	}

	reordered := make([]SearchResult, 0, len(results))
	seen := make(map[int]bool)
	for _, idx := range indices {
		if idx < 0 || idx >= len(results) || seen[idx] {
			continue
		}
		seen[idx] = true
		reordered = append(reordered, results[idx])
	}
	for i, res := range results {
		if !seen[i] {
			reordered = append(reordered, res)
		}
	}
	return reordered
}

// IndexChunk stores one chunk in the corpus. Used by seeding and tests; bulk
// ingestion is the scraper service's job.
func (r *MemgraphRetriever) IndexChunk(ctx context.Context, text, source string) error {
	params := map[string]interface{}{
		"uuid":       uuid.New().String(),
		"text":       text,
		"source":     source,
		"created_at": time.Now().UTC().Format(time.RFC3339),
		"embedding":  nil,
	}

	if r.Embedder != nil {
		if vec, err := r.Embedder.Embed(ctx, text); err == nil {
			params["embedding"] = vec
		}
	}

	_, err := r.Driver.ExecuteQuery(ctx, driver.SaveChunkQuery, params)
	return err
}
