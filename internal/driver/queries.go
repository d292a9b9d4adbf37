package driver

const (
	SaveChunkQuery = `
		MERGE (c:Chunk {uuid: $uuid})
		SET c.text = $text,
			c.source = $source,
			c.created_at = $created_at,
			c.embedding = $embedding
		RETURN c.uuid AS uuid
	`

	VectorSearchChunksQuery = `
		CALL vector_search.search("chunk_embedding", $k, $embedding)
		YIELD node, similarity
		RETURN node.text AS text, node.source AS source, similarity AS score
		ORDER BY score DESC
	`

	TextSearchChunksQuery = `
		MATCH (c:Chunk)
		WHERE toLower(c.text) CONTAINS toLower($query)
		RETURN c.text AS text, c.source AS source, 0.0 AS score
		LIMIT $k
	`
)
