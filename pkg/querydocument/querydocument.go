// Package querydocument parses GraphQL operation documents and keeps parsed
// documents around for repeated cache writes of the same operation.
package querydocument

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/atomic"
)

const DefaultCacheSize = 256

func Parse(query string) (*ast.QueryDocument, error) {
	document, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return nil, fmt.Errorf("querydocument.Parse: %w", err)
	}
	return document, nil
}

type entry struct {
	query    string
	document *ast.QueryDocument
}

type Stats struct {
	Hits   int64
	Misses int64
}

// Cache is an LRU of parsed documents keyed by the hash of the query text.
// Documents returned from the cache are shared and must not be modified.
type Cache struct {
	documents *lru.Cache
	hits      *atomic.Int64
	misses    *atomic.Int64
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	documents, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		documents: documents,
		hits:      atomic.NewInt64(0),
		misses:    atomic.NewInt64(0),
	}, nil
}

func (c *Cache) Parse(query string) (*ast.QueryDocument, error) {
	key := xxhash.Sum64String(query)
	if cached, ok := c.documents.Get(key); ok {
		// hash collisions fall through to a fresh parse
		if e := cached.(entry); e.query == query {
			c.hits.Inc()
			return e.document, nil
		}
	}

	c.misses.Inc()
	document, err := Parse(query)
	if err != nil {
		return nil, err
	}
	c.documents.Add(key, entry{query: query, document: document})
	return document, nil
}

func (c *Cache) Len() int {
	return c.documents.Len()
}

func (c *Cache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
