// Package store persists the canonical trade ledger and weekly snapshot
// series as shared, versioned JSON documents. Writes go through a
// compare-and-swap protocol with one bounded retry; merges are dedup-by-key,
// so concurrent writers uploading overlapping batches converge on the same
// ledger no matter who wins the race.
package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

var (
	// ErrNotFound means the document has never been written.
	ErrNotFound = errors.New("store: document not found")

	// ErrVersionConflict means the conditional write lost to another writer.
	ErrVersionConflict = errors.New("store: version conflict")

	// ErrWriteConflict means the write lost twice in a row: once against the
	// original version and once against refreshed state. Retryable by the
	// caller, never retried further here.
	ErrWriteConflict = errors.New("store: write conflict after retry")
)

// DocumentClient is the versioned-document transport. Get may be served from
// a read-optimized replica; Put always goes through the authoritative
// conditional path. Put with a stale version returns ErrVersionConflict. A
// version of "" on Put asserts the document does not exist yet.
type DocumentClient interface {
	Get(ctx context.Context, key string) (data []byte, version string, err error)
	Put(ctx context.Context, key string, data []byte, version string) (newVersion string, err error)
}

// MemoryClient is an in-process DocumentClient with integer version tokens.
// Used by tests and offline runs.
type MemoryClient struct {
	mu   sync.Mutex
	docs map[string]memoryDoc
}

type memoryDoc struct {
	data    []byte
	version int
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{docs: make(map[string]memoryDoc)}
}

func (c *MemoryClient) Get(_ context.Context, key string) ([]byte, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	out := make([]byte, len(doc.data))
	copy(out, doc.data)
	return out, strconv.Itoa(doc.version), nil
}

func (c *MemoryClient) Put(_ context.Context, key string, data []byte, version string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, exists := c.docs[key]
	switch {
	case version == "" && exists:
		return "", ErrVersionConflict
	case version != "" && (!exists || strconv.Itoa(doc.version) != version):
		return "", ErrVersionConflict
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	next := doc.version + 1
	c.docs[key] = memoryDoc{data: stored, version: next}
	return strconv.Itoa(next), nil
}
