// Package store is the document-style content cache behind the site. Every
// payload is wrapped in the same {content, timestamp} envelope the front end
// expects, addressed by (collection, id).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no document exists at (collection, id).
var ErrNotFound = errors.New("document not found")

// Document wraps a stored payload with its write timestamp (unix millis).
type Document struct {
	Content   json.RawMessage `json:"content"`
	Timestamp int64           `json:"timestamp"`
}

// NewDocument marshals v into a Document envelope.
func NewDocument(v any, timestamp int64) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Document{}, fmt.Errorf("marshal document content: %w", err)
	}
	return Document{Content: raw, Timestamp: timestamp}, nil
}

// Store is the persistence contract the pipeline and preview server share.
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Set(ctx context.Context, collection, id string, doc Document) error
	Close() error
}

// PersistenceError wraps a failed write so callers can log the document
// address without parsing error strings.
type PersistenceError struct {
	Collection string
	ID         string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s/%s: %v", e.Collection, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
