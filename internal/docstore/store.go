// Package docstore persists generated infographic documents as raw JSON,
// keyed by a stable document id derived from the source locator.
package docstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrNotFound is returned when no document exists under the given id.
var ErrNotFound = errors.New("docstore: document not found")

// Store is the persistence contract. Content is the encoded document; callers
// decode on the way out so a store never needs to understand the schema.
type Store interface {
	Put(ctx context.Context, id string, content []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// DocumentID derives a stable id from a source locator. Re-generating the
// same repository overwrites the prior document instead of piling up copies.
func DocumentID(locator string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(strings.ToLower(locator))))
	return "doc-" + hex.EncodeToString(sum[:])[:16]
}
