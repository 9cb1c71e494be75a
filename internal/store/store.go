package store

import (
	"context"
	"errors"

	"github.com/friendly-foods/backend/internal/models"
)

// ErrUnavailable indicates the backing store cannot be reached. Callers in
// the generation path treat this as a cache miss rather than failing the
// request.
var ErrUnavailable = errors.New("document store unavailable")

// DocumentStore persists the whole application document. Reads return a
// snapshot; writes replace the entire document (last write wins, no
// per-record transactions).
type DocumentStore interface {
	Read(ctx context.Context) (*models.Document, error)
	Write(ctx context.Context, doc *models.Document) error
}
