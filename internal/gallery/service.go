// Package gallery exposes the canvas persistence collaborator over HTTP:
// loading the latest canvas snapshot for a gallery and saving new versions.
package gallery

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwell/inkwell/canvas-go/internal/canvas"
	"github.com/inkwell/inkwell/canvas-go/internal/persist"
	"github.com/inkwell/inkwell/canvas-go/internal/store"
)

var ErrNotFound = errors.New("gallery not found")

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Load returns the latest canvas document for a gallery, validated.
func (s *Service) Load(ctx context.Context, galleryID string) (*canvas.Document, int32, error) {
	raw, version, err := s.store.LoadCanvas(ctx, galleryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("load canvas: %w", err)
	}

	doc, err := persist.Deserialize(raw)
	if err != nil {
		return nil, 0, fmt.Errorf("stored canvas for %s: %w", galleryID, err)
	}
	return doc, version, nil
}

// Save validates the submitted document and writes it as a new snapshot
// version. The normalized serialization is stored, not the raw submission.
func (s *Service) Save(ctx context.Context, galleryID string, raw []byte) (*canvas.Document, int32, error) {
	doc, err := persist.Deserialize(raw)
	if err != nil {
		return nil, 0, err
	}

	normalized, err := persist.Serialize(doc)
	if err != nil {
		return nil, 0, err
	}

	version, err := s.store.SaveCanvas(ctx, galleryID, normalized)
	if err != nil {
		return nil, 0, fmt.Errorf("save canvas: %w", err)
	}
	return doc, version, nil
}
