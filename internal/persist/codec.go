// Package persist serializes gallery canvas documents to and from their JSON
// form, validates loaded documents, and debounces autosaves to the external
// persistence collaborator.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inkwell/inkwell/canvas-go/internal/canvas"
)

// ErrInvalidDocument wraps every validation failure on load. The bridge does
// not attempt partial recovery from a malformed document.
var ErrInvalidDocument = errors.New("invalid canvas document")

// Serialize dumps the document structurally: objects array plus canvas
// width/height/background.
func Serialize(doc *canvas.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize canvas document: %w", err)
	}
	return data, nil
}

// Deserialize parses and validates a canvas document. The top level must be
// an object with an objects array; every object must carry a non-empty id, a
// recognized type, and its kind's required fields.
func Deserialize(data []byte) (*canvas.Document, error) {
	var doc canvas.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Objects == nil {
		return nil, fmt.Errorf("%w: missing objects array", ErrInvalidDocument)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}
