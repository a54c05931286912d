package live

import "encoding/json"

// Message is the envelope for the live canvas feed. Subscribers are
// read-only viewers; the server is the only producer.
type Message struct {
	Type      string          `json:"type"`
	GalleryID string          `json:"galleryId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	TypeWelcome       = "welcome"
	TypeCanvasUpdated = "canvas.updated"
)

// CanvasUpdatedPayload carries a freshly saved canvas document to viewers.
type CanvasUpdatedPayload struct {
	Version  int32           `json:"version"`
	Document json.RawMessage `json:"document"`
}
