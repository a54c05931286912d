package gallery

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inkwell/inkwell/canvas-go/internal/live"
	"github.com/inkwell/inkwell/canvas-go/internal/persist"
)

const maxCanvasSize = 4 << 20 // 4MB

type Handler struct {
	service *Service
	hub     *live.Hub
}

func NewHandler(service *Service, hub *live.Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

type loadResponse struct {
	GalleryID string          `json:"galleryId"`
	Version   int32           `json:"version"`
	Canvas    json.RawMessage `json:"canvas"`
}

type saveResponse struct {
	GalleryID string `json:"galleryId"`
	Version   int32  `json:"version"`
}

// Load handles GET /galleries/{galleryId}/canvas.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	galleryID := mux.Vars(r)["galleryId"]

	doc, version, err := h.service.Load(r.Context(), galleryID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "gallery canvas not found"})
			return
		}
		slog.Error("load canvas", "gallery", galleryID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	raw, err := persist.Serialize(doc)
	if err != nil {
		slog.Error("serialize canvas", "gallery", galleryID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, loadResponse{GalleryID: galleryID, Version: version, Canvas: raw})
}

// Save handles PUT /galleries/{galleryId}/canvas. The body is the canvas
// document JSON; it is validated before a new snapshot version is written,
// and viewers on the live feed are notified afterwards.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	galleryID := mux.Vars(r)["galleryId"]

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCanvasSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "canvas too large (max 4MB)"})
		return
	}

	doc, version, err := h.service.Save(r.Context(), galleryID, body)
	if err != nil {
		if errors.Is(err, persist.ErrInvalidDocument) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		slog.Error("save canvas", "gallery", galleryID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	if h.hub != nil {
		if raw, err := persist.Serialize(doc); err == nil {
			h.hub.BroadcastCanvas(galleryID, version, raw)
		}
	}

	writeJSON(w, http.StatusOK, saveResponse{GalleryID: galleryID, Version: version})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
