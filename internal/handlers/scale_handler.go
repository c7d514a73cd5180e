package handlers

import (
	"log"
	"net/http"

	"scrap-backend/internal/scale"
	"scrap-backend/pkg/utils"
)

type ScaleHandler struct {
	Reader *scale.Reader
}

func NewScaleHandler(reader *scale.Reader) *ScaleHandler {
	return &ScaleHandler{Reader: reader}
}

// Read takes one weight sample from the plant scale. An unreachable
// scale is a 503 so the frontend can fall back to manual capture.
func (h *ScaleHandler) Read(w http.ResponseWriter, r *http.Request) {
	reading, err := h.Reader.Read(r.Context())
	if err != nil {
		log.Printf("[Bascula] read failed: %v", err)
		http.Error(w, "Báscula no disponible, capture el peso manualmente", http.StatusServiceUnavailable)
		return
	}

	utils.JSON(w, http.StatusOK, reading)
}
