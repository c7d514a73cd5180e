package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"scrap-backend/internal/cache"
	"scrap-backend/internal/export"
	"scrap-backend/internal/middleware"
	"scrap-backend/internal/models"
	"scrap-backend/internal/services"
	"scrap-backend/pkg/utils"
)

type ReceptionHandler struct {
	Service *services.ReceptionService
}

func NewReceptionHandler(s *services.ReceptionService) *ReceptionHandler {
	return &ReceptionHandler{Service: s}
}

func (h *ReceptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReceptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	meta := middleware.MetaFromRequest(r)

	entry, lot, err := h.Service.Create(r.Context(), &req, actor, meta)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cache.InvalidateDashboardStats(r.Context())
	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"recepcion": entry,
		"stock":     lot,
	})
}

func (h *ReceptionHandler) List(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	material := r.URL.Query().Get("tipo_material")
	destino := r.URL.Query().Get("destino")

	entries, err := h.Service.List(r.Context(), start, end, actor, material, destino)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []*models.ReceptionEntry{}
	}
	utils.JSON(w, http.StatusOK, entries)
}

func (h *ReceptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	entry, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, entry)
}

func (h *ReceptionHandler) UpdateDestino(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		Destino             string `json:"destino"`
		LugarAlmacenamiento string `json:"lugar_almacenamiento"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	meta := middleware.MetaFromRequest(r)

	entry, err := h.Service.UpdateDestino(r.Context(), id, req.Destino, req.LugarAlmacenamiento, actor, meta)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, entry)
}

func (h *ReceptionHandler) MarkPrinted(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	entry, err := h.Service.MarkPrinted(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, entry)
}

// Label renders the printable HU label and flags the reception as
// printed.
func (h *ReceptionHandler) Label(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	entry, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pdf, err := export.HULabelPDF(entry)
	if err != nil {
		http.Error(w, "Label generation failed", http.StatusInternalServerError)
		return
	}

	if _, err := h.Service.MarkPrinted(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", entry.NumeroHU))
	w.Write(pdf)
}
