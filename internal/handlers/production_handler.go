package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"scrap-backend/internal/cache"
	"scrap-backend/internal/middleware"
	"scrap-backend/internal/models"
	"scrap-backend/internal/services"
	"scrap-backend/pkg/utils"
)

type ProductionHandler struct {
	Service *services.ProductionService
}

func NewProductionHandler(s *services.ProductionService) *ProductionHandler {
	return &ProductionHandler{Service: s}
}

func (h *ProductionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	meta := middleware.MetaFromRequest(r)

	entry, err := h.Service.Create(r.Context(), &req, actor, meta)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cache.InvalidateDashboardStats(r.Context())
	utils.JSON(w, http.StatusCreated, entry)
}

func (h *ProductionHandler) BatchCreate(w http.ResponseWriter, r *http.Request) {
	var req models.BatchCreateProductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	meta := middleware.MetaFromRequest(r)

	entries, err := h.Service.BatchCreate(r.Context(), &req, actor, meta)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cache.InvalidateDashboardStats(r.Context())
	utils.JSON(w, http.StatusCreated, entries)
}

func (h *ProductionHandler) List(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	turno, _ := strconv.Atoi(r.URL.Query().Get("turno"))
	area := r.URL.Query().Get("area")

	entries, err := h.Service.List(r.Context(), start, end, turno, area)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []*models.ProductionEntry{}
	}
	utils.JSON(w, http.StatusOK, entries)
}

func (h *ProductionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	entry, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, entry)
}

func (h *ProductionHandler) UpdateDetail(w http.ResponseWriter, r *http.Request) {
	detalleID, _ := strconv.Atoi(mux.Vars(r)["detalleID"])

	var req models.UpdateDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	meta := middleware.MetaFromRequest(r)

	detail, err := h.Service.UpdateDetailPeso(r.Context(), detalleID, &req, actor, meta)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateDashboardStats(r.Context())
	utils.JSON(w, http.StatusOK, detail)
}

func (h *ProductionHandler) SumDetail(w http.ResponseWriter, r *http.Request) {
	detalleID, _ := strconv.Atoi(mux.Vars(r)["detalleID"])

	var req models.SumDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	meta := middleware.MetaFromRequest(r)

	detail, err := h.Service.SumDetail(r.Context(), detalleID, &req, actor, meta)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateDashboardStats(r.Context())
	utils.JSON(w, http.StatusOK, detail)
}

func (h *ProductionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	actor := middleware.ActorFromContext(r.Context())
	meta := middleware.MetaFromRequest(r)

	if err := h.Service.Delete(r.Context(), id, actor, meta); err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateDashboardStats(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
