package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"scrap-backend/internal/middleware"
	"scrap-backend/internal/models"
	"scrap-backend/internal/services"
	"scrap-backend/pkg/utils"
)

type StockHandler struct {
	Service *services.StockService
}

func NewStockHandler(s *services.StockService) *StockHandler {
	return &StockHandler{Service: s}
}

func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lots, err := h.Service.List(r.Context(), q.Get("tipo_material"), q.Get("ubicacion"), q.Get("estado"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if lots == nil {
		lots = []*models.StockLot{}
	}
	utils.JSON(w, http.StatusOK, lots)
}

func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	lot, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, lot)
}

func (h *StockHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())

	lot, err := h.Service.Adjust(r.Context(), id, &req, actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, lot)
}

func (h *StockHandler) Movements(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	movements, err := h.Service.Movements(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if movements == nil {
		movements = []models.StockMovement{}
	}
	utils.JSON(w, http.StatusOK, movements)
}

func (h *StockHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.LocationSummary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if summary == nil {
		summary = []models.StockLocationSummary{}
	}
	utils.JSON(w, http.StatusOK, summary)
}
