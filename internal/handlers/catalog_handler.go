package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"scrap-backend/internal/models"
	"scrap-backend/internal/services"
	"scrap-backend/pkg/utils"
)

type CatalogHandler struct {
	Service *services.CatalogService
}

func NewCatalogHandler(s *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

func (h *CatalogHandler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("todos") == ""

	materials, err := h.Service.ListMaterials(r.Context(), activeOnly)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if materials == nil {
		materials = []models.Material{}
	}
	utils.JSON(w, http.StatusOK, materials)
}

func (h *CatalogHandler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req models.SaveMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	material, err := h.Service.CreateMaterial(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.JSON(w, http.StatusCreated, material)
}

func (h *CatalogHandler) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.SaveMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	material, err := h.Service.UpdateMaterial(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, material)
}

func (h *CatalogHandler) SetMaterialActive(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		Activo bool `json:"activo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	material, err := h.Service.SetMaterialActive(r.Context(), id, req.Activo)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, material)
}

func (h *CatalogHandler) ListAreaMachines(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("todos") == ""

	items, err := h.Service.ListAreaMachines(r.Context(), activeOnly)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if items == nil {
		items = []models.AreaMachine{}
	}
	utils.JSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) CreateAreaMachine(w http.ResponseWriter, r *http.Request) {
	var req models.SaveAreaMachineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.Service.CreateAreaMachine(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.JSON(w, http.StatusCreated, item)
}

func (h *CatalogHandler) UpdateAreaMachine(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		models.SaveAreaMachineRequest
		Activo bool `json:"activo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.Service.UpdateAreaMachine(r.Context(), id, &req.SaveAreaMachineRequest, req.Activo)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, item)
}
