package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"scrap-backend/internal/export"
	"scrap-backend/internal/models"
	"scrap-backend/internal/repositories"
	"scrap-backend/internal/services"
	"scrap-backend/internal/timeutil"
	"scrap-backend/pkg/utils"
)

type ContraloriaHandler struct {
	Reconciliation *services.ReconciliationService
	History        *services.HistoryService
}

func NewContraloriaHandler(reconciliation *services.ReconciliationService, history *services.HistoryService) *ContraloriaHandler {
	return &ContraloriaHandler{Reconciliation: reconciliation, History: history}
}

// Stats returns the reconciliation snapshot for a date range: the
// movement list (filterable by material, paginated), the side totals
// and the capture-method breakdown.
func (h *ContraloriaHandler) Stats(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snapshot, err := h.Reconciliation.Snapshot(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	breakdown, err := h.Reconciliation.CaptureBreakdown(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	movimientos := snapshot.Movimientos
	if material := r.URL.Query().Get("material"); material != "" {
		filtered := make([]models.Movement, 0, len(movimientos))
		for _, m := range movimientos {
			if m.Material == material {
				filtered = append(filtered, m)
			}
		}
		movimientos = filtered
	}

	total := len(movimientos)
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	movimientos = movimientos[offset:]
	if limit > 0 && limit < len(movimientos) {
		movimientos = movimientos[:limit]
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"movimientos":       movimientos,
		"total_movimientos": total,
		"totales":           snapshot.Totales,
		"captura":           breakdown,
	})
}

// Materiales returns the complete per-material table alongside the
// top-discrepancy ranking
func (h *ContraloriaHandler) Materiales(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	table, err := h.Reconciliation.MaterialTable(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	discrepancies, err := h.Reconciliation.DiscrepanciesByMaterial(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if table == nil {
		table = []models.MaterialDiscrepancy{}
	}
	if discrepancies == nil {
		discrepancies = []models.MaterialDiscrepancy{}
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"materiales":        table,
		"top_discrepancias": discrepancies,
	})
}

// Historial returns the change-history log, filterable by side,
// record, actor, field and date range.
func (h *ContraloriaHandler) Historial(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	origen := q.Get("origen")
	if origen == "" {
		origen = models.OrigenTodos
	}
	switch origen {
	case models.OrigenProduccion, models.OrigenRecepcion, models.OrigenTodos:
	default:
		http.Error(w, "origen must be produccion, recepcion or todos", http.StatusBadRequest)
		return
	}

	filter := repositories.HistoryFilter{
		Responsable:    q.Get("responsable"),
		Campo:          q.Get("campo"),
		TipoMovimiento: q.Get("tipo_movimiento"),
	}
	filter.RegistroID, _ = strconv.Atoi(q.Get("registro_id"))

	if q.Get("fecha_inicio") != "" || q.Get("fecha_fin") != "" {
		start, end, err := parseDateRange(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.From, filter.To = timeutil.DayRange(start, end)
	}

	records, err := h.History.FetchHistory(r.Context(), origen, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if records == nil {
		records = []models.ChangeLogRecord{}
	}
	utils.JSON(w, http.StatusOK, records)
}

// ExportWorkbook streams the reconciliation view as an Excel file
func (h *ContraloriaHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snapshot, err := h.Reconciliation.Snapshot(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	discrepancies, err := h.Reconciliation.DiscrepanciesByMaterial(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := export.ReconciliationWorkbook(snapshot, discrepancies, start, end)
	if err != nil {
		http.Error(w, "Workbook generation failed", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("conciliacion_%s_%s.xlsx", start.Format("20060102"), end.Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(data)
}
