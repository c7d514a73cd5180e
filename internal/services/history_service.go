package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"strconv"

	"scrap-backend/internal/metrics"
	"scrap-backend/internal/models"
	"scrap-backend/internal/repositories"
)

// ErrNotRecorded signals that an audit call was intentionally skipped
// because the value did not actually change.
var ErrNotRecorded = errors.New("change not recorded")

// HistoryStore is the persistence surface the history service needs
type HistoryStore interface {
	Insert(ctx context.Context, rec *models.ChangeLogRecord) error
	Fetch(ctx context.Context, origen string, f repositories.HistoryFilter) ([]models.ChangeLogRecord, error)
}

// HistoryService writes and reads the append-only change ledger. Audit
// failures never propagate to the business operation that triggered
// them: a broken history store degrades to a logged warning.
type HistoryService struct {
	store HistoryStore
}

func NewHistoryService(store HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// FormatKg renders a weight the way it is stored in audit rows
func FormatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64) + " kg"
}

func (s *HistoryService) insert(ctx context.Context, rec *models.ChangeLogRecord) {
	err := s.store.Insert(ctx, rec)
	if err == nil {
		return
	}
	metrics.AuditWritesDropped.Inc()
	if errors.Is(err, repositories.ErrTableMissing) {
		log.Printf("[History] WARN: history table for %s missing, audit row dropped", rec.Origen)
		return
	}
	log.Printf("[History] WARN: audit write failed: %v", err)
}

func baseRecord(origen string, registroID int, tipo string, actor models.Actor, meta models.RequestMeta) *models.ChangeLogRecord {
	responsable := actor.Name
	if responsable == "" {
		responsable = "Sistema"
	}
	rol := actor.Role
	if rol == "" {
		rol = "sistema"
	}
	return &models.ChangeLogRecord{
		RegistroID:     registroID,
		Origen:         origen,
		TipoMovimiento: tipo,
		Responsable:    responsable,
		Rol:            rol,
		IPAddress:      meta.IP,
		UserAgent:      meta.UserAgent,
	}
}

// RecordCreation audits a manual creation. Rows created automatically
// by the scale bridge are never audited, so automated callers skip this.
func (s *HistoryService) RecordCreation(ctx context.Context, origen string, registroID int, automated bool, descripcion string, actor models.Actor, meta models.RequestMeta) {
	if automated {
		return
	}
	rec := baseRecord(origen, registroID, models.HistCreateManual, actor, meta)
	rec.Observaciones = descripcion
	s.insert(ctx, rec)
}

// RecordWeightEdit audits a weight change on one field. When the old
// and new values render identically at storage precision the edit is
// suppressed and ErrNotRecorded is returned.
func (s *HistoryService) RecordWeightEdit(ctx context.Context, origen string, registroID int, campo string, anterior, nuevo float64, observaciones string, actor models.Actor, meta models.RequestMeta) error {
	va := FormatKg(anterior)
	vn := FormatKg(nuevo)
	if va == vn {
		return ErrNotRecorded
	}

	rec := baseRecord(origen, registroID, models.HistUpdate, actor, meta)
	rec.CampoModificado = campo
	rec.ValorAnterior = &va
	rec.ValorNuevo = &vn
	rec.Observaciones = observaciones
	s.insert(ctx, rec)
	return nil
}

// RecordFieldEdit audits a non-weight field change, with the same
// unchanged-value suppression.
func (s *HistoryService) RecordFieldEdit(ctx context.Context, origen string, registroID int, campo, anterior, nuevo string, actor models.Actor, meta models.RequestMeta) error {
	if anterior == nuevo {
		return ErrNotRecorded
	}

	rec := baseRecord(origen, registroID, models.HistUpdate, actor, meta)
	rec.CampoModificado = campo
	rec.ValorAnterior = &anterior
	rec.ValorNuevo = &nuevo
	s.insert(ctx, rec)
	return nil
}

// RecordManualSum audits an additive correction to a weight field
func (s *HistoryService) RecordManualSum(ctx context.Context, origen string, registroID int, campo string, cantidad, anterior, nuevo float64, actor models.Actor, meta models.RequestMeta) {
	va := FormatKg(anterior)
	vn := FormatKg(nuevo)

	rec := baseRecord(origen, registroID, models.HistSuma, actor, meta)
	rec.CampoModificado = campo
	rec.ValorAnterior = &va
	rec.ValorNuevo = &vn
	rec.Observaciones = "Suma manual de " + FormatKg(cantidad)
	s.insert(ctx, rec)
}

// RecordDeletion audits a record removal
func (s *HistoryService) RecordDeletion(ctx context.Context, origen string, registroID int, descripcion string, actor models.Actor, meta models.RequestMeta) {
	rec := baseRecord(origen, registroID, models.HistDelete, actor, meta)
	rec.Observaciones = descripcion
	s.insert(ctx, rec)
}

// RecordBatchCreation audits a bulk manual capture as a single row
// referencing the first created id, with the full id list attached.
// Automated batches (scale bridge) are never audited.
func (s *HistoryService) RecordBatchCreation(ctx context.Context, origen string, ids []int, automated bool, actor models.Actor, meta models.RequestMeta) {
	if automated || len(ids) == 0 {
		return
	}

	idList, err := json.Marshal(ids)
	if err != nil {
		log.Printf("[History] WARN: batch id list not serializable: %v", err)
		return
	}
	nuevo := string(idList)

	rec := baseRecord(origen, ids[0], models.HistBatchCreate, actor, meta)
	rec.ValorNuevo = &nuevo
	rec.Observaciones = "Captura en lote de " + strconv.Itoa(len(ids)) + " registros"
	s.insert(ctx, rec)
}

// FetchHistory reads audit rows for one side of the ledger, or for
// both when origen is "todos", merged newest first. A side whose table
// is missing contributes nothing instead of failing the query.
func (s *HistoryService) FetchHistory(ctx context.Context, origen string, f repositories.HistoryFilter) ([]models.ChangeLogRecord, error) {
	sides := []string{origen}
	if origen == models.OrigenTodos {
		sides = []string{models.OrigenProduccion, models.OrigenRecepcion}
	}

	var merged []models.ChangeLogRecord
	for _, side := range sides {
		records, err := s.store.Fetch(ctx, side, f)
		if errors.Is(err, repositories.ErrTableMissing) {
			log.Printf("[History] WARN: history table for %s missing, returning partial history", side)
			continue
		}
		if err != nil {
			return nil, err
		}
		merged = append(merged, records...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return merged, nil
}
