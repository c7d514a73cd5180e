package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scrap-backend/internal/metrics"
	"scrap-backend/internal/models"
	"scrap-backend/internal/timeutil"
)

// ProductionStore is the persistence surface the production service needs
type ProductionStore interface {
	Create(ctx context.Context, entry *models.ProductionEntry) error
	Get(ctx context.Context, id int) (*models.ProductionEntry, error)
	List(ctx context.Context, from, to time.Time, turno int, area string) ([]*models.ProductionEntry, error)
	GetDetail(ctx context.Context, detalleID int) (*models.ProductionDetail, error)
	SetDetailPeso(ctx context.Context, detalleID int, peso float64) error
	Delete(ctx context.Context, id int) error
}

// MaterialStore resolves configured material types
type MaterialStore interface {
	GetMaterial(ctx context.Context, id int) (*models.Material, error)
	GetDefaultMaterial(ctx context.Context) (*models.Material, error)
}

type ProductionService struct {
	store     ProductionStore
	materials MaterialStore
	history   *HistoryService
}

func NewProductionService(store ProductionStore, materials MaterialStore, history *HistoryService) *ProductionService {
	return &ProductionService{store: store, materials: materials, history: history}
}

func (s *ProductionService) validate(ctx context.Context, req *models.CreateProductionRequest) error {
	if req.Turno < 0 || req.Turno > 3 {
		return errors.New("turno must be 1, 2 or 3")
	}
	if req.AreaReal == "" {
		return errors.New("area_real is required")
	}
	if req.MaquinaReal == "" {
		return errors.New("maquina_real is required")
	}
	if len(req.Detalles) == 0 {
		return errors.New("at least one detail line is required")
	}
	for _, d := range req.Detalles {
		if d.Peso <= 0 {
			return errors.New("detail peso must be greater than zero")
		}
		material, err := s.materials.GetMaterial(ctx, d.MaterialID)
		if err != nil {
			return fmt.Errorf("material %d not found", d.MaterialID)
		}
		if !material.Activo {
			return fmt.Errorf("material %s is inactive", material.Nombre)
		}
	}
	return nil
}

// Create registers a production entry for the acting operator. The
// total weight is always recomputed server-side from the detail lines,
// and a missing shift is derived from the plant clock.
func (s *ProductionService) Create(ctx context.Context, req *models.CreateProductionRequest, actor models.Actor, meta models.RequestMeta) (*models.ProductionEntry, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	turno := req.Turno
	if turno == 0 {
		turno = timeutil.ShiftFor(timeutil.Now())
	}

	entry := &models.ProductionEntry{
		OperadorID:      actor.ID,
		Turno:           turno,
		AreaReal:        req.AreaReal,
		MaquinaReal:     req.MaquinaReal,
		ConexionBascula: req.ConexionBascula,
		Observaciones:   req.Observaciones,
	}
	for _, d := range req.Detalles {
		entry.Detalles = append(entry.Detalles, models.ProductionDetail{
			MaterialID: d.MaterialID,
			Peso:       d.Peso,
		})
		entry.PesoTotal += d.Peso
	}

	if err := s.store.Create(ctx, entry); err != nil {
		return nil, err
	}

	metrics.ScrapWeightRegistered.WithLabelValues(models.OrigenProduccion).Add(entry.PesoTotal)
	s.history.RecordCreation(ctx, models.OrigenProduccion, entry.ID, entry.ConexionBascula,
		fmt.Sprintf("Registro de %s en %s / %s", FormatKg(entry.PesoTotal), entry.AreaReal, entry.MaquinaReal),
		actor, meta)

	return entry, nil
}

// BatchCreate registers several entries in one call. Entries are
// validated up front so a bad element rejects the whole batch before
// anything is written.
func (s *ProductionService) BatchCreate(ctx context.Context, req *models.BatchCreateProductionRequest, actor models.Actor, meta models.RequestMeta) ([]*models.ProductionEntry, error) {
	if len(req.Registros) == 0 {
		return nil, errors.New("registros must not be empty")
	}
	for i := range req.Registros {
		if err := s.validate(ctx, &req.Registros[i]); err != nil {
			return nil, fmt.Errorf("registro %d: %w", i, err)
		}
	}

	automated := true
	var entries []*models.ProductionEntry
	var ids []int
	for i := range req.Registros {
		r := &req.Registros[i]
		if !r.ConexionBascula {
			automated = false
		}

		turno := r.Turno
		if turno == 0 {
			turno = timeutil.ShiftFor(timeutil.Now())
		}

		entry := &models.ProductionEntry{
			OperadorID:      actor.ID,
			Turno:           turno,
			AreaReal:        r.AreaReal,
			MaquinaReal:     r.MaquinaReal,
			ConexionBascula: r.ConexionBascula,
			Observaciones:   r.Observaciones,
		}
		for _, d := range r.Detalles {
			entry.Detalles = append(entry.Detalles, models.ProductionDetail{
				MaterialID: d.MaterialID,
				Peso:       d.Peso,
			})
			entry.PesoTotal += d.Peso
		}

		if err := s.store.Create(ctx, entry); err != nil {
			return nil, err
		}
		metrics.ScrapWeightRegistered.WithLabelValues(models.OrigenProduccion).Add(entry.PesoTotal)
		entries = append(entries, entry)
		ids = append(ids, entry.ID)
	}

	s.history.RecordBatchCreation(ctx, models.OrigenProduccion, ids, automated, actor, meta)

	return entries, nil
}

func (s *ProductionService) Get(ctx context.Context, id int) (*models.ProductionEntry, error) {
	return s.store.Get(ctx, id)
}

// List returns entries for an inclusive date range in plant time
func (s *ProductionService) List(ctx context.Context, start, end time.Time, turno int, area string) ([]*models.ProductionEntry, error) {
	from, to := timeutil.DayRange(start, end)
	return s.store.List(ctx, from, to, turno, area)
}

// UpdateDetailPeso replaces the weight on one detail line. Setting the
// same value again is a no-op and leaves no audit trace.
func (s *ProductionService) UpdateDetailPeso(ctx context.Context, detalleID int, req *models.UpdateDetailRequest, actor models.Actor, meta models.RequestMeta) (*models.ProductionDetail, error) {
	if req.Peso <= 0 {
		return nil, errors.New("peso must be greater than zero")
	}

	detail, err := s.store.GetDetail(ctx, detalleID)
	if err != nil {
		return nil, err
	}

	if FormatKg(detail.Peso) == FormatKg(req.Peso) {
		return detail, nil
	}

	if err := s.store.SetDetailPeso(ctx, detalleID, req.Peso); err != nil {
		return nil, err
	}

	if err := s.history.RecordWeightEdit(ctx, models.OrigenProduccion, detail.RegistroID,
		"peso ("+detail.Material+")", detail.Peso, req.Peso, req.Observaciones, actor, meta); err != nil && !errors.Is(err, ErrNotRecorded) {
		return nil, err
	}

	detail.Peso = req.Peso
	return detail, nil
}

// SumDetail adds a positive amount to one detail line
func (s *ProductionService) SumDetail(ctx context.Context, detalleID int, req *models.SumDetailRequest, actor models.Actor, meta models.RequestMeta) (*models.ProductionDetail, error) {
	if req.Cantidad <= 0 {
		return nil, errors.New("cantidad must be greater than zero")
	}

	detail, err := s.store.GetDetail(ctx, detalleID)
	if err != nil {
		return nil, err
	}

	nuevo := detail.Peso + req.Cantidad
	if err := s.store.SetDetailPeso(ctx, detalleID, nuevo); err != nil {
		return nil, err
	}

	s.history.RecordManualSum(ctx, models.OrigenProduccion, detail.RegistroID,
		"peso ("+detail.Material+")", req.Cantidad, detail.Peso, nuevo, actor, meta)

	detail.Peso = nuevo
	return detail, nil
}

// Delete removes an entry with all its detail lines
func (s *ProductionService) Delete(ctx context.Context, id int, actor models.Actor, meta models.RequestMeta) error {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.history.RecordDeletion(ctx, models.OrigenProduccion, id,
		fmt.Sprintf("Registro eliminado: %s en %s / %s turno %d",
			FormatKg(entry.PesoTotal), entry.AreaReal, entry.MaquinaReal, entry.Turno),
		actor, meta)

	return nil
}
