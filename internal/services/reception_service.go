package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"scrap-backend/internal/metrics"
	"scrap-backend/internal/models"
	"scrap-backend/internal/timeutil"
)

// ReceptionStore is the persistence surface the reception service needs
type ReceptionStore interface {
	CreateWithStock(ctx context.Context, entry *models.ReceptionEntry) (*models.StockLot, error)
	Get(ctx context.Context, id int) (*models.ReceptionEntry, error)
	List(ctx context.Context, from, to time.Time, receptorID int, material, destino string) ([]*models.ReceptionEntry, error)
	UpdateDestino(ctx context.Context, id int, destino, lugarAlmacenamiento string) error
	MarkPrinted(ctx context.Context, id int) error
}

type ReceptionService struct {
	store   ReceptionStore
	history *HistoryService
}

func NewReceptionService(store ReceptionStore, history *HistoryService) *ReceptionService {
	return &ReceptionService{store: store, history: history}
}

// GenerateHU builds a handling-unit number from the plant clock plus a
// random suffix: HU + yymmddhhmmss + 4 digits.
func GenerateHU() string {
	now := timeutil.Now()
	return fmt.Sprintf("HU%s%04d", now.Format("060102150405"), rand.Intn(10000))
}

func validDestino(destino string) bool {
	switch destino {
	case models.DestinoReciclaje, models.DestinoVenta, models.DestinoAlmacenamiento:
		return true
	}
	return false
}

func (s *ReceptionService) validate(req *models.CreateReceptionRequest) error {
	if req.PesoKg <= 0 {
		return errors.New("peso_kg must be greater than zero")
	}
	if req.TipoMaterial == "" {
		return errors.New("tipo_material is required")
	}
	switch req.OrigenTipo {
	case models.OrigenInterna:
	case models.OrigenExterna:
		if req.OrigenEspecifico == "" {
			return errors.New("origen_especifico is required for external origin")
		}
	default:
		return errors.New("origen_tipo must be interna or externa")
	}
	if !validDestino(req.Destino) {
		return errors.New("destino must be reciclaje, venta or almacenamiento")
	}
	if req.Destino == models.DestinoAlmacenamiento && req.LugarAlmacenamiento == "" {
		return errors.New("lugar_almacenamiento is required when destino is almacenamiento")
	}
	if req.Destino != models.DestinoAlmacenamiento && req.LugarAlmacenamiento != "" {
		return errors.New("lugar_almacenamiento only applies when destino is almacenamiento")
	}
	return nil
}

// Create registers a warehouse intake under a freshly generated HU.
// When the material is stored, the stock lot and its opening movement
// are created in the same transaction as the reception, so the three
// rows either all exist or none do.
func (s *ReceptionService) Create(ctx context.Context, req *models.CreateReceptionRequest, actor models.Actor, meta models.RequestMeta) (*models.ReceptionEntry, *models.StockLot, error) {
	if err := s.validate(req); err != nil {
		return nil, nil, err
	}

	entry := &models.ReceptionEntry{
		NumeroHU:            GenerateHU(),
		PesoKg:              req.PesoKg,
		TipoMaterial:        req.TipoMaterial,
		OrigenTipo:          req.OrigenTipo,
		OrigenEspecifico:    req.OrigenEspecifico,
		ReceptorID:          actor.ID,
		Destino:             req.Destino,
		LugarAlmacenamiento: req.LugarAlmacenamiento,
		Observaciones:       req.Observaciones,
	}

	lot, err := s.store.CreateWithStock(ctx, entry)
	if err != nil {
		return nil, nil, err
	}

	metrics.ScrapWeightRegistered.WithLabelValues(models.OrigenRecepcion).Add(entry.PesoKg)
	s.history.RecordCreation(ctx, models.OrigenRecepcion, entry.ID, false,
		fmt.Sprintf("Recepción %s: %s de %s", entry.NumeroHU, FormatKg(entry.PesoKg), entry.TipoMaterial),
		actor, meta)

	return entry, lot, nil
}

func (s *ReceptionService) Get(ctx context.Context, id int) (*models.ReceptionEntry, error) {
	return s.store.Get(ctx, id)
}

// List returns receptions for an inclusive date range. Receptors only
// see their own intakes; other roles see everything.
func (s *ReceptionService) List(ctx context.Context, start, end time.Time, actor models.Actor, material, destino string) ([]*models.ReceptionEntry, error) {
	receptorID := 0
	if actor.Role == models.RoleReceptor {
		receptorID = actor.ID
	}
	from, to := timeutil.DayRange(start, end)
	return s.store.List(ctx, from, to, receptorID, material, destino)
}

// UpdateDestino changes the disposition of a reception. Moving into
// almacenamiento requires a location; moving out clears it. A same
// value update is a no-op.
func (s *ReceptionService) UpdateDestino(ctx context.Context, id int, destino, lugarAlmacenamiento string, actor models.Actor, meta models.RequestMeta) (*models.ReceptionEntry, error) {
	if !validDestino(destino) {
		return nil, errors.New("destino must be reciclaje, venta or almacenamiento")
	}
	if destino == models.DestinoAlmacenamiento && lugarAlmacenamiento == "" {
		return nil, errors.New("lugar_almacenamiento is required when destino is almacenamiento")
	}
	if destino != models.DestinoAlmacenamiento {
		lugarAlmacenamiento = ""
	}

	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if entry.Destino == destino && entry.LugarAlmacenamiento == lugarAlmacenamiento {
		return entry, nil
	}

	if err := s.store.UpdateDestino(ctx, id, destino, lugarAlmacenamiento); err != nil {
		return nil, err
	}

	if err := s.history.RecordFieldEdit(ctx, models.OrigenRecepcion, id, "destino",
		DestinoDisplay(entry.Destino), DestinoDisplay(destino), actor, meta); err != nil && !errors.Is(err, ErrNotRecorded) {
		return nil, err
	}

	entry.Destino = destino
	entry.LugarAlmacenamiento = lugarAlmacenamiento
	return entry, nil
}

// MarkPrinted flags the HU label as printed. Printing again is allowed
// and idempotent.
func (s *ReceptionService) MarkPrinted(ctx context.Context, id int) (*models.ReceptionEntry, error) {
	if err := s.store.MarkPrinted(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// DestinoDisplay maps a stored disposition to the uppercase label the
// contraloría reports historically use.
func DestinoDisplay(destino string) string {
	switch strings.ToLower(destino) {
	case models.DestinoAlmacenamiento:
		return "ALMACENAMIENTO"
	case models.DestinoReciclaje:
		return "RECICLAJE"
	case models.DestinoVenta:
		return "VENDIDO"
	case "disposicion":
		return "DISPOSICIÓN"
	case "proceso":
		return "EN PROCESO"
	default:
		return strings.ToUpper(destino)
	}
}
