package services

import (
	"context"
	"errors"

	"scrap-backend/internal/models"
)

// StockStore is the persistence surface the stock service needs
type StockStore interface {
	Get(ctx context.Context, id int) (*models.StockLot, error)
	ListLots(ctx context.Context, material, ubicacion, estado string) ([]*models.StockLot, error)
	AdjustWithMovement(ctx context.Context, lotID int, delta float64, tipoMovimiento, motivo string, usuarioID int) (*models.StockLot, error)
	ListMovements(ctx context.Context, lotID int) ([]models.StockMovement, error)
	LocationSummary(ctx context.Context) ([]models.StockLocationSummary, error)
}

type StockService struct {
	store StockStore
}

func NewStockService(store StockStore) *StockService {
	return &StockService{store: store}
}

func (s *StockService) Get(ctx context.Context, id int) (*models.StockLot, error) {
	return s.store.Get(ctx, id)
}

func (s *StockService) List(ctx context.Context, material, ubicacion, estado string) ([]*models.StockLot, error) {
	return s.store.ListLots(ctx, material, ubicacion, estado)
}

// Adjust applies a manual correction to a lot. Every adjustment leaves
// a movement row with before/after quantities; a lot drained to zero
// is marked procesado by the store.
func (s *StockService) Adjust(ctx context.Context, lotID int, req *models.AdjustStockRequest, actor models.Actor) (*models.StockLot, error) {
	if req.Cantidad <= 0 {
		return nil, errors.New("cantidad must be greater than zero")
	}
	if req.Motivo == "" {
		return nil, errors.New("motivo is required")
	}

	var delta float64
	var tipo string
	switch req.Operacion {
	case "suma":
		delta = req.Cantidad
		tipo = models.MovimientoSuma
	case "resta":
		delta = -req.Cantidad
		tipo = models.MovimientoResta
	default:
		return nil, errors.New("operacion must be suma or resta")
	}

	return s.store.AdjustWithMovement(ctx, lotID, delta, tipo, req.Motivo, actor.ID)
}

func (s *StockService) Movements(ctx context.Context, lotID int) ([]models.StockMovement, error) {
	if _, err := s.store.Get(ctx, lotID); err != nil {
		return nil, err
	}
	return s.store.ListMovements(ctx, lotID)
}

func (s *StockService) LocationSummary(ctx context.Context) ([]models.StockLocationSummary, error) {
	return s.store.LocationSummary(ctx)
}
