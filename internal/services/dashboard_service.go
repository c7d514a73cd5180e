package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"scrap-backend/internal/cache"
	"scrap-backend/internal/models"
	"scrap-backend/internal/timeutil"
)

// DashboardProductionStore supplies production aggregates
type DashboardProductionStore interface {
	Count(ctx context.Context) (int, error)
	SumPesoTotal(ctx context.Context) (float64, error)
	SumPesoInRange(ctx context.Context, from, to time.Time) (float64, error)
	MaterialDistribution(ctx context.Context) (map[string]float64, error)
	MonthlySums(ctx context.Context, since time.Time) (map[string]float64, error)
}

// DashboardReceptionStore supplies reception aggregates
type DashboardReceptionStore interface {
	Count(ctx context.Context) (int, error)
	SumPesoInRange(ctx context.Context, from, to time.Time) (float64, error)
	MonthlySums(ctx context.Context, since time.Time) (map[string]float64, error)
}

// DashboardStockStore supplies warehouse aggregates
type DashboardStockStore interface {
	TotalAvailable(ctx context.Context) (float64, error)
}

// UserCounter supplies the registered-user count
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

// DashboardService aggregates counters across all stores. Results are
// cached in Redis for a short window; the reconciliation view never
// goes through this cache.
type DashboardService struct {
	production DashboardProductionStore
	receptions DashboardReceptionStore
	stock      DashboardStockStore
	users      UserCounter
}

func NewDashboardService(production DashboardProductionStore, receptions DashboardReceptionStore, stock DashboardStockStore, users UserCounter) *DashboardService {
	return &DashboardService{production: production, receptions: receptions, stock: stock, users: users}
}

// Stats computes the dashboard aggregates, serving from cache when a
// fresh copy exists.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	if data, ok := cache.GetDashboardStats(ctx); ok {
		stats := &models.DashboardStats{}
		if err := json.Unmarshal(data, stats); err == nil {
			return stats, nil
		}
		log.Printf("[Dashboard] WARN: cached stats unreadable, recomputing")
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		cache.SetDashboardStats(ctx, data)
	}

	return stats, nil
}

func (s *DashboardService) compute(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	var err error

	if stats.TotalRegistros, err = s.production.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRecepciones, err = s.receptions.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PesoProducidoTotal, err = s.production.SumPesoTotal(ctx); err != nil {
		return nil, err
	}

	today := timeutil.Now()
	from, to := timeutil.DayRange(today, today)
	if stats.PesoProducidoHoy, err = s.production.SumPesoInRange(ctx, from, to); err != nil {
		return nil, err
	}
	if stats.PesoRecibidoHoy, err = s.receptions.SumPesoInRange(ctx, from, to); err != nil {
		return nil, err
	}

	if stats.StockDisponibleKg, err = s.stock.TotalAvailable(ctx); err != nil {
		return nil, err
	}
	if stats.UsuariosRegistrados, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.DistribucionKg, err = s.production.MaterialDistribution(ctx); err != nil {
		return nil, err
	}

	if stats.SerieMensual, err = s.monthlySeries(ctx, today); err != nil {
		return nil, err
	}

	return stats, nil
}

// monthlySeries builds the trailing 6-month production vs reception
// comparison, including empty months.
func (s *DashboardService) monthlySeries(ctx context.Context, now time.Time) ([]models.MonthlyWeight, error) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, timeutil.PlantLocation)
	since := first.AddDate(0, -5, 0)

	produced, err := s.production.MonthlySums(ctx, since)
	if err != nil {
		return nil, err
	}
	received, err := s.receptions.MonthlySums(ctx, since)
	if err != nil {
		return nil, err
	}

	series := make([]models.MonthlyWeight, 0, 6)
	for i := 0; i < 6; i++ {
		month := since.AddDate(0, i, 0).Format("2006-01")
		series = append(series, models.MonthlyWeight{
			Mes:        month,
			Produccion: produced[month],
			Recepcion:  received[month],
		})
	}

	return series, nil
}
