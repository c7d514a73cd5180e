package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scrap-backend/internal/models"
	"scrap-backend/internal/repositories"
	"scrap-backend/internal/services"
	"scrap-backend/internal/timeutil"
)

type captureHistoryStore struct {
	filters []repositories.HistoryFilter
}

func (c *captureHistoryStore) Insert(ctx context.Context, rec *models.ChangeLogRecord) error {
	return nil
}

func (c *captureHistoryStore) Fetch(ctx context.Context, origen string, f repositories.HistoryFilter) ([]models.ChangeLogRecord, error) {
	c.filters = append(c.filters, f)
	return nil, nil
}

func TestHistorialDateRangeStaysWithinFechaFin(t *testing.T) {
	store := &captureHistoryStore{}
	h := NewContraloriaHandler(nil, services.NewHistoryService(store))

	req := httptest.NewRequest("GET", "/api/contraloria/historial?fecha_inicio=2026-04-10&fecha_fin=2026-04-12", nil)
	rr := httptest.NewRecorder()
	h.Historial(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if len(store.filters) == 0 {
		t.Fatal("history store never queried")
	}

	f := store.filters[0]
	wantFrom := time.Date(2026, 4, 10, 0, 0, 0, 0, timeutil.PlantLocation)
	if !f.From.Equal(wantFrom) {
		t.Errorf("From = %v, want start of fecha_inicio", f.From)
	}

	endOfDay := time.Date(2026, 4, 12, 23, 59, 59, 0, timeutil.PlantLocation)
	if f.To.Before(endOfDay) {
		t.Errorf("To = %v, cuts off the end of fecha_fin", f.To)
	}
	nextMidnight := time.Date(2026, 4, 13, 0, 0, 0, 0, timeutil.PlantLocation)
	if !f.To.Before(nextMidnight) {
		t.Errorf("To = %v, reaches into the day after fecha_fin", f.To)
	}
}
