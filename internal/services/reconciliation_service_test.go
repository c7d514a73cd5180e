package services

import (
	"context"
	"math"
	"testing"
	"time"

	"scrap-backend/internal/models"
	"scrap-backend/internal/obsparse"
	"scrap-backend/internal/timeutil"
)

type fakeLineStore struct {
	lines []models.ProductionLine
}

func (f *fakeLineStore) ListLines(ctx context.Context, from, to time.Time) ([]models.ProductionLine, error) {
	return f.lines, nil
}

type fakeReceptionRange struct {
	entries []*models.ReceptionEntry
}

func (f *fakeReceptionRange) ListInRange(ctx context.Context, from, to time.Time) ([]*models.ReceptionEntry, error) {
	return f.entries, nil
}

func testDay() time.Time {
	return time.Date(2026, 4, 15, 10, 0, 0, 0, timeutil.PlantLocation)
}

func newTestReconciliation(lines []models.ProductionLine, entries []*models.ReceptionEntry) *ReconciliationService {
	return NewReconciliationService(
		&fakeLineStore{lines: lines},
		&fakeReceptionRange{entries: entries},
		0.5, 5,
	)
}

func TestSnapshotTotalsIdentity(t *testing.T) {
	day := testDay()
	lines := []models.ProductionLine{
		{DetalleID: 1, Fecha: day, Turno: 1, Material: "COBRE", Peso: 60, Operador: "Ana"},
		{DetalleID: 2, Fecha: day, Turno: 1, Material: "PURGA PVC", Peso: 40, Operador: "Ana"},
	}
	entries := []*models.ReceptionEntry{
		{ID: 1, FechaEntrada: day, TipoMaterial: "COBRE", PesoKg: 58.5, OrigenTipo: models.OrigenInterna, ReceptorNombre: "Luis", Destino: models.DestinoAlmacenamiento},
		{ID: 2, FechaEntrada: day, TipoMaterial: "PURGA PVC", PesoKg: 37, OrigenTipo: models.OrigenInterna, ReceptorNombre: "Luis", Destino: models.DestinoReciclaje},
	}

	svc := newTestReconciliation(lines, entries)
	snapshot, err := svc.Snapshot(context.Background(), day, day)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	tot := snapshot.Totales
	if tot.Produccion != 100 {
		t.Errorf("Produccion = %v, want 100", tot.Produccion)
	}
	if tot.Recepcion != 95.5 {
		t.Errorf("Recepcion = %v, want 95.5", tot.Recepcion)
	}
	if got := tot.Produccion - tot.Recepcion; math.Abs(tot.Diferencia-got) > 1e-9 {
		t.Errorf("Diferencia = %v, want %v", tot.Diferencia, got)
	}
	if math.Abs(tot.Diferencia-4.5) > 1e-9 {
		t.Errorf("Diferencia = %v, want 4.5", tot.Diferencia)
	}
	if len(snapshot.Movimientos) != 4 {
		t.Errorf("movimientos = %d, want 4", len(snapshot.Movimientos))
	}
}

func TestSnapshotMovementProjection(t *testing.T) {
	day := testDay()
	lines := []models.ProductionLine{
		{DetalleID: 7, RegistroID: 3, Fecha: day, Turno: 2, Material: "COBRE", Peso: 12.5,
			Operador: "Ana", ConexionBascula: true, Area: "ROD", Maquina: "TREF 2"},
	}
	entries := []*models.ReceptionEntry{
		{ID: 9, NumeroHU: "HU2604151012000001", FechaEntrada: day.Add(8 * time.Hour),
			TipoMaterial: "COBRE", PesoKg: 12, OrigenTipo: models.OrigenExterna,
			OrigenEspecifico: "Proveedor X", ReceptorNombre: "Luis", Destino: models.DestinoVenta},
	}

	svc := newTestReconciliation(lines, entries)
	snapshot, err := svc.Snapshot(context.Background(), day, day)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	var planta, externa *models.Movement
	for i := range snapshot.Movimientos {
		m := &snapshot.Movimientos[i]
		switch m.Origen {
		case models.MovOrigenPlanta:
			planta = m
		case models.MovOrigenExterna:
			externa = m
		}
	}
	if planta == nil || externa == nil {
		t.Fatalf("missing movement sides: %+v", snapshot.Movimientos)
	}

	if planta.ID != "prod-7" {
		t.Errorf("production movement ID = %q", planta.ID)
	}
	if planta.OrigenEspecifico != "ROD / TREF 2" {
		t.Errorf("OrigenEspecifico = %q", planta.OrigenEspecifico)
	}
	if !planta.ConexionBascula {
		t.Error("production movement lost scale flag")
	}

	if externa.ID != "rec-9" {
		t.Errorf("reception movement ID = %q", externa.ID)
	}
	// 18:00 plant time falls in shift 2
	if externa.Turno != 2 {
		t.Errorf("reception Turno = %d, want 2", externa.Turno)
	}
	if externa.DestinoDisplay != "VENDIDO" {
		t.Errorf("DestinoDisplay = %q, want VENDIDO", externa.DestinoDisplay)
	}
	if externa.HU != "HU2604151012000001" {
		t.Errorf("HU = %q", externa.HU)
	}
}

func TestReceptionMovementParsesLegacyObservations(t *testing.T) {
	day := testDay()
	entries := []*models.ReceptionEntry{
		{ID: 1, FechaEntrada: day, TipoMaterial: "MIXTO", PesoKg: 5,
			OrigenTipo: models.OrigenInterna, Destino: models.DestinoReciclaje,
			Observaciones: "Área: ROD | Máquina: TREF 2 | Material: COBRE"},
	}

	svc := newTestReconciliation(nil, entries)
	snapshot, err := svc.Snapshot(context.Background(), day, day)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	m := snapshot.Movimientos[0]
	if m.Material != "COBRE" {
		t.Errorf("Material = %q, want COBRE from observations", m.Material)
	}
	if m.OrigenEspecifico != "ROD / TREF 2" {
		t.Errorf("OrigenEspecifico = %q", m.OrigenEspecifico)
	}
}

func TestDiscrepanciesThresholdAndRanking(t *testing.T) {
	day := testDay()
	lines := []models.ProductionLine{
		{DetalleID: 1, Fecha: day, Material: "COBRE", Peso: 100},
		{DetalleID: 2, Fecha: day, Material: "PURGA PVC", Peso: 50},
		{DetalleID: 3, Fecha: day, Material: "ALUMINIO", Peso: 20},
	}
	entries := []*models.ReceptionEntry{
		{ID: 1, FechaEntrada: day, TipoMaterial: "COBRE", PesoKg: 90, OrigenTipo: models.OrigenInterna, Destino: models.DestinoVenta},
		{ID: 2, FechaEntrada: day, TipoMaterial: "PURGA PVC", PesoKg: 49.6, OrigenTipo: models.OrigenInterna, Destino: models.DestinoVenta},
		{ID: 3, FechaEntrada: day, TipoMaterial: "ALUMINIO", PesoKg: 22, OrigenTipo: models.OrigenInterna, Destino: models.DestinoVenta},
	}

	svc := newTestReconciliation(lines, entries)
	got, err := svc.DiscrepanciesByMaterial(context.Background(), day, day)
	if err != nil {
		t.Fatalf("DiscrepanciesByMaterial: %v", err)
	}

	// PURGA PVC differs by 0.4 kg, under the 0.5 kg threshold
	if len(got) != 2 {
		t.Fatalf("discrepancies = %d, want 2 (noise filtered): %+v", len(got), got)
	}
	if got[0].Material != "COBRE" {
		t.Errorf("top discrepancy = %q, want COBRE", got[0].Material)
	}
	if math.Abs(got[0].Diferencia-10) > 1e-9 {
		t.Errorf("COBRE Diferencia = %v, want 10", got[0].Diferencia)
	}
	if got[1].Material != "ALUMINIO" {
		t.Errorf("second discrepancy = %q, want ALUMINIO", got[1].Material)
	}
	if math.Abs(got[1].Diferencia-(-2)) > 1e-9 {
		t.Errorf("ALUMINIO Diferencia = %v, want -2", got[1].Diferencia)
	}

	// The full table keeps sub-threshold materials
	table, err := svc.MaterialTable(context.Background(), day, day)
	if err != nil {
		t.Fatalf("MaterialTable: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("table = %d materials, want all 3", len(table))
	}
	found := false
	for _, d := range table {
		if d.Material == "PURGA PVC" {
			found = true
			if math.Abs(d.Diferencia-0.4) > 1e-9 {
				t.Errorf("PURGA PVC Diferencia = %v, want 0.4", d.Diferencia)
			}
		}
	}
	if !found {
		t.Error("PURGA PVC missing from the full table")
	}
}

func TestDiscrepanciesTopNLimit(t *testing.T) {
	day := testDay()
	var lines []models.ProductionLine
	materials := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, m := range materials {
		lines = append(lines, models.ProductionLine{
			DetalleID: i + 1, Fecha: day, Material: m, Peso: float64(10 * (i + 1)),
		})
	}

	svc := newTestReconciliation(lines, nil)
	got, err := svc.DiscrepanciesByMaterial(context.Background(), day, day)
	if err != nil {
		t.Fatalf("DiscrepanciesByMaterial: %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("discrepancies = %d, want top 5", len(got))
	}
	// Largest absolute difference first
	if got[0].Material != "G" || got[4].Material != "C" {
		t.Errorf("ranking = %v", got)
	}
}

func TestCaptureBreakdownEmptyRangeIsZero(t *testing.T) {
	day := testDay()
	svc := newTestReconciliation(nil, nil)

	got, err := svc.CaptureBreakdown(context.Background(), day, day)
	if err != nil {
		t.Fatalf("CaptureBreakdown: %v", err)
	}

	if got.Bascula != 0 || got.Manual != 0 {
		t.Errorf("counts = %+v, want zeros", got)
	}
	if got.PorcentajeBascula != 0 {
		t.Errorf("PorcentajeBascula = %v, want 0", got.PorcentajeBascula)
	}
	if math.IsNaN(got.PorcentajeBascula) {
		t.Error("PorcentajeBascula is NaN")
	}
}

func TestCaptureBreakdownCounts(t *testing.T) {
	day := testDay()
	lines := []models.ProductionLine{
		{DetalleID: 1, Fecha: day, Material: "COBRE", Peso: 10, ConexionBascula: true},
		{DetalleID: 2, Fecha: day, Material: "COBRE", Peso: 10, ConexionBascula: true},
		{DetalleID: 3, Fecha: day, Material: "COBRE", Peso: 10},
	}
	entries := []*models.ReceptionEntry{
		{ID: 1, FechaEntrada: day, TipoMaterial: "COBRE", PesoKg: 10,
			OrigenTipo: models.OrigenInterna, Destino: models.DestinoVenta,
			Observaciones: obsparse.SentinelAutomatic},
	}

	svc := newTestReconciliation(lines, entries)
	got, err := svc.CaptureBreakdown(context.Background(), day, day)
	if err != nil {
		t.Fatalf("CaptureBreakdown: %v", err)
	}

	if got.Bascula != 3 || got.Manual != 1 {
		t.Errorf("breakdown = %+v, want 3 bascula / 1 manual", got)
	}
	if got.PorcentajeBascula != 75 {
		t.Errorf("PorcentajeBascula = %v, want 75", got.PorcentajeBascula)
	}
}
