package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"scrap-backend/internal/models"
	"scrap-backend/internal/obsparse"
	"scrap-backend/internal/timeutil"
)

// ProductionLineStore supplies the production side of the ledger
type ProductionLineStore interface {
	ListLines(ctx context.Context, from, to time.Time) ([]models.ProductionLine, error)
}

// ReceptionRangeStore supplies the reception side of the ledger
type ReceptionRangeStore interface {
	ListInRange(ctx context.Context, from, to time.Time) ([]*models.ReceptionEntry, error)
}

// ReconciliationService computes the contraloría cross-check between
// what production reported and what the warehouse received. Every
// query recomputes from the ledgers; nothing is cached or persisted,
// so the numbers always reflect the current state of both sides.
type ReconciliationService struct {
	production ProductionLineStore
	receptions ReceptionRangeStore

	// Materials whose absolute difference stays under the threshold
	// are treated as measurement noise.
	thresholdKg float64
	topN        int
}

func NewReconciliationService(production ProductionLineStore, receptions ReceptionRangeStore, thresholdKg float64, topN int) *ReconciliationService {
	return &ReconciliationService{
		production:  production,
		receptions:  receptions,
		thresholdKg: thresholdKg,
		topN:        topN,
	}
}

func productionMovement(l models.ProductionLine) models.Movement {
	return models.Movement{
		ID:               fmt.Sprintf("prod-%d", l.DetalleID),
		Fecha:            l.Fecha,
		Turno:            l.Turno,
		Material:         l.Material,
		Peso:             l.Peso,
		Origen:           models.MovOrigenPlanta,
		OrigenTipo:       models.OrigenProduccion,
		OrigenEspecifico: l.Area + " / " + l.Maquina,
		Responsable:      l.Operador,
		Rol:              models.RoleOperador,
		ConexionBascula:  l.ConexionBascula,
		Observaciones:    l.Observaciones,
	}
}

func receptionMovement(r *models.ReceptionEntry) models.Movement {
	origen := models.MovOrigenInterna
	if r.OrigenTipo == models.OrigenExterna {
		origen = models.MovOrigenExterna
	}

	// Older rows carry area/machine/material hints in the free-text
	// observation field instead of structured columns.
	parsed := obsparse.Parse(r.Observaciones)
	material := r.TipoMaterial
	if parsed.Material != nil {
		material = *parsed.Material
	}

	origenEspecifico := r.OrigenEspecifico
	if origenEspecifico == "" && parsed.Area != nil {
		origenEspecifico = *parsed.Area
		if parsed.Maquina != nil {
			origenEspecifico += " / " + *parsed.Maquina
		}
	}

	return models.Movement{
		ID:               fmt.Sprintf("rec-%d", r.ID),
		Fecha:            r.FechaEntrada,
		Turno:            timeutil.ShiftFor(r.FechaEntrada),
		Material:         material,
		Peso:             r.PesoKg,
		Origen:           origen,
		OrigenTipo:       models.OrigenRecepcion,
		OrigenEspecifico: origenEspecifico,
		Responsable:      r.ReceptorNombre,
		Rol:              models.RoleReceptor,
		DestinoDisplay:   DestinoDisplay(r.Destino),
		HU:               r.NumeroHU,
		ConexionBascula:  r.Observaciones == obsparse.SentinelAutomatic,
		Observaciones:    r.Observaciones,
	}
}

func (s *ReconciliationService) movements(ctx context.Context, start, end time.Time) ([]models.Movement, error) {
	from, to := timeutil.DayRange(start, end)

	lines, err := s.production.ListLines(ctx, from, to)
	if err != nil {
		return nil, err
	}
	receptions, err := s.receptions.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	movements := make([]models.Movement, 0, len(lines)+len(receptions))
	for _, l := range lines {
		movements = append(movements, productionMovement(l))
	}
	for _, r := range receptions {
		movements = append(movements, receptionMovement(r))
	}

	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Fecha.After(movements[j].Fecha)
	})

	return movements, nil
}

// Snapshot builds the full reconciliation view for an inclusive date
// range: the merged movement list newest first, plus the side totals.
// The identity Diferencia = Produccion - Recepcion always holds.
func (s *ReconciliationService) Snapshot(ctx context.Context, start, end time.Time) (*models.ReconciliationSnapshot, error) {
	movements, err := s.movements(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var totales models.ReconciliationTotals
	for _, m := range movements {
		if m.Origen == models.MovOrigenPlanta {
			totales.Produccion += m.Peso
		} else {
			totales.Recepcion += m.Peso
		}
	}
	totales.Diferencia = totales.Produccion - totales.Recepcion

	return &models.ReconciliationSnapshot{Movimientos: movements, Totales: totales}, nil
}

// MaterialTable compares the two sides per material over the full
// range, largest absolute difference first. Nothing is filtered: this
// is the complete per-material view.
func (s *ReconciliationService) MaterialTable(ctx context.Context, start, end time.Time) ([]models.MaterialDiscrepancy, error) {
	movements, err := s.movements(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byMaterial := make(map[string]*models.MaterialDiscrepancy)
	for _, m := range movements {
		d, ok := byMaterial[m.Material]
		if !ok {
			d = &models.MaterialDiscrepancy{Material: m.Material}
			byMaterial[m.Material] = d
		}
		if m.Origen == models.MovOrigenPlanta {
			d.Produccion += m.Peso
		} else {
			d.Recepcion += m.Peso
		}
	}

	table := make([]models.MaterialDiscrepancy, 0, len(byMaterial))
	for _, d := range byMaterial {
		d.Diferencia = d.Produccion - d.Recepcion
		table = append(table, *d)
	}

	sort.Slice(table, func(i, j int) bool {
		return math.Abs(table[i].Diferencia) > math.Abs(table[j].Diferencia)
	})

	return table, nil
}

// DiscrepanciesByMaterial returns the worst offenders from the
// material table. Materials under the noise threshold are dropped and
// the result is capped at the configured count.
func (s *ReconciliationService) DiscrepanciesByMaterial(ctx context.Context, start, end time.Time) ([]models.MaterialDiscrepancy, error) {
	table, err := s.MaterialTable(ctx, start, end)
	if err != nil {
		return nil, err
	}

	// At or below the threshold it is measurement noise, not a finding
	var discrepancies []models.MaterialDiscrepancy
	for _, d := range table {
		if math.Abs(d.Diferencia) <= s.thresholdKg {
			continue
		}
		discrepancies = append(discrepancies, d)
	}

	if len(discrepancies) > s.topN {
		discrepancies = discrepancies[:s.topN]
	}

	return discrepancies, nil
}

// CaptureBreakdown classifies movements by how the weight was
// captured. An empty range yields zero percent, never NaN.
func (s *ReconciliationService) CaptureBreakdown(ctx context.Context, start, end time.Time) (*models.CaptureBreakdown, error) {
	movements, err := s.movements(ctx, start, end)
	if err != nil {
		return nil, err
	}

	breakdown := &models.CaptureBreakdown{}
	for _, m := range movements {
		if m.ConexionBascula {
			breakdown.Bascula++
		} else {
			breakdown.Manual++
		}
	}
	if total := breakdown.Bascula + breakdown.Manual; total > 0 {
		breakdown.PorcentajeBascula = float64(breakdown.Bascula) / float64(total) * 100
	}

	return breakdown, nil
}
