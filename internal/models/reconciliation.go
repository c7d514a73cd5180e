package models

import "time"

// Movement origins as surfaced to contraloría
const (
	MovOrigenPlanta  = "PLANTA"
	MovOrigenInterna = "INTERNA"
	MovOrigenExterna = "EXTERNA"
)

// Movement is one normalized row of the contraloría view: a production
// detail line or a reception, projected into a common shape.
type Movement struct {
	ID               string    `json:"id"`
	Fecha            time.Time `json:"fecha"`
	Turno            int       `json:"turno"`
	Material         string    `json:"material"`
	Peso             float64   `json:"peso"`
	Origen           string    `json:"origen"`      // PLANTA | INTERNA | EXTERNA
	OrigenTipo       string    `json:"origen_tipo"` // produccion | recepcion
	OrigenEspecifico string    `json:"origen_especifico"`
	Responsable      string    `json:"responsable"`
	Rol              string    `json:"rol"`
	DestinoDisplay   string    `json:"destino_display"`
	HU               string    `json:"hu_id,omitempty"`
	ConexionBascula  bool      `json:"conexion_bascula"`
	Observaciones    string    `json:"observaciones"`
}

// ReconciliationTotals compares what production reported against what
// the warehouse received. A non-zero Diferencia is the core finding.
type ReconciliationTotals struct {
	Produccion float64 `json:"produccion"`
	Recepcion  float64 `json:"recepcion"`
	Diferencia float64 `json:"diferencia"`
}

// MaterialDiscrepancy is the per-material production vs reception delta
type MaterialDiscrepancy struct {
	Material   string  `json:"material"`
	Produccion float64 `json:"produccion"`
	Recepcion  float64 `json:"recepcion"`
	Diferencia float64 `json:"diferencia"`
}

// CaptureBreakdown classifies movements by capture method
type CaptureBreakdown struct {
	Bascula           int     `json:"bascula"`
	Manual            int     `json:"manual"`
	PorcentajeBascula float64 `json:"porcentaje_bascula"`
}

// ReconciliationSnapshot is the full computed view for a date range.
// It is recomputed on every query and never persisted.
type ReconciliationSnapshot struct {
	Movimientos []Movement           `json:"movimientos"`
	Totales     ReconciliationTotals `json:"totales"`
}
