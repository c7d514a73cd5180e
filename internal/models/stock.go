package models

import "time"

// Stock lot states
const (
	EstadoDisponible = "disponible"
	EstadoProcesado  = "procesado"
	EstadoVendido    = "vendido"
)

// Stock movement kinds
const (
	MovimientoIngreso = "ingreso"
	MovimientoSuma    = "suma"
	MovimientoResta   = "resta"
)

// StockLot is a traceable batch of material sitting in the warehouse,
// created automatically when a reception is stored. Its quantity is
// only ever changed through a paired StockMovement row.
type StockLot struct {
	ID               int       `json:"id"`
	TipoMaterial     string    `json:"tipo_material"`
	CantidadKg       float64   `json:"cantidad_kg"`
	Ubicacion        string    `json:"ubicacion"`
	NumeroHU         string    `json:"numero_hu"`
	Estado           string    `json:"estado"`
	OrigenTipo       string    `json:"origen_tipo"`
	OrigenEspecifico string    `json:"origen_especifico"`
	RecepcionID      int       `json:"recepcion_id"`
	FechaIngreso     time.Time `json:"fecha_ingreso"`
	UltimoMovimiento time.Time `json:"ultimo_movimiento"`
}

// StockMovement is one append-only quantity delta on a lot, with
// before/after snapshots for traceability.
type StockMovement struct {
	ID               int       `json:"id"`
	StockID          int       `json:"stock_id"`
	TipoMovimiento   string    `json:"tipo_movimiento"` // ingreso | suma | resta
	Cantidad         float64   `json:"cantidad"`
	CantidadAnterior float64   `json:"cantidad_anterior"`
	CantidadNueva    float64   `json:"cantidad_nueva"`
	Motivo           string    `json:"motivo"`
	UsuarioID        int       `json:"usuario_id"`
	ReferenciaID     *int      `json:"referencia_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// AdjustStockRequest applies a delta to a lot
type AdjustStockRequest struct {
	Cantidad  float64 `json:"cantidad"`
	Operacion string  `json:"operacion"` // suma | resta
	Motivo    string  `json:"motivo"`
}

// StockLocationSummary is the grouped per-location view
type StockLocationSummary struct {
	Ubicacion     string  `json:"ubicacion"`
	TipoMaterial  string  `json:"tipo_material"`
	CantidadTotal float64 `json:"cantidad_total"`
	Lotes         int     `json:"lotes"`
}
