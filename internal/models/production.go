package models

import "time"

// ProductionEntry is one operator-submitted scrap record for a
// machine/shift. Weights are broken into per-material detail lines;
// PesoTotal is always the server-computed sum of the lines.
type ProductionEntry struct {
	ID              int                `json:"id"`
	OperadorID      int                `json:"operador_id"`
	OperadorNombre  string             `json:"operador_nombre,omitempty"` // Denormalized for display
	Turno           int                `json:"turno"`                     // 1, 2 or 3
	AreaReal        string             `json:"area_real"`                 // Ej: TREFILADO
	MaquinaReal     string             `json:"maquina_real"`              // Ej: TREF 1
	PesoTotal       float64            `json:"peso_total"`
	ConexionBascula bool               `json:"conexion_bascula"` // true = weight came from the scale
	Observaciones   string             `json:"observaciones"`
	FechaRegistro   time.Time          `json:"fecha_registro"`
	CreatedAt       time.Time          `json:"created_at"`
	Detalles        []ProductionDetail `json:"detalles,omitempty"`
}

// ProductionDetail is one (material, weight) line of a production entry
type ProductionDetail struct {
	ID         int     `json:"id"`
	RegistroID int     `json:"registro_id"`
	MaterialID int     `json:"material_id"`
	Material   string  `json:"material,omitempty"` // Denormalized material name
	Peso       float64 `json:"peso"`
}

// ProductionDetailInput is a detail line as submitted by the operator
type ProductionDetailInput struct {
	MaterialID int     `json:"material_id"`
	Peso       float64 `json:"peso"`
}

// CreateProductionRequest represents the request body for creating a production entry
type CreateProductionRequest struct {
	Turno           int                     `json:"turno"`
	AreaReal        string                  `json:"area_real"`
	MaquinaReal     string                  `json:"maquina_real"`
	ConexionBascula bool                    `json:"conexion_bascula"`
	Observaciones   string                  `json:"observaciones"`
	Detalles        []ProductionDetailInput `json:"detalles"`
}

// UpdateDetailRequest sets a new weight for one detail line
type UpdateDetailRequest struct {
	Peso          float64 `json:"peso"`
	Observaciones string  `json:"observaciones"`
}

// SumDetailRequest adds an amount to an existing detail line
type SumDetailRequest struct {
	Cantidad float64 `json:"cantidad"`
}

// BatchCreateProductionRequest creates several entries in one call
// (used by the scale bridge and by the bulk capture form)
type BatchCreateProductionRequest struct {
	Registros []CreateProductionRequest `json:"registros"`
}
