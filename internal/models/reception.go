package models

import "time"

// Origin classes and dispositions for reception entries
const (
	OrigenInterna = "interna"
	OrigenExterna = "externa"

	DestinoReciclaje      = "reciclaje"
	DestinoVenta          = "venta"
	DestinoAlmacenamiento = "almacenamiento"
)

// ReceptionEntry is one warehouse intake event, identified by its
// printed HU label number.
type ReceptionEntry struct {
	ID                  int       `json:"id"`
	NumeroHU            string    `json:"numero_hu"`
	PesoKg              float64   `json:"peso_kg"`
	TipoMaterial        string    `json:"tipo_material"`
	OrigenTipo          string    `json:"origen_tipo"`                // interna | externa
	OrigenEspecifico    string    `json:"origen_especifico"`          // Ej: Planta 2, Proveedor X
	ReceptorID          int       `json:"receptor_id"`
	ReceptorNombre      string    `json:"receptor_nombre,omitempty"`  // Denormalized for display
	Destino             string    `json:"destino"`                    // reciclaje | venta | almacenamiento
	LugarAlmacenamiento string    `json:"lugar_almacenamiento"`       // Required iff destino = almacenamiento
	Observaciones       string    `json:"observaciones"`
	Impreso             bool      `json:"impreso"`
	FechaEntrada        time.Time `json:"fecha_entrada"`
	CreatedAt           time.Time `json:"created_at"`
}

// CreateReceptionRequest represents the request body for creating a reception
type CreateReceptionRequest struct {
	PesoKg              float64 `json:"peso_kg"`
	TipoMaterial        string  `json:"tipo_material"`
	OrigenTipo          string  `json:"origen_tipo"`
	OrigenEspecifico    string  `json:"origen_especifico"`
	Destino             string  `json:"destino"`
	LugarAlmacenamiento string  `json:"lugar_almacenamiento"`
	Observaciones       string  `json:"observaciones"`
}

// UpdateDestinoRequest changes the disposition of a reception
type UpdateDestinoRequest struct {
	Destino string `json:"destino"`
}
