package models

import "time"

// Ledger sides a history record can belong to
const (
	OrigenProduccion = "produccion"
	OrigenRecepcion  = "recepcion"
	OrigenTodos      = "todos"
)

// Movement kinds in the change-history log
const (
	HistCreate       = "create"
	HistCreateManual = "create_manual"
	HistUpdate       = "update"
	HistDelete       = "delete"
	HistSuma         = "suma"
	HistBatchCreate  = "batch_create"
)

// ChangeLogRecord is one append-only audit row. Rows are never updated
// or deleted after insertion.
type ChangeLogRecord struct {
	ID              int       `json:"id"`
	RegistroID      int       `json:"registro_id"`
	Origen          string    `json:"origen"` // produccion | recepcion
	TipoMovimiento  string    `json:"tipo_movimiento"`
	CampoModificado string    `json:"campo_modificado"`
	ValorAnterior   *string   `json:"valor_anterior"`
	ValorNuevo      *string   `json:"valor_nuevo"`
	Observaciones   string    `json:"observaciones"`
	Responsable     string    `json:"responsable"`
	Rol             string    `json:"rol"`
	IPAddress       string    `json:"ip_address,omitempty"`
	UserAgent       string    `json:"user_agent,omitempty"`
	CreatedAt       time.Time `json:"fecha_modificacion"`

	// Owning-entry context joined in on read, for display only
	AreaReal         string `json:"area_real,omitempty"`
	MaquinaReal      string `json:"maquina_real,omitempty"`
	TipoMaterial     string `json:"tipo_material,omitempty"`
	OrigenEspecifico string `json:"origen_especifico,omitempty"`
}

// Actor identifies who performed a manual action. Passed explicitly
// into every audit call instead of being read from ambient request
// state, so the history component works outside an HTTP handler.
type Actor struct {
	ID   int
	Name string
	Role string
}

// RequestMeta is the opportunistically captured request origin. Zero
// values are acceptable; missing metadata never fails an audit write.
type RequestMeta struct {
	IP        string
	UserAgent string
}
