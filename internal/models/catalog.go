package models

import "time"

// Material is one configured scrap material type (COBRE, PURGA PVC, ...)
type Material struct {
	ID               int       `json:"id"`
	Nombre           string    `json:"tipo_nombre"`
	EsPredeterminado bool      `json:"es_predeterminado"`
	Activo           bool      `json:"activo"`
	CreatedAt        time.Time `json:"created_at"`
}

// AreaMachine is one configured work area / machine pair
type AreaMachine struct {
	ID      int    `json:"id"`
	Area    string `json:"area"`
	Maquina string `json:"maquina"`
	Activo  bool   `json:"activo"`
}

type SaveMaterialRequest struct {
	Nombre           string `json:"tipo_nombre"`
	EsPredeterminado bool   `json:"es_predeterminado"`
}

type SaveAreaMachineRequest struct {
	Area    string `json:"area"`
	Maquina string `json:"maquina"`
}
