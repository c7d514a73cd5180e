package models

import "time"

// ProductionLine is a production detail joined with its parent entry
// and operator, as fetched for the reconciliation engine.
type ProductionLine struct {
	DetalleID       int
	RegistroID      int
	Fecha           time.Time
	Turno           int
	Material        string
	Peso            float64
	Operador        string
	ConexionBascula bool
	Observaciones   string
	Area            string
	Maquina         string
}
