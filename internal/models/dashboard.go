package models

// DashboardStats is the aggregate view behind the landing dashboard
type DashboardStats struct {
	TotalRegistros      int                `json:"total_registros"`
	TotalRecepciones    int                `json:"total_recepciones"`
	PesoProducidoTotal  float64            `json:"peso_producido_total"`
	PesoProducidoHoy    float64            `json:"peso_producido_hoy"`
	PesoRecibidoHoy     float64            `json:"peso_recibido_hoy"`
	StockDisponibleKg   float64            `json:"stock_disponible_kg"`
	UsuariosRegistrados int                `json:"usuarios_registrados"`
	DistribucionKg      map[string]float64 `json:"distribucion_kg"`
	SerieMensual        []MonthlyWeight    `json:"serie_mensual"`
}

// MonthlyWeight is one month of the production vs reception series
type MonthlyWeight struct {
	Mes        string  `json:"mes"` // YYYY-MM
	Produccion float64 `json:"produccion"`
	Recepcion  float64 `json:"recepcion"`
}
