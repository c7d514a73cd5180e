package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scrap-backend/internal/handlers"
	"scrap-backend/internal/middleware"
	"scrap-backend/internal/models"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	productionHandler *handlers.ProductionHandler,
	receptionHandler *handlers.ReceptionHandler,
	stockHandler *handlers.StockHandler,
	contraloriaHandler *handlers.ContraloriaHandler,
	catalogHandler *handlers.CatalogHandler,
	dashboardHandler *handlers.DashboardHandler,
	scaleHandler *handlers.ScaleHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")

	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Users (admin)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate, middleware.RequireRole())
	usersAPI.HandleFunc("", userHandler.List).Methods("GET")
	usersAPI.HandleFunc("/{id}/activo", userHandler.SetActive).Methods("PUT")

	// Production ledger (operators)
	registrosAPI := r.PathPrefix("/api/registros").Subrouter()
	registrosAPI.Use(authMiddleware.Authenticate)
	registrosAPI.HandleFunc("", productionHandler.List).Methods("GET")
	registrosAPI.Handle("", requireRoles(productionHandler.Create, models.RoleOperador)).Methods("POST")
	registrosAPI.Handle("/batch", requireRoles(productionHandler.BatchCreate, models.RoleOperador)).Methods("POST")
	registrosAPI.HandleFunc("/{id}", productionHandler.Get).Methods("GET")
	registrosAPI.Handle("/{id}", requireRoles(productionHandler.Delete, models.RoleOperador)).Methods("DELETE")
	registrosAPI.Handle("/{id}/detalles/{detalleID}", requireRoles(productionHandler.UpdateDetail, models.RoleOperador)).Methods("PUT")
	registrosAPI.Handle("/{id}/detalles/{detalleID}/suma", requireRoles(productionHandler.SumDetail, models.RoleOperador)).Methods("POST")

	// Reception ledger (receptionists)
	recepcionesAPI := r.PathPrefix("/api/recepciones").Subrouter()
	recepcionesAPI.Use(authMiddleware.Authenticate)
	recepcionesAPI.HandleFunc("", receptionHandler.List).Methods("GET")
	recepcionesAPI.Handle("", requireRoles(receptionHandler.Create, models.RoleReceptor)).Methods("POST")
	recepcionesAPI.HandleFunc("/{id}", receptionHandler.Get).Methods("GET")
	recepcionesAPI.Handle("/{id}/destino", requireRoles(receptionHandler.UpdateDestino, models.RoleReceptor)).Methods("PUT")
	recepcionesAPI.Handle("/{id}/impreso", requireRoles(receptionHandler.MarkPrinted, models.RoleReceptor)).Methods("POST")
	recepcionesAPI.Handle("/{id}/etiqueta.pdf", requireRoles(receptionHandler.Label, models.RoleReceptor)).Methods("GET")

	// Stock (receptionists manage, everyone authenticated can read)
	stockAPI := r.PathPrefix("/api/stock").Subrouter()
	stockAPI.Use(authMiddleware.Authenticate)
	stockAPI.HandleFunc("", stockHandler.List).Methods("GET")
	stockAPI.HandleFunc("/resumen", stockHandler.Summary).Methods("GET")
	stockAPI.HandleFunc("/{id}", stockHandler.Get).Methods("GET")
	stockAPI.HandleFunc("/{id}/movimientos", stockHandler.Movements).Methods("GET")
	stockAPI.Handle("/{id}/ajuste", requireRoles(stockHandler.Adjust, models.RoleReceptor)).Methods("POST")

	// Contraloría (reconciliation + history)
	contraloriaAPI := r.PathPrefix("/api/contraloria").Subrouter()
	contraloriaAPI.Use(authMiddleware.Authenticate, middleware.RequireRole(models.RoleContraloria))
	contraloriaAPI.HandleFunc("/stats", contraloriaHandler.Stats).Methods("GET")
	contraloriaAPI.HandleFunc("/materiales", contraloriaHandler.Materiales).Methods("GET")
	contraloriaAPI.HandleFunc("/historial", contraloriaHandler.Historial).Methods("GET")

	// Exports
	exportAPI := r.PathPrefix("/api/export").Subrouter()
	exportAPI.Use(authMiddleware.Authenticate, middleware.RequireRole(models.RoleContraloria))
	exportAPI.HandleFunc("/conciliacion.xlsx", contraloriaHandler.ExportWorkbook).Methods("GET")

	// Catalogs (reads for everyone authenticated, writes admin-only)
	configAPI := r.PathPrefix("/api/config").Subrouter()
	configAPI.Use(authMiddleware.Authenticate)
	configAPI.HandleFunc("/materiales", catalogHandler.ListMaterials).Methods("GET")
	configAPI.Handle("/materiales", requireRoles(catalogHandler.CreateMaterial)).Methods("POST")
	configAPI.Handle("/materiales/{id}", requireRoles(catalogHandler.UpdateMaterial)).Methods("PUT")
	configAPI.Handle("/materiales/{id}/activo", requireRoles(catalogHandler.SetMaterialActive)).Methods("PUT")
	configAPI.HandleFunc("/areas-maquinas", catalogHandler.ListAreaMachines).Methods("GET")
	configAPI.Handle("/areas-maquinas", requireRoles(catalogHandler.CreateAreaMachine)).Methods("POST")
	configAPI.Handle("/areas-maquinas/{id}", requireRoles(catalogHandler.UpdateAreaMachine)).Methods("PUT")

	// Dashboard
	dashboardAPI := r.PathPrefix("/api/dashboard").Subrouter()
	dashboardAPI.Use(authMiddleware.Authenticate)
	dashboardAPI.HandleFunc("/stats", dashboardHandler.Stats).Methods("GET")

	// Scale bridge
	basculaAPI := r.PathPrefix("/api/bascula").Subrouter()
	basculaAPI.Use(authMiddleware.Authenticate, middleware.RequireRole(models.RoleOperador, models.RoleReceptor))
	basculaAPI.HandleFunc("/leer", scaleHandler.Read).Methods("POST")

	return r
}

// requireRoles wraps a single handler func with a role guard (admin
// always passes).
func requireRoles(h http.HandlerFunc, roles ...string) http.Handler {
	return middleware.RequireRole(roles...)(h)
}
