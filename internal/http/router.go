package http

import (
	"net/http"

	"consign-backend/internal/handlers"
	"consign-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	productHandler *handlers.ProductHandler,
	agentHandler *handlers.AgentHandler,
	caseHandler *handlers.CaseHandler,
	commissionHandler *handlers.CommissionHandler,
	reportHandler *handlers.ReportHandler,
	scanHandler *handlers.ScanHandler,
	messageHandler *handlers.MessageHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.MetricsMiddleware)

	// Products
	api.HandleFunc("/products", productHandler.ListProducts).Methods("GET")
	api.HandleFunc("/products", productHandler.CreateProduct).Methods("POST")
	api.HandleFunc("/products/{id}", productHandler.GetProduct).Methods("GET")
	api.HandleFunc("/products/{id}", productHandler.UpdateProduct).Methods("PUT")
	api.HandleFunc("/products/{id}", productHandler.DeleteProduct).Methods("DELETE")

	// Agents
	api.HandleFunc("/agents", agentHandler.ListAgents).Methods("GET")
	api.HandleFunc("/agents", agentHandler.CreateAgent).Methods("POST")
	api.HandleFunc("/agents/{id}", agentHandler.GetAgent).Methods("GET")
	api.HandleFunc("/agents/{id}", agentHandler.UpdateAgent).Methods("PUT")
	api.HandleFunc("/agents/{id}", agentHandler.DeleteAgent).Methods("DELETE")

	// Cases and their ledger
	api.HandleFunc("/cases", caseHandler.ListCases).Methods("GET")
	api.HandleFunc("/cases", caseHandler.CreateCase).Methods("POST")
	api.HandleFunc("/cases/{id}", caseHandler.GetCase).Methods("GET")
	api.HandleFunc("/cases/{id}", caseHandler.UpdateCase).Methods("PUT")
	api.HandleFunc("/cases/{id}", caseHandler.DeleteCase).Methods("DELETE")
	api.HandleFunc("/cases/{id}/logs", caseHandler.ListCaseLogs).Methods("GET")
	api.HandleFunc("/cases/{id}/logs", caseHandler.AppendCaseLog).Methods("POST")
	api.HandleFunc("/cases/{id}/pdf", caseHandler.CaseManifest).Methods("GET")
	api.HandleFunc("/cases/{id}/notify", caseHandler.NotifyAgent).Methods("POST")
	api.HandleFunc("/logs", caseHandler.ListLogs).Methods("GET")

	// Commissions - calculate must be registered before {id}
	api.HandleFunc("/commissions/calculate", commissionHandler.Calculate).Methods("GET")
	api.HandleFunc("/commissions", commissionHandler.ListManual).Methods("GET")
	api.HandleFunc("/commissions", commissionHandler.CreateManual).Methods("POST")
	api.HandleFunc("/commissions/{id}", commissionHandler.DeleteManual).Methods("DELETE")

	// Stats and reports
	api.HandleFunc("/stats", reportHandler.Dashboard).Methods("GET")
	api.HandleFunc("/reports/commissions", reportHandler.CommissionReport).Methods("GET")
	api.HandleFunc("/reports/commissions/xlsx", reportHandler.CommissionReportXLSX).Methods("GET")

	api.HandleFunc("/scan", scanHandler.Scan).Methods("POST")
	api.HandleFunc("/messages", messageHandler.SendMessage).Methods("POST")

	// Health endpoints (for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"route not found"}}`))
}
