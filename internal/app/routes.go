package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Planning
	r.HandleFunc("/api/activity", deps.PlanningHandler.ListActivities).Methods("GET")
	r.HandleFunc("/api/activity", deps.PlanningHandler.CreateActivity).Methods("POST")
	r.HandleFunc("/api/activity/import", deps.PlanningHandler.ImportActivities).Methods("POST")
	r.HandleFunc("/api/activity/{id}", deps.PlanningHandler.GetActivity).Methods("GET")
	r.HandleFunc("/api/activity/{id}", deps.PlanningHandler.UpdateActivity).Methods("PATCH")
	r.HandleFunc("/api/activity/{id}", deps.PlanningHandler.DeleteActivity).Methods("DELETE")

	// Commitments
	r.HandleFunc("/api/commitment", deps.CommitmentHandler.ListCommitments).Methods("GET")
	r.HandleFunc("/api/commitment", deps.CommitmentHandler.CreateCommitment).Methods("POST")
	r.HandleFunc("/api/commitment/import", deps.CommitmentHandler.ImportCommitments).Methods("POST")
	r.HandleFunc("/api/commitment/{id}", deps.CommitmentHandler.GetCommitment).Methods("GET")
	r.HandleFunc("/api/commitment/{id}", deps.CommitmentHandler.UpdateCommitment).Methods("PATCH")
	r.HandleFunc("/api/commitment/{id}", deps.CommitmentHandler.DeleteCommitment).Methods("DELETE")

	// Reconciliation
	r.HandleFunc("/api/commitment/reconcile", deps.ReconciliationHandler.ReconcileUpload).Methods("POST")
	r.HandleFunc("/api/commitment/reconcile/sheets", deps.ReconciliationHandler.ReconcileSheet).Methods("POST")

	// Dashboard
	r.HandleFunc("/api/dashboard", deps.AggregationHandler.GetDashboard).Methods("GET")
	r.HandleFunc("/api/dashboard/totals", deps.AggregationHandler.GetTotals).Methods("GET")
	r.HandleFunc("/api/dashboard/summary", deps.AggregationHandler.GetSummary).Methods("GET")
	r.HandleFunc("/api/dashboard/origins", deps.AggregationHandler.GetOrigins).Methods("GET")
	r.HandleFunc("/api/dashboard/components", deps.AggregationHandler.GetComponents).Methods("GET")
	r.HandleFunc("/api/dashboard/natures", deps.AggregationHandler.GetNatures).Methods("GET")
	r.HandleFunc("/api/dashboard/monthly", deps.AggregationHandler.GetMonthlySeries).Methods("GET")
	r.HandleFunc("/api/dashboard/funnel", deps.AggregationHandler.GetFunnel).Methods("GET")
	r.HandleFunc("/api/dashboard/export.csv", deps.AggregationHandler.ExportCsv).Methods("GET")
	r.HandleFunc("/api/dashboard/export.xlsx", deps.AggregationHandler.ExportXlsx).Methods("GET")

	// Import history
	r.HandleFunc("/api/import/history", deps.ImportHistoryHandler.GetHistory).Methods("GET")
}
