package app

import (
	"context"
	"fmt"
	"os"

	"github.com/cristianoafs081993/love-execu-o/internal/config"
	"github.com/cristianoafs081993/love-execu-o/internal/event_bus"
	"github.com/cristianoafs081993/love-execu-o/internal/utils"
	"github.com/cristianoafs081993/love-execu-o/pkg/aggregation"
	"github.com/cristianoafs081993/love-execu-o/pkg/commitment"
	"github.com/cristianoafs081993/love-execu-o/pkg/currency"
	"github.com/cristianoafs081993/love-execu-o/pkg/import_history"
	"github.com/cristianoafs081993/love-execu-o/pkg/planning"
	"github.com/cristianoafs081993/love-execu-o/pkg/reconciliation"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	ActivityRepo    planning.Repository
	PlanningService *planning.ServiceImpl
	PlanningHandler *planning.Handler

	CommitmentRepo    commitment.Repository
	CommitmentService *commitment.ServiceImpl
	CommitmentHandler *commitment.Handler

	AggregationService *aggregation.ServiceImpl
	AggregationHandler *aggregation.Handler

	SheetsSource          reconciliation.FeedSource
	ReconciliationService *reconciliation.ServiceImpl
	ReconciliationHandler *reconciliation.Handler

	ImportHistoryService *import_history.ServiceImpl
	ImportHistoryHandler *import_history.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(ctx context.Context, db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = utils.SystemClock{}
	amountParser := currency.NewParser(!cfg.Import.StrictAmounts)
	maxUploadBytes := cfg.Import.MaxUploadMB << 20

	deps.ImportHistoryService = import_history.NewService(import_history.NewRepository(db), deps.EventBus)
	deps.ImportHistoryHandler = import_history.NewHandler(deps.ImportHistoryService)

	deps.ActivityRepo = planning.NewRepository(db)
	deps.PlanningService = planning.NewService(deps.ActivityRepo, deps.EventBus, amountParser)
	deps.PlanningHandler = planning.NewHandler(deps.PlanningService, maxUploadBytes)

	deps.CommitmentRepo = commitment.NewRepository(db)
	deps.CommitmentService = commitment.NewService(deps.CommitmentRepo, deps.EventBus, amountParser, deps.Clock)
	deps.CommitmentHandler = commitment.NewHandler(deps.CommitmentService, maxUploadBytes)

	deps.AggregationService = aggregation.NewService(deps.PlanningService, deps.CommitmentService)
	deps.AggregationHandler = aggregation.NewHandler(deps.AggregationService, aggregation.NewCsvRenderer(), aggregation.NewXlsxRenderer())

	policy, err := reconciliation.ParseMatchPolicy(cfg.Reconciliation.MatchPolicy)
	if err != nil {
		return nil, err
	}
	sheetsSource, err := newSheetsSource(ctx, cfg.Google)
	if err != nil {
		return nil, err
	}
	if sheetsSource != nil {
		deps.SheetsSource = sheetsSource
	}
	deps.ReconciliationService = reconciliation.NewService(deps.CommitmentRepo, policy, deps.SheetsSource, deps.EventBus)
	deps.ReconciliationHandler = reconciliation.NewHandler(deps.ReconciliationService, maxUploadBytes)

	return deps, nil
}

// newSheetsSource returns nil when no service account is configured.
func newSheetsSource(ctx context.Context, cfg config.Google) (*reconciliation.SheetsSource, error) {
	credentialsJSON := []byte(cfg.CredentialsJSON)
	if len(credentialsJSON) == 0 && cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read google credentials file: %w", err)
		}
		credentialsJSON = data
	}
	if len(credentialsJSON) == 0 {
		log.Info("Google credentials not configured, spreadsheet reconciliation disabled")
		return nil, nil
	}
	return reconciliation.NewSheetsSource(ctx, credentialsJSON)
}
