package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianoafs081993/love-execu-o/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

var ErrSheetsUnavailable = errors.New("leitura de planilhas Google não configurada")

type Service interface {
	ReconcileUpload(ctx context.Context, filename string, data []byte) (Result, error)
	ReconcileSheet(ctx context.Context, spreadsheetId string, readRange string) (Result, error)
}

type ServiceImpl struct {
	reconciler *Reconciler
	sheets     FeedSource
	eventBus   *event_bus.EventBus
}

// NewService builds the reconciliation service. sheets may be nil when no
// Google credentials are configured.
func NewService(store CommitmentStore, policy MatchPolicy, sheets FeedSource, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{
		reconciler: NewReconciler(store, policy),
		sheets:     sheets,
		eventBus:   eventBus,
	}
}

func (s *ServiceImpl) ReconcileUpload(ctx context.Context, filename string, data []byte) (Result, error) {
	feed, err := ReadFeed(filename, data)
	if err != nil {
		s.publish(ctx, filename, Result{}, err)
		return Result{}, err
	}
	return s.reconcile(ctx, filename, feed)
}

func (s *ServiceImpl) ReconcileSheet(ctx context.Context, spreadsheetId string, readRange string) (Result, error) {
	if s.sheets == nil {
		return Result{}, ErrSheetsUnavailable
	}
	source := fmt.Sprintf("sheets:%s!%s", spreadsheetId, readRange)
	feed, err := s.sheets.Fetch(ctx, spreadsheetId, readRange)
	if err != nil {
		s.publish(ctx, source, Result{}, err)
		return Result{}, err
	}
	return s.reconcile(ctx, source, feed)
}

func (s *ServiceImpl) reconcile(ctx context.Context, source string, feed Feed) (Result, error) {
	result, err := s.reconciler.Apply(ctx, feed)
	if err != nil {
		log.Errorf("reconciliation of %s stopped after %d updates: %v", source, result.Updated, err)
	} else {
		log.Infof("reconciled %s: %d updated, %d unmatched, %d skipped, %d ambiguous",
			source, result.Updated, result.Unmatched, result.Skipped, result.Ambiguous)
	}
	s.publish(ctx, source, result, err)
	return result, err
}

func (s *ServiceImpl) publish(ctx context.Context, source string, result Result, failure error) {
	if s.eventBus == nil {
		return
	}
	data := event_bus.LedgerReconciliation{
		Source:    source,
		Updated:   result.Updated,
		Unmatched: result.Unmatched,
		Skipped:   result.Skipped,
		Ambiguous: result.Ambiguous,
	}
	if failure != nil {
		data.Message = failure.Error()
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.LedgerReconciled, data)); err != nil {
		log.Errorf("failed to publish %s event: %v", event_bus.LedgerReconciled, err)
	}
}
