package import_history

import (
	"context"
	"time"

	"github.com/cristianoafs081993/love-execu-o/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

const DefaultLimit = 20

type Service interface {
	GetLatest(ctx context.Context, limit int) ([]Entry, error)
}

type ServiceImpl struct {
	repo Repository
}

// NewService records every import and reconciliation published on eventBus.
func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	service := &ServiceImpl{repo: repo}
	if eventBus == nil {
		return service
	}

	for eventType, status := range map[event_bus.EventType]Status{
		event_bus.ImportCompleted: StatusCompleted,
		event_bus.ImportRejected:  StatusRejected,
		event_bus.ImportFailed:    StatusFailed,
	} {
		event_bus.SubscribeTyped[event_bus.ImportFinished](
			eventBus,
			eventType,
			func(e event_bus.EventT[event_bus.ImportFinished]) error {
				log.Debugf("received %s event: %v", e.Type, e.Data)
				return service.record(e.Context(), Entry{
					Kind:       e.Data.Kind,
					Filename:   e.Data.Filename,
					Status:     status,
					Accepted:   e.Data.Accepted,
					Skipped:    e.Data.Skipped,
					Message:    e.Data.Message,
					OccurredAt: e.Timestamp,
				})
			},
		)
	}
	event_bus.SubscribeTyped[event_bus.LedgerReconciliation](
		eventBus,
		event_bus.LedgerReconciled,
		func(e event_bus.EventT[event_bus.LedgerReconciliation]) error {
			log.Debugf("received %s event: %v", e.Type, e.Data)
			return service.record(e.Context(), reconciliationEntry(e.Data, e.Timestamp))
		},
	)
	return service
}

func reconciliationEntry(data event_bus.LedgerReconciliation, occurredAt time.Time) Entry {
	status := StatusCompleted
	if data.Message != "" {
		status = StatusFailed
	}
	return Entry{
		Kind:       KindReconciliation,
		Filename:   data.Source,
		Status:     status,
		Accepted:   data.Updated,
		Skipped:    data.Skipped,
		Unmatched:  data.Unmatched,
		Ambiguous:  data.Ambiguous,
		Message:    data.Message,
		OccurredAt: occurredAt,
	}
}

func (s *ServiceImpl) record(ctx context.Context, entry Entry) error {
	if _, err := s.repo.Store(ctx, entry); err != nil {
		log.Errorf("failed to record %s run of %s: %v", entry.Kind, entry.Filename, err)
		return err
	}
	return nil
}

func (s *ServiceImpl) GetLatest(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.repo.GetLatest(ctx, limit)
}
