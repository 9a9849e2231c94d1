package import_history

import (
	"context"
	"errors"
	"testing"

	"github.com/cristianoafs081993/love-execu-o/internal/event_bus"
	"github.com/cristianoafs081993/love-execu-o/pkg/currency"
	"github.com/cristianoafs081993/love-execu-o/pkg/planning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

var historyRepoStub = NewRepositoryStub()

var eventBus *event_bus.EventBus

var service Service

func setup(t *testing.T) func() {
	eventBus = event_bus.NewEventBus()
	service = NewService(historyRepoStub, eventBus)
	return func() {
		t.Log("Teardown after test")
		historyRepoStub.Cleanup()
	}
}

func TestServiceImpl_RecordsImports(t *testing.T) {
	t.Run("should record completed and rejected uploads", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		planningService := planning.NewService(planning.NewRepositoryStub(), eventBus, currency.NewParser(true))

		// when
		_, err := planningService.Import(ctx, "plano.csv", []byte("atividade,dimensao,valortotal,origemrecurso\nCurso,GO,100,F1\n,GO,1,F1\n"))
		require.NoError(t, err)
		_, err = planningService.Import(ctx, "plano.csv", []byte("atividade,dimensao\nCurso,GO\n"))
		require.Error(t, err)

		// then
		entries, err := service.GetLatest(ctx, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, StatusRejected, entries[0].Status)
		assert.Contains(t, entries[0].Message, "valortotal")
		assert.Equal(t, StatusCompleted, entries[1].Status)
		assert.Equal(t, planning.ImportKind, entries[1].Kind)
		assert.Equal(t, 1, entries[1].Accepted)
		assert.Equal(t, 1, entries[1].Skipped)
		assert.False(t, entries[1].OccurredAt.IsZero())
	})

	t.Run("should record an upload the store could not save as failed", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		activities := planning.NewRepositoryStub()
		activities.FailCreate = true
		planningService := planning.NewService(activities, eventBus, currency.NewParser(true))

		// when
		_, err := planningService.Import(ctx, "plano.csv", []byte("atividade,dimensao,valortotal,origemrecurso\nCurso,GO,100,F1\n"))
		require.Error(t, err)

		// then
		entries, err := service.GetLatest(ctx, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, StatusFailed, entries[0].Status)
		assert.Equal(t, planning.ImportKind, entries[0].Kind)
		assert.Equal(t, 0, entries[0].Accepted)
		assert.Contains(t, entries[0].Message, "failed to store imported activities")
	})

		t.Run("should record reconciliations", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		err := eventBus.Publish(event_bus.NewEvent(ctx, event_bus.LedgerReconciled, event_bus.LedgerReconciliation{
			Source: "razao.xlsx", Updated: 3, Unmatched: 1, Skipped: 2, Ambiguous: 1,
		}))
		require.NoError(t, err)
		err = eventBus.Publish(event_bus.NewEvent(ctx, event_bus.LedgerReconciled, event_bus.LedgerReconciliation{
			Source: "razao.xlsx", Updated: 1, Message: "failed to update commitment",
		}))
		require.NoError(t, err)

		// then
		entries, err := service.GetLatest(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, StatusFailed, entries[0].Status)
		assert.Equal(t, Entry{
			Id:         1,
			Kind:       KindReconciliation,
			Filename:   "razao.xlsx",
			Status:     StatusCompleted,
			Accepted:   3,
			Skipped:    2,
			Unmatched:  1,
			Ambiguous:  1,
			OccurredAt: entries[1].OccurredAt,
		}, entries[1])
	})
}

type failingRepository struct {
	RepositoryStub
}

func (failingRepository) Store(ctx context.Context, entry Entry) (Entry, error) {
	return Entry{}, errors.New("connection refused")
}

func TestServiceImpl_StoreFailureReachesPublisher(t *testing.T) {
	// given
	bus := event_bus.NewEventBus()
	NewService(&failingRepository{}, bus)

	// when
	err := bus.Publish(event_bus.NewEvent(ctx, event_bus.ImportCompleted, event_bus.ImportFinished{Kind: "activity"}))

	// then
	assert.ErrorContains(t, err, "connection refused")
}

func TestServiceImpl_GetLatest_Limit(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	for i := 0; i < DefaultLimit+5; i++ {
		_, _ = historyRepoStub.Store(ctx, Entry{Kind: "activity"})
	}

	all, err := service.GetLatest(ctx, -1)
	require.NoError(t, err)
	two, err := service.GetLatest(ctx, 2)
	require.NoError(t, err)

	assert.Len(t, all, DefaultLimit)
	require.Len(t, two, 2)
	assert.Equal(t, int64(DefaultLimit+5), two[0].Id)
}
