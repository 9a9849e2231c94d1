package planning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cristianoafs081993/love-execu-o/internal/event_bus"
	"github.com/cristianoafs081993/love-execu-o/pkg/currency"
	log "github.com/sirupsen/logrus"
)

var ErrMissingRequiredFields = errors.New("atividade e dimensão são obrigatórias")

const ImportKind = "activity"

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Activity, error)
	GetAll(ctx context.Context) ([]Activity, error)
	Get(ctx context.Context, id string) (Activity, error)
	Create(ctx context.Context, activity Activity) (Activity, error)
	Update(ctx context.Context, id string, patch Patch) (Activity, error)
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, filename string, data []byte) (ImportResult, error)
}

type ImportResult struct {
	Accepted int
	Skipped  int
}

type ServiceImpl struct {
	repo         Repository
	eventBus     *event_bus.EventBus
	amountParser currency.Parser
}

func NewService(repo Repository, eventBus *event_bus.EventBus, amountParser currency.Parser) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus, amountParser: amountParser}
}

func (s *ServiceImpl) List(ctx context.Context, filter ListFilter) ([]Activity, error) {
	activities, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]Activity, 0, len(activities))
	for _, activity := range activities {
		if filter.Matches(activity) {
			filtered = append(filtered, activity)
		}
	}
	return filtered, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Activity, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Activity, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, activity Activity) (Activity, error) {
	activity.Name = strings.TrimSpace(activity.Name)
	activity.Dimension = strings.TrimSpace(activity.Dimension)
	if activity.Name == "" || activity.Dimension == "" {
		return Activity{}, ErrMissingRequiredFields
	}
	return s.repo.Create(ctx, activity)
}

func (s *ServiceImpl) Update(ctx context.Context, id string, patch Patch) (Activity, error) {
	if (patch.Name != nil && strings.TrimSpace(*patch.Name) == "") ||
		(patch.Dimension != nil && strings.TrimSpace(*patch.Dimension) == "") {
		return Activity{}, ErrMissingRequiredFields
	}
	if patch.IsEmpty() {
		return s.repo.Get(ctx, id)
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("activity %s not deleted, it does not exist", id)
		return ErrActivityNotFound
	}
	return nil
}

// Import reads a .csv or .json upload. The upload is rejected as a whole on
// validation errors; otherwise every row with a name and a dimension is stored
// in a single transaction and the others are counted as skipped.
func (s *ServiceImpl) Import(ctx context.Context, filename string, data []byte) (ImportResult, error) {
	rows, err := readRows(filename, data)
	if err != nil {
		s.publish(ctx, event_bus.ImportRejected, event_bus.ImportFinished{
			Kind:     ImportKind,
			Filename: filename,
			Message:  err.Error(),
		})
		return ImportResult{}, err
	}

	activities := make([]Activity, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		activity, err := activityFromRow(row, s.amountParser)
		if err != nil {
			log.Warnf("skipping row %d of %s: %v", i+2, filename, err)
			skipped++
			continue
		}
		activities = append(activities, activity)
	}

	created, err := s.repo.CreateMany(ctx, activities)
	if err != nil {
		err = fmt.Errorf("failed to store imported activities: %w", err)
		s.publish(ctx, event_bus.ImportFailed, event_bus.ImportFinished{
			Kind:     ImportKind,
			Filename: filename,
			Skipped:  skipped,
			Message:  err.Error(),
		})
		return ImportResult{}, err
	}

	result := ImportResult{Accepted: len(created), Skipped: skipped}
	log.Infof("imported %d activities from %s (%d skipped)", result.Accepted, filename, result.Skipped)
	s.publish(ctx, event_bus.ImportCompleted, event_bus.ImportFinished{
		Kind:     ImportKind,
		Filename: filename,
		Accepted: result.Accepted,
		Skipped:  result.Skipped,
	})
	return result, nil
}

// publish reports an import outcome. A failing subscriber is logged and does
// not change the result of the import.
func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data event_bus.ImportFinished) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s event: %v", eventType, err)
	}
}
