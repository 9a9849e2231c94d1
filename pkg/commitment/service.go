package commitment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cristianoafs081993/love-execu-o/internal/event_bus"
	"github.com/cristianoafs081993/love-execu-o/internal/utils"
	"github.com/cristianoafs081993/love-execu-o/pkg/currency"
	log "github.com/sirupsen/logrus"
)

var ErrMissingRequiredFields = errors.New("número e dimensão são obrigatórios")

const ImportKind = "commitment"

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Commitment, error)
	GetAll(ctx context.Context) ([]Commitment, error)
	Get(ctx context.Context, id string) (Commitment, error)
	Create(ctx context.Context, commitment Commitment) (Commitment, error)
	Update(ctx context.Context, id string, patch Patch) (Commitment, error)
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
	clock        utils.Clock
}

func NewService(repo Repository, eventBus *event_bus.EventBus, amountParser currency.Parser, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus, amountParser: amountParser, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context, filter ListFilter) ([]Commitment, error) {
	commitments, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]Commitment, 0, len(commitments))
	for _, commitment := range commitments {
		if filter.Matches(commitment) {
			filtered = append(filtered, commitment)
		}
	}
	return filtered, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Commitment, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Commitment, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a manually entered commitment. Liquidation starts at zero and
// a missing date defaults to today.
func (s *ServiceImpl) Create(ctx context.Context, commitment Commitment) (Commitment, error) {
	commitment.Number = strings.TrimSpace(commitment.Number)
	commitment.Dimension = strings.TrimSpace(commitment.Dimension)
	if commitment.Number == "" || commitment.Dimension == "" {
		return Commitment{}, ErrMissingRequiredFields
	}
	if commitment.Status == "" {
		commitment.Status = StatusPending
	}
	if commitment.Date.IsZero() {
		commitment.Date = s.clock.Now()
	}
	commitment.LiquidatedAmount = 0
	return s.repo.Create(ctx, commitment)
}

func (s *ServiceImpl) Update(ctx context.Context, id string, patch Patch) (Commitment, error) {
	if (patch.Number != nil && strings.TrimSpace(*patch.Number) == "") ||
		(patch.Dimension != nil && strings.TrimSpace(*patch.Dimension) == "") {
		return Commitment{}, ErrMissingRequiredFields
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
		log.Warnf("commitment %s not deleted, it does not exist", id)
		return ErrCommitmentNotFound
	}
	return nil
}

// Import reads a .csv upload of commitments. Rows without a number or a
// dimension are skipped; the others are stored together.
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

	now := s.clock.Now()
	commitments := make([]Commitment, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		commitment, err := commitmentFromRow(row, s.amountParser, now)
		if err != nil {
			log.Warnf("skipping row %d of %s: %v", i+2, filename, err)
			skipped++
			continue
		}
		commitments = append(commitments, commitment)
	}

	created, err := s.repo.CreateMany(ctx, commitments)
	if err != nil {
		err = fmt.Errorf("failed to store imported commitments: %w", err)
		s.publish(ctx, event_bus.ImportFailed, event_bus.ImportFinished{
			Kind:     ImportKind,
			Filename: filename,
			Skipped:  skipped,
			Message:  err.Error(),
		})
		return ImportResult{}, err
	}

	result := ImportResult{Accepted: len(created), Skipped: skipped}
	log.Infof("imported %d commitments from %s (%d skipped)", result.Accepted, filename, result.Skipped)
	s.publish(ctx, event_bus.ImportCompleted, event_bus.ImportFinished{
		Kind:     ImportKind,
		Filename: filename,
		Accepted: result.Accepted,
		Skipped:  result.Skipped,
	})
	return result, nil
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data event_bus.ImportFinished) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s event: %v", eventType, err)
	}
}
