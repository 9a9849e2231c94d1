package aggregation

import (
	"context"
	"fmt"

	"github.com/cristianoafs081993/love-execu-o/pkg/commitment"
	"github.com/cristianoafs081993/love-execu-o/pkg/planning"
)

type ActivityReader interface {
	GetAll(ctx context.Context) ([]planning.Activity, error)
}

type CommitmentReader interface {
	GetAll(ctx context.Context) ([]commitment.Commitment, error)
}

// Dashboard holds every view computed from one snapshot.
type Dashboard struct {
	Totals        Totals
	Summary       []BudgetSummary
	Origins       []OriginSummary
	Components    []ComponentSummary
	Natures       []NatureSummary
	MonthlySeries []MonthlyPoint
	Funnel        []FunnelStage
}

type Service interface {
	Dashboard(ctx context.Context, filter Filter) (Dashboard, error)
	GetTotals(ctx context.Context, filter Filter) (Totals, error)
	GetSummaryByOriginAndDimension(ctx context.Context, filter Filter) ([]BudgetSummary, error)
	GetSummaryByOrigin(ctx context.Context, filter Filter) ([]OriginSummary, error)
	GetTopComponents(ctx context.Context, filter Filter, n int) ([]ComponentSummary, error)
	GetTopExpenseNatures(ctx context.Context, filter Filter, n int) ([]NatureSummary, error)
	GetMonthlySeries(ctx context.Context, filter Filter) ([]MonthlyPoint, error)
	GetFunnel(ctx context.Context, filter Filter) ([]FunnelStage, error)
}

// ServiceImpl reads both record sets on every call; nothing is cached.
type ServiceImpl struct {
	activities  ActivityReader
	commitments CommitmentReader
}

func NewService(activities ActivityReader, commitments CommitmentReader) *ServiceImpl {
	return &ServiceImpl{activities: activities, commitments: commitments}
}

func (s *ServiceImpl) snapshot(ctx context.Context, filter Filter) (Snapshot, error) {
	activities, err := s.activities.GetAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read activities: %w", err)
	}
	commitments, err := s.commitments.GetAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read commitments: %w", err)
	}
	return filter.Apply(Snapshot{Activities: activities, Commitments: commitments}), nil
}

func (s *ServiceImpl) Dashboard(ctx context.Context, filter Filter) (Dashboard, error) {
	snapshot, err := s.snapshot(ctx, filter)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Totals:        ComputeTotals(snapshot),
		Summary:       SummarizeByDimensionAndOrigin(snapshot),
		Origins:       SummarizeByOrigin(snapshot),
		Components:    TopComponents(snapshot, DefaultTopComponents),
		Natures:       TopExpenseNatures(snapshot, DefaultTopExpenseNatures),
		MonthlySeries: MonthlySeries(snapshot),
		Funnel:        Funnel(snapshot),
	}, nil
}

func (s *ServiceImpl) GetTotals(ctx context.Context, filter Filter) (Totals, error) {
	snapshot, err := s.snapshot(ctx, filter)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(snapshot), nil
}

func (s *ServiceImpl) GetSummaryByOriginAndDimension(ctx context.Context, filter Filter) ([]BudgetSummary, error) {
	snapshot, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	return SummarizeByDimensionAndOrigin(snapshot), nil
}

func (s *ServiceImpl) GetSummaryByOrigin(ctx context.Context, filter Filter) ([]OriginSummary, error) {
	snapshot, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	return SummarizeByOrigin(snapshot), nil
}

func (s *ServiceImpl) GetTopComponents(ctx context.Context, filter Filter, n int) ([]ComponentSummary, error) {
	snapshot, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	return TopComponents(snapshot, n), nil
}

func (s *ServiceImpl) GetTopExpenseNatures(ctx context.Context, filter Filter, n int) ([]NatureSummary, error) {
	snapshot, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	return TopExpenseNatures(snapshot, n), nil
}

func (s *ServiceImpl) GetMonthlySeries(ctx context.Context, filter Filter) ([]MonthlyPoint, error) {
	snapshot, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	return MonthlySeries(snapshot), nil
}

func (s *ServiceImpl) GetFunnel(ctx context.Context, filter Filter) ([]FunnelStage, error) {
	snapshot, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	return Funnel(snapshot), nil
}
