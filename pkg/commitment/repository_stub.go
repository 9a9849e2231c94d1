package commitment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RepositoryStub struct {
	commitments map[string]Commitment
	order       []string
	// FailCreate makes the next CreateMany fail.
	FailCreate bool
	// FailLiquidationFor makes UpdateLiquidation fail for the given commitment id.
	FailLiquidationFor string
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{commitments: map[string]Commitment{}}
}

func (s *RepositoryStub) Create(ctx context.Context, commitment Commitment) (Commitment, error) {
	now := time.Now()
	commitment.Id = uuid.NewString()
	commitment.CreatedAt = now
	commitment.UpdatedAt = now
	s.commitments[commitment.Id] = commitment
	s.order = append(s.order, commitment.Id)
	return commitment, nil
}

func (s *RepositoryStub) CreateMany(ctx context.Context, commitments []Commitment) ([]Commitment, error) {
	if s.FailCreate {
		s.FailCreate = false
		return nil, fmt.Errorf("could not insert commitment")
	}
	created := make([]Commitment, 0, len(commitments))
	for _, commitment := range commitments {
		stored, _ := s.Create(ctx, commitment)
		created = append(created, stored)
	}
	return created, nil
}

func (s *RepositoryStub) GetAll(ctx context.Context) ([]Commitment, error) {
	commitments := make([]Commitment, 0, len(s.order))
	for _, id := range s.order {
		commitments = append(commitments, s.commitments[id])
	}
	return commitments, nil
}

func (s *RepositoryStub) Get(ctx context.Context, id string) (Commitment, error) {
	if commitment, exists := s.commitments[id]; exists {
		return commitment, nil
	}
	return Commitment{}, ErrCommitmentNotFound
}

func (s *RepositoryStub) Update(ctx context.Context, id string, patch Patch) (Commitment, error) {
	commitment, exists := s.commitments[id]
	if !exists {
		return Commitment{}, ErrCommitmentNotFound
	}
	commitment = patch.Apply(commitment)
	commitment.UpdatedAt = time.Now()
	s.commitments[id] = commitment
	return commitment, nil
}

func (s *RepositoryStub) UpdateLiquidation(ctx context.Context, id string, liquidatedAmount float64, status Status) error {
	if s.FailLiquidationFor != "" && s.FailLiquidationFor == id {
		return fmt.Errorf("could not update liquidation of commitment %s", id)
	}
	commitment, exists := s.commitments[id]
	if !exists {
		return ErrCommitmentNotFound
	}
	commitment.LiquidatedAmount = liquidatedAmount
	commitment.Status = status
	commitment.UpdatedAt = time.Now()
	s.commitments[id] = commitment
	return nil
}

func (s *RepositoryStub) Delete(ctx context.Context, id string) (bool, error) {
	if _, exists := s.commitments[id]; !exists {
		return false, nil
	}
	delete(s.commitments, id)
	for i, stored := range s.order {
		if stored == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *RepositoryStub) Cleanup() {
	s.commitments = map[string]Commitment{}
	s.order = nil
	s.FailCreate = false
	s.FailLiquidationFor = ""
}
