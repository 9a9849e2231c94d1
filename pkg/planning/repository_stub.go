package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RepositoryStub struct {
	activities map[string]Activity
	order      []string
	// FailCreate makes the next CreateMany fail, to exercise error paths.
	FailCreate bool
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{activities: map[string]Activity{}}
}

func (s *RepositoryStub) Create(ctx context.Context, activity Activity) (Activity, error) {
	now := time.Now()
	activity.Id = uuid.NewString()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	s.activities[activity.Id] = activity
	s.order = append(s.order, activity.Id)
	return activity, nil
}

func (s *RepositoryStub) CreateMany(ctx context.Context, activities []Activity) ([]Activity, error) {
	if s.FailCreate {
		s.FailCreate = false
		return nil, fmt.Errorf("could not insert activity")
	}
	created := make([]Activity, 0, len(activities))
	for _, activity := range activities {
		stored, _ := s.Create(ctx, activity)
		created = append(created, stored)
	}
	return created, nil
}

func (s *RepositoryStub) GetAll(ctx context.Context) ([]Activity, error) {
	activities := make([]Activity, 0, len(s.order))
	for _, id := range s.order {
		activities = append(activities, s.activities[id])
	}
	return activities, nil
}

func (s *RepositoryStub) Get(ctx context.Context, id string) (Activity, error) {
	if activity, exists := s.activities[id]; exists {
		return activity, nil
	}
	return Activity{}, ErrActivityNotFound
}

func (s *RepositoryStub) Update(ctx context.Context, id string, patch Patch) (Activity, error) {
	activity, exists := s.activities[id]
	if !exists {
		return Activity{}, ErrActivityNotFound
	}
	activity = patch.Apply(activity)
	activity.UpdatedAt = time.Now()
	s.activities[id] = activity
	return activity, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, id string) (bool, error) {
	if _, exists := s.activities[id]; !exists {
		return false, nil
	}
	delete(s.activities, id)
	for i, stored := range s.order {
		if stored == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *RepositoryStub) Cleanup() {
	s.activities = map[string]Activity{}
	s.order = nil
	s.FailCreate = false
}
