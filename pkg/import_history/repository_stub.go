package import_history

import (
	"context"
	"slices"
)

type RepositoryStub struct {
	entries []Entry
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (s *RepositoryStub) Store(ctx context.Context, entry Entry) (Entry, error) {
	entry.Id = int64(len(s.entries) + 1)
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *RepositoryStub) GetLatest(ctx context.Context, limit int) ([]Entry, error) {
	latest := slices.Clone(s.entries)
	slices.Reverse(latest)
	if len(latest) > limit {
		latest = latest[:limit]
	}
	return latest, nil
}

func (s *RepositoryStub) Cleanup() {
	s.entries = nil
}
