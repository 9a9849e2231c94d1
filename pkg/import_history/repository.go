package import_history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, entry Entry) (Entry, error)
	// GetLatest returns at most limit entries, newest first.
	GetLatest(ctx context.Context, limit int) ([]Entry, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, entry Entry) (Entry, error) {
	query := `INSERT INTO import_history (kind, filename, status, accepted, skipped, unmatched, ambiguous, message, occurred_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	err := r.db.QueryRow(ctx, query,
		entry.Kind,
		entry.Filename,
		string(entry.Status),
		entry.Accepted,
		entry.Skipped,
		entry.Unmatched,
		entry.Ambiguous,
		entry.Message,
		entry.OccurredAt,
	).Scan(&entry.Id)
	if err != nil {
		err := fmt.Errorf("could not insert import history entry: %w", err)
		log.Error(err)
		return Entry{}, err
	}
	return entry, nil
}

func (r *RepositoryImpl) GetLatest(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, kind, filename, status, accepted, skipped, unmatched, ambiguous, message, occurred_at
				FROM import_history
				ORDER BY occurred_at DESC, id DESC
				LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		err := fmt.Errorf("could not query import history: %w", err)
		log.Error(err)
		return nil, err
	}

	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var entry Entry
		var status string
		err := rows.Scan(
			&entry.Id,
			&entry.Kind,
			&entry.Filename,
			&status,
			&entry.Accepted,
			&entry.Skipped,
			&entry.Unmatched,
			&entry.Ambiguous,
			&entry.Message,
			&entry.OccurredAt,
		)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		entry.Status = Status(status)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return entries, nil
}
