package planning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrActivityNotFound = errors.New("activity not found")

type Repository interface {
	Create(ctx context.Context, activity Activity) (Activity, error)
	// CreateMany stores all activities or none of them.
	CreateMany(ctx context.Context, activities []Activity) ([]Activity, error)
	GetAll(ctx context.Context) ([]Activity, error)
	Get(ctx context.Context, id string) (Activity, error)
	Update(ctx context.Context, id string, patch Patch) (Activity, error)
	Delete(ctx context.Context, id string) (bool, error)
}

const activityColumns = `id, dimension, functional_component, process, name, description,
	planned_amount, resource_origin, expense_nature, internal_plan, created_at, updated_at`

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, activity Activity) (Activity, error) {
	return insertActivity(ctx, r.db, activity)
}

func (r *RepositoryImpl) CreateMany(ctx context.Context, activities []Activity) ([]Activity, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	created := make([]Activity, 0, len(activities))
	for _, activity := range activities {
		stored, err := insertActivity(ctx, tx, activity)
		if err != nil {
			return nil, err
		}
		created = append(created, stored)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}
	return created, nil
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertActivity(ctx context.Context, db queryRower, activity Activity) (Activity, error) {
	activity.Id = uuid.NewString()
	query := `INSERT INTO activity (
					id,
					dimension,
					functional_component,
					process,
					name,
					description,
					planned_amount,
					resource_origin,
					expense_nature,
					internal_plan
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at, updated_at`

	err := db.QueryRow(ctx, query,
		activity.Id,
		activity.Dimension,
		activity.FunctionalComponent,
		activity.Process,
		activity.Name,
		activity.Description,
		activity.PlannedAmount,
		activity.ResourceOrigin,
		activity.ExpenseNature,
		activity.InternalPlan,
	).Scan(&activity.CreatedAt, &activity.UpdatedAt)
	if err != nil {
		err := fmt.Errorf("could not insert activity: %w", err)
		log.Error(err)
		return Activity{}, err
	}
	return activity, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activity ORDER BY seq`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query activities: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	activities := make([]Activity, 0)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return activities, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (Activity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Activity{}, ErrActivityNotFound
	}
	query := `SELECT ` + activityColumns + ` FROM activity WHERE id = $1`
	activity, err := scanActivity(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Activity{}, ErrActivityNotFound
		}
		err := fmt.Errorf("could not get activity %s: %w", id, err)
		log.Error(err)
		return Activity{}, err
	}
	return activity, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id string, patch Patch) (Activity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Activity{}, ErrActivityNotFound
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Dimension != nil {
		set("dimension", *patch.Dimension)
	}
	if patch.FunctionalComponent != nil {
		set("functional_component", *patch.FunctionalComponent)
	}
	if patch.Process != nil {
		set("process", *patch.Process)
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.PlannedAmount != nil {
		set("planned_amount", *patch.PlannedAmount)
	}
	if patch.ResourceOrigin != nil {
		set("resource_origin", *patch.ResourceOrigin)
	}
	if patch.ExpenseNature != nil {
		set("expense_nature", *patch.ExpenseNature)
	}
	if patch.InternalPlan != nil {
		set("internal_plan", *patch.InternalPlan)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE activity SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), activityColumns)
	activity, err := scanActivity(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Activity{}, ErrActivityNotFound
		}
		err := fmt.Errorf("could not update activity %s: %w", id, err)
		log.Error(err)
		return Activity{}, err
	}
	return activity, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	result, err := r.db.Exec(ctx, `DELETE FROM activity WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete activity %s: %w", id, err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func scanActivity(row pgx.Row) (Activity, error) {
	var activity Activity
	err := row.Scan(
		&activity.Id,
		&activity.Dimension,
		&activity.FunctionalComponent,
		&activity.Process,
		&activity.Name,
		&activity.Description,
		&activity.PlannedAmount,
		&activity.ResourceOrigin,
		&activity.ExpenseNature,
		&activity.InternalPlan,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	)
	return activity, err
}
