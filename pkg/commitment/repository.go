package commitment

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

var ErrCommitmentNotFound = errors.New("commitment not found")

type Repository interface {
	Create(ctx context.Context, commitment Commitment) (Commitment, error)
	// CreateMany stores all commitments or none of them.
	CreateMany(ctx context.Context, commitments []Commitment) ([]Commitment, error)
	GetAll(ctx context.Context) ([]Commitment, error)
	Get(ctx context.Context, id string) (Commitment, error)
	Update(ctx context.Context, id string, patch Patch) (Commitment, error)
	UpdateLiquidation(ctx context.Context, id string, liquidatedAmount float64, status Status) error
	Delete(ctx context.Context, id string) (bool, error)
}

const commitmentColumns = `id, number, description, amount, dimension, functional_component, resource_origin,
	expense_nature, internal_plan, beneficiary_name, beneficiary_document, liquidated_amount, commitment_date,
	status, COALESCE(activity_id, ''), created_at, updated_at`

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, commitment Commitment) (Commitment, error) {
	return insertCommitment(ctx, r.db, commitment)
}

func (r *RepositoryImpl) CreateMany(ctx context.Context, commitments []Commitment) ([]Commitment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	created := make([]Commitment, 0, len(commitments))
	for _, commitment := range commitments {
		stored, err := insertCommitment(ctx, tx, commitment)
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

func insertCommitment(ctx context.Context, db queryRower, commitment Commitment) (Commitment, error) {
	commitment.Id = uuid.NewString()
	query := `INSERT INTO commitment (
					id,
					number,
					description,
					amount,
					dimension,
					functional_component,
					resource_origin,
					expense_nature,
					internal_plan,
					beneficiary_name,
					beneficiary_document,
					liquidated_amount,
					commitment_date,
					status,
					activity_id
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NULLIF($15, ''))
				RETURNING created_at, updated_at`

	err := db.QueryRow(ctx, query,
		commitment.Id,
		commitment.Number,
		commitment.Description,
		commitment.Amount,
		commitment.Dimension,
		commitment.FunctionalComponent,
		commitment.ResourceOrigin,
		commitment.ExpenseNature,
		commitment.InternalPlan,
		commitment.BeneficiaryName,
		commitment.BeneficiaryDocument,
		commitment.LiquidatedAmount,
		commitment.Date,
		string(commitment.Status),
		commitment.ActivityId,
	).Scan(&commitment.CreatedAt, &commitment.UpdatedAt)
	if err != nil {
		err := fmt.Errorf("could not insert commitment: %w", err)
		log.Error(err)
		return Commitment{}, err
	}
	return commitment, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]Commitment, error) {
	query := `SELECT ` + commitmentColumns + ` FROM commitment ORDER BY seq`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query commitments: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	commitments := make([]Commitment, 0)
	for rows.Next() {
		commitment, err := scanCommitment(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		commitments = append(commitments, commitment)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return commitments, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (Commitment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Commitment{}, ErrCommitmentNotFound
	}
	query := `SELECT ` + commitmentColumns + ` FROM commitment WHERE id = $1`
	commitment, err := scanCommitment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Commitment{}, ErrCommitmentNotFound
		}
		err := fmt.Errorf("could not get commitment %s: %w", id, err)
		log.Error(err)
		return Commitment{}, err
	}
	return commitment, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id string, patch Patch) (Commitment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Commitment{}, ErrCommitmentNotFound
	}

	var sets []string
	var args []any
	set := func(column string, placeholder string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = "+placeholder, column, len(args)))
	}
	setText := func(column string, value *string) {
		if value != nil {
			set(column, "$%d", *value)
		}
	}
	setText("number", patch.Number)
	setText("description", patch.Description)
	if patch.Amount != nil {
		set("amount", "$%d", *patch.Amount)
	}
	setText("dimension", patch.Dimension)
	setText("functional_component", patch.FunctionalComponent)
	setText("resource_origin", patch.ResourceOrigin)
	setText("expense_nature", patch.ExpenseNature)
	setText("internal_plan", patch.InternalPlan)
	setText("beneficiary_name", patch.BeneficiaryName)
	setText("beneficiary_document", patch.BeneficiaryDocument)
	if patch.Date != nil {
		set("commitment_date", "$%d", *patch.Date)
	}
	if patch.Status != nil {
		set("status", "$%d", string(*patch.Status))
	}
	if patch.ActivityId != nil {
		set("activity_id", "NULLIF($%d, '')", *patch.ActivityId)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE commitment SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), commitmentColumns)
	commitment, err := scanCommitment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Commitment{}, ErrCommitmentNotFound
		}
		err := fmt.Errorf("could not update commitment %s: %w", id, err)
		log.Error(err)
		return Commitment{}, err
	}
	return commitment, nil
}

func (r *RepositoryImpl) UpdateLiquidation(ctx context.Context, id string, liquidatedAmount float64, status Status) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrCommitmentNotFound
	}
	query := `UPDATE commitment SET liquidated_amount = $1, status = $2, updated_at = now() WHERE id = $3`
	result, err := r.db.Exec(ctx, query, liquidatedAmount, string(status), id)
	if err != nil {
		err := fmt.Errorf("could not update liquidation of commitment %s: %w", id, err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCommitmentNotFound
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	result, err := r.db.Exec(ctx, `DELETE FROM commitment WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete commitment %s: %w", id, err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func scanCommitment(row pgx.Row) (Commitment, error) {
	var commitment Commitment
	var status string
	err := row.Scan(
		&commitment.Id,
		&commitment.Number,
		&commitment.Description,
		&commitment.Amount,
		&commitment.Dimension,
		&commitment.FunctionalComponent,
		&commitment.ResourceOrigin,
		&commitment.ExpenseNature,
		&commitment.InternalPlan,
		&commitment.BeneficiaryName,
		&commitment.BeneficiaryDocument,
		&commitment.LiquidatedAmount,
		&commitment.Date,
		&status,
		&commitment.ActivityId,
		&commitment.CreatedAt,
		&commitment.UpdatedAt,
	)
	commitment.Status = Status(status)
	return commitment, err
}
