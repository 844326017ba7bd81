package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quizbank-backend/internal/model"
)

// AssignmentRepository handles the papers assigned to each account.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// ListByAccount returns an account's assignments, oldest first.
func (r *AssignmentRepository) ListByAccount(ctx context.Context, accountID string) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT paper_id, assigned_at, is_submitted, submitted_on, result_id, score
		 FROM assignments WHERE account_id = $1
		 ORDER BY assigned_at, paper_id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.PaperID, &a.AssignedAt, &a.IsSubmitted, &a.SubmittedOn, &a.ResultID, &a.Score); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// ExistingPaperIDs reports which of paperIDs are already assigned to the account.
func (r *AssignmentRepository) ExistingPaperIDs(ctx context.Context, accountID string, paperIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(paperIDs) == 0 {
		return existing, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT paper_id FROM assignments WHERE account_id = $1 AND paper_id = ANY($2)`, accountID, paperIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

// CreateBatch assigns all papers to the account in one transaction.
func (r *AssignmentRepository) CreateBatch(ctx context.Context, accountID string, paperIDs []string) error {
	if len(paperIDs) == 0 {
		return nil
	}

	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, pid := range paperIDs {
			batch.Queue(`INSERT INTO assignments (account_id, paper_id) VALUES ($1, $2)`, accountID, pid)
		}
		if err := execBatch(ctx, tx, batch); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}
