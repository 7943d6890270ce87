package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
)

// StageRepository persists Stage rows.
type StageRepository struct {
	pool Pool
}

func NewStageRepository(pool Pool) StageRepository {
	return StageRepository{pool: pool}
}

func (r StageRepository) CreateMany(ctx context.Context, stages []domain.Stage) ([]domain.Stage, error) {
	out := make([]domain.Stage, 0, len(stages))
	for _, s := range stages {
		created, err := r.Create(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

func (r StageRepository) Create(ctx context.Context, s domain.Stage) (domain.Stage, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO stages (project_id, name, "order", status, payment_status, budget, start_date, end_date,
			responsible_user_id, responsible_contact, is_parallel, is_checkpoint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, project_id, name, "order", status, payment_status, budget, start_date, end_date,
			responsible_user_id, responsible_contact, is_parallel, is_checkpoint, last_activity_at, created_at, updated_at
	`, s.ProjectID, s.Name, s.Order, s.Status, s.PaymentStatus, s.Budget, s.StartDate, s.EndDate,
		s.ResponsibleUserID, s.ResponsibleContact, s.IsParallel, s.IsCheckpoint)
	return scanStage(row)
}

func (r StageRepository) Get(ctx context.Context, id uuid.UUID) (domain.Stage, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, project_id, name, "order", status, payment_status, budget, start_date, end_date,
			responsible_user_id, responsible_contact, is_parallel, is_checkpoint, last_activity_at, created_at, updated_at
		FROM stages WHERE id = $1
	`, id)
	s, err := scanStage(row)
	if err != nil {
		return domain.Stage{}, notFoundIf(err, "stage")
	}
	return s, nil
}

func (r StageRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Stage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, name, "order", status, payment_status, budget, start_date, end_date,
			responsible_user_id, responsible_contact, is_parallel, is_checkpoint, last_activity_at, created_at, updated_at
		FROM stages WHERE project_id = $1 ORDER BY "order"
	`, projectID)
	if err != nil {
		return nil, domain.Unexpected("repository: listing stages", err)
	}
	defer rows.Close()

	var out []domain.Stage
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, domain.Unexpected("repository: scanning stage", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStatus sets a stage's status and bumps last_activity_at, matching
// the "idle stage" scheduler job's dependence on recent activity rather
// than creation time.
func (r StageRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StageStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE stages SET status = $2, last_activity_at = now(), updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		return domain.Unexpected("repository: updating stage status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("stage not found")
	}
	return nil
}

func (r StageRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE stages SET payment_status = $2, last_activity_at = now(), updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		return domain.Unexpected("repository: updating payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("stage not found")
	}
	return nil
}

func (r StageRepository) Update(ctx context.Context, s domain.Stage) (domain.Stage, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE stages SET budget = $2, start_date = $3, end_date = $4, responsible_user_id = $5,
			responsible_contact = $6, last_activity_at = now(), updated_at = now()
		WHERE id = $1
		RETURNING id, project_id, name, "order", status, payment_status, budget, start_date, end_date,
			responsible_user_id, responsible_contact, is_parallel, is_checkpoint, last_activity_at, created_at, updated_at
	`, s.ID, s.Budget, s.StartDate, s.EndDate, s.ResponsibleUserID, s.ResponsibleContact)
	out, err := scanStage(row)
	if err != nil {
		return domain.Stage{}, notFoundIf(err, "stage")
	}
	return out, nil
}

func scanStage(row rowScanner) (domain.Stage, error) {
	var s domain.Stage
	err := row.Scan(
		&s.ID, &s.ProjectID, &s.Name, &s.Order, &s.Status, &s.PaymentStatus, &s.Budget,
		&s.StartDate, &s.EndDate, &s.ResponsibleUserID, &s.ResponsibleContact,
		&s.IsParallel, &s.IsCheckpoint, &s.LastActivityAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Stage{}, err
	}
	return s, nil
}

// SubStageRepository persists SubStage rows.
type SubStageRepository struct {
	pool Pool
}

func NewSubStageRepository(pool Pool) SubStageRepository {
	return SubStageRepository{pool: pool}
}

func (r SubStageRepository) CreateMany(ctx context.Context, subs []domain.SubStage) ([]domain.SubStage, error) {
	out := make([]domain.SubStage, 0, len(subs))
	for _, s := range subs {
		row := r.pool.QueryRow(ctx, `
			INSERT INTO sub_stages (stage_id, name, "order", status, start_date, end_date, responsible_user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, stage_id, name, "order", status, start_date, end_date, responsible_user_id, created_at, updated_at
		`, s.StageID, s.Name, s.Order, s.Status, s.StartDate, s.EndDate, s.ResponsibleUserID)
		created, err := scanSubStage(row)
		if err != nil {
			return nil, domain.Unexpected("repository: creating sub-stage", err)
		}
		out = append(out, created)
	}
	return out, nil
}

func (r SubStageRepository) ListByStage(ctx context.Context, stageID uuid.UUID) ([]domain.SubStage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, stage_id, name, "order", status, start_date, end_date, responsible_user_id, created_at, updated_at
		FROM sub_stages WHERE stage_id = $1 ORDER BY "order"
	`, stageID)
	if err != nil {
		return nil, domain.Unexpected("repository: listing sub-stages", err)
	}
	defer rows.Close()

	var out []domain.SubStage
	for rows.Next() {
		s, err := scanSubStage(rows)
		if err != nil {
			return nil, domain.Unexpected("repository: scanning sub-stage", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r SubStageRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StageStatus) error {
	// The parent stage's last_activity_at is bumped in the same statement, so
	// checklist progress counts as activity for the idle-stage job.
	tag, err := r.pool.Exec(ctx, `
		WITH updated AS (
			UPDATE sub_stages SET status = $2, updated_at = now() WHERE id = $1 RETURNING stage_id
		)
		UPDATE stages SET last_activity_at = now() WHERE id IN (SELECT stage_id FROM updated)
	`, id, status)
	if err != nil {
		return domain.Unexpected("repository: updating sub-stage status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("sub-stage not found")
	}
	return nil
}

func scanSubStage(row rowScanner) (domain.SubStage, error) {
	var s domain.SubStage
	err := row.Scan(&s.ID, &s.StageID, &s.Name, &s.Order, &s.Status, &s.StartDate, &s.EndDate, &s.ResponsibleUserID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.SubStage{}, err
	}
	return s, nil
}
