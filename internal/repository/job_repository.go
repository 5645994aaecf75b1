package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/pkg/apperr"
)

type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id uint) (*model.Job, error)
	Delete(ctx context.Context, id uint) error
	Page(ctx context.Context, offset, limit int) ([]model.Job, error)

	ToggleBookmark(ctx context.Context, jobID, userID uint) (added bool, err error)
	// Apply fails with Conflict when the user already applied.
	Apply(ctx context.Context, app *model.JobApplication) error
	Applicants(ctx context.Context, jobID uint, offset, limit int) ([]model.JobApplication, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository { return &jobRepository{db: db} }

func (r *jobRepository) Create(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) GetByID(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).Preload("Poster").First(&job, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "job not found")
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&model.JobBookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&model.JobApplication{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Job{}, id).Error
	})
}

func (r *jobRepository) Page(ctx context.Context, offset, limit int) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Preload("Poster").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) ToggleBookmark(ctx context.Context, jobID, userID uint) (bool, error) {
	return toggleEdge(ctx, r.db,
		"job_id = ? AND user_id = ?", []any{jobID, userID},
		&model.JobBookmark{JobID: jobID, UserID: userID})
}

func (r *jobRepository) Apply(ctx context.Context, app *model.JobApplication) error {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(app)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.Conflict, "already applied to this job")
	}
	return nil
}

func (r *jobRepository) Applicants(ctx context.Context, jobID uint, offset, limit int) ([]model.JobApplication, error) {
	var apps []model.JobApplication
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&apps).Error
	return apps, err
}
