package service

import (
	"context"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/apperr"
)

type CreateJobInput struct {
	Title       string `json:"title" binding:"required,max=128"`
	Description string `json:"description" binding:"required,max=2048"`
	Location    string `json:"location" binding:"max=128"`
	Remote      bool   `json:"remote"`
}

type JobService interface {
	Create(ctx context.Context, posterID uint, in CreateJobInput) (*model.Job, error)
	Get(ctx context.Context, id uint) (*model.Job, error)
	Delete(ctx context.Context, actorID, id uint) error
	Page(ctx context.Context, page, limit int) ([]model.Job, error)

	ToggleBookmark(ctx context.Context, jobID, userID uint) (added bool, err error)
	Apply(ctx context.Context, jobID, userID uint, coverText string) error
	// Applicants is restricted to the job's poster.
	Applicants(ctx context.Context, actorID, jobID uint, page, limit int) ([]model.JobApplication, error)
}

type jobService struct {
	jobs repository.JobRepository
}

func NewJobService(jobs repository.JobRepository) JobService {
	return &jobService{jobs: jobs}
}

func (s *jobService) Create(ctx context.Context, posterID uint, in CreateJobInput) (*model.Job, error) {
	job := &model.Job{
		PosterID:    posterID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Remote:      in.Remote,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return s.jobs.GetByID(ctx, job.ID)
}

func (s *jobService) Get(ctx context.Context, id uint) (*model.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

func (s *jobService) Delete(ctx context.Context, actorID, id uint) error {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if job.PosterID != actorID {
		return apperr.New(apperr.Forbidden, "only the poster can delete a job")
	}
	return s.jobs.Delete(ctx, id)
}

func (s *jobService) Page(ctx context.Context, page, limit int) ([]model.Job, error) {
	page, limit = clampPage(page, limit)
	return s.jobs.Page(ctx, (page-1)*limit, limit)
}

func (s *jobService) ToggleBookmark(ctx context.Context, jobID, userID uint) (bool, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		return false, err
	}
	return s.jobs.ToggleBookmark(ctx, jobID, userID)
}

func (s *jobService) Apply(ctx context.Context, jobID, userID uint, coverText string) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.PosterID == userID {
		return apperr.New(apperr.Invalid, "cannot apply to your own job")
	}
	return s.jobs.Apply(ctx, &model.JobApplication{
		JobID:     jobID,
		UserID:    userID,
		CoverText: coverText,
	})
}

func (s *jobService) Applicants(ctx context.Context, actorID, jobID uint, page, limit int) ([]model.JobApplication, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.PosterID != actorID {
		return nil, apperr.New(apperr.Forbidden, "only the poster can list applicants")
	}
	page, limit = clampPage(page, limit)
	return s.jobs.Applicants(ctx, jobID, (page-1)*limit, limit)
}
