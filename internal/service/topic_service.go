package service

import (
	"context"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/projection"
	"github.com/theline-social/theline/internal/repository"
)

type TopicInput struct {
	NameAr        string `json:"nameAr" binding:"required,max=64"`
	NameEn        string `json:"nameEn" binding:"required,max=64"`
	DescriptionAr string `json:"descriptionAr" binding:"max=512"`
	DescriptionEn string `json:"descriptionEn" binding:"max=512"`
}

type TopicService interface {
	Create(ctx context.Context, in TopicInput) (*model.Topic, error)
	Update(ctx context.Context, id uint, in TopicInput) (*model.Topic, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, lang string) ([]projection.TopicDTO, error)
}

type topicService struct {
	topics repository.TopicRepository
}

func NewTopicService(topics repository.TopicRepository) TopicService {
	return &topicService{topics: topics}
}

func (s *topicService) Create(ctx context.Context, in TopicInput) (*model.Topic, error) {
	t := &model.Topic{
		NameAr:        in.NameAr,
		NameEn:        in.NameEn,
		DescriptionAr: in.DescriptionAr,
		DescriptionEn: in.DescriptionEn,
	}
	if err := s.topics.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *topicService) Update(ctx context.Context, id uint, in TopicInput) (*model.Topic, error) {
	t, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.NameAr = in.NameAr
	t.NameEn = in.NameEn
	t.DescriptionAr = in.DescriptionAr
	t.DescriptionEn = in.DescriptionEn
	if err := s.topics.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *topicService) Delete(ctx context.Context, id uint) error {
	if _, err := s.topics.GetByID(ctx, id); err != nil {
		return err
	}
	return s.topics.Delete(ctx, id)
}

func (s *topicService) List(ctx context.Context, lang string) ([]projection.TopicDTO, error) {
	lang = projection.NormalizeLang(lang)
	topics, err := s.topics.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]projection.TopicDTO, 0, len(topics))
	for _, t := range topics {
		out = append(out, projection.TopicDTO{
			ID:          t.ID,
			Name:        t.Name(lang),
			Description: t.Description(lang),
		})
	}
	return out, nil
}
