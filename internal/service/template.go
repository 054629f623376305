package service

import (
	"context"

	"github.com/docutask/docutask/internal/api/dto"
	"github.com/docutask/docutask/internal/domain/template"
	"github.com/docutask/docutask/internal/types"
)

// TemplateService exposes read access to the template catalog. Authoring
// flows live elsewhere; the execution path treats templates as immutable.
type TemplateService interface {
	GetTemplate(ctx context.Context, id string) (*dto.TemplateResponse, error)
	ListTemplates(ctx context.Context, filter *template.Filter) (*dto.ListTemplatesResponse, error)
}

type templateService struct {
	ServiceParams
}

func NewTemplateService(params ServiceParams) TemplateService {
	return &templateService{ServiceParams: params}
}

func (s *templateService) GetTemplate(ctx context.Context, id string) (*dto.TemplateResponse, error) {
	t, err := s.TemplateRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewTemplateResponse(t), nil
}

func (s *templateService) ListTemplates(ctx context.Context, filter *template.Filter) (*dto.ListTemplatesResponse, error) {
	if filter == nil {
		filter = &template.Filter{QueryFilter: types.NewDefaultQueryFilter()}
	}

	templates, err := s.TemplateRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.TemplateRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TemplateResponse, len(templates))
	for i, t := range templates {
		items[i] = dto.NewTemplateResponse(t)
	}
	return &dto.ListTemplatesResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.QueryFilter),
	}, nil
}
