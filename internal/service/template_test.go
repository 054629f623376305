package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/docutask/docutask/internal/domain/template"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/testutil"
	"github.com/docutask/docutask/internal/types"
)

type TemplateServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TemplateService
}

func TestTemplateService(t *testing.T) {
	suite.Run(t, new(TemplateServiceSuite))
}

func (s *TemplateServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTemplateService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		TemplateRepo: s.GetStores().TemplateRepo,
	})

	for _, t := range []*template.Template{
		{
			ID:         "tmpl_public",
			Name:       "Public Letter",
			PromptText: "p",
			Public:     true,
			BaseModel:  types.GetDefaultBaseModel("user_admin"),
		},
		{
			ID:         "tmpl_private",
			Name:       "Internal Review",
			PromptText: "p",
			BaseModel:  types.GetDefaultBaseModel("user_admin"),
		},
	} {
		s.NoError(s.GetStores().TemplateRepo.Create(s.GetContext(), t))
	}
}

func (s *TemplateServiceSuite) TestGetTemplate() {
	resp, err := s.service.GetTemplate(s.GetContext(), "tmpl_public")
	s.NoError(err)
	s.Equal("Public Letter", resp.Name)

	_, err = s.service.GetTemplate(s.GetContext(), "tmpl_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TemplateServiceSuite) TestListTemplatesPublicOnly() {
	resp, err := s.service.ListTemplates(s.GetContext(), &template.Filter{PublicOnly: true})
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal("tmpl_public", resp.Items[0].ID)
	s.Equal(1, resp.Pagination.Total)
}

func (s *TemplateServiceSuite) TestListTemplatesAll() {
	resp, err := s.service.ListTemplates(s.GetContext(), nil)
	s.NoError(err)
	s.Len(resp.Items, 2)
}
