package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	toolserrors "toolrent/internal/tools/errors"
	"toolrent/internal/tools/validator"
	"toolrent/pkg/config"
	apperrors "toolrent/pkg/errors"
	"toolrent/pkg/logger"
	"toolrent/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockToolRepository struct {
	tools      map[string]*model.Tool
	updated    *model.Tool
	searchArgs [2]string
	countErr   error
}

func newMockToolRepository() *mockToolRepository {
	return &mockToolRepository{tools: map[string]*model.Tool{}}
}

func (m *mockToolRepository) Create(_ context.Context, tool *model.Tool) error {
	tool.ID = fmt.Sprintf("65f0000000000000000000%02d", len(m.tools)+1)
	m.tools[tool.ID] = tool
	return nil
}

func (m *mockToolRepository) FindByID(_ context.Context, id string) (*model.Tool, error) {
	if len(id) != 24 {
		return nil, toolserrors.ErrInvalidID
	}
	tool, ok := m.tools[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", toolserrors.ErrNotFound, id)
	}
	copied := *tool
	return &copied, nil
}

func (m *mockToolRepository) FindAll(context.Context, int, int64) ([]*model.Tool, error) {
	out := make([]*model.Tool, 0, len(m.tools))
	for _, t := range m.tools {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockToolRepository) Count(context.Context) (int64, error) {
	return int64(len(m.tools)), m.countErr
}

func (m *mockToolRepository) Update(_ context.Context, id string, tool *model.Tool) error {
	if _, ok := m.tools[id]; !ok {
		return toolserrors.ErrNotFound
	}
	m.updated = tool
	m.tools[id] = tool
	return nil
}

func (m *mockToolRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.tools[id]; !ok {
		return toolserrors.ErrNotFound
	}
	delete(m.tools, id)
	return nil
}

func (m *mockToolRepository) Search(_ context.Context, city, category string, _ int, _ int64) ([]*model.Tool, error) {
	m.searchArgs = [2]string{city, category}
	return []*model.Tool{}, nil
}

func (m *mockToolRepository) CountSearch(context.Context, string, string) (int64, error) {
	return 0, nil
}

func (m *mockToolRepository) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.tools[id]
	return ok, nil
}

func newService(repo *mockToolRepository) ToolService {
	log := logger.Discard()
	return NewToolService(repo, validator.NewToolValidator(log), &config.Config{Log: log, ReadTimeout: time.Second})
}

func validTool() *model.Tool {
	return &model.Tool{
		OwnerID:    "owner-1",
		Name:       "  Cordless   Drill ",
		Category:   "Power Tools",
		City:       "Tel-Aviv ",
		DailyRate:  2500,
		Currency:   "ils",
		OwnerPhone: "+1 (650) 253-0000",
	}
}

func TestCreate_SanitizesAndStores(t *testing.T) {
	repo := newMockToolRepository()
	svc := newService(repo)

	tool := validTool()
	require.NoError(t, svc.Create(context.Background(), tool))

	assert.NotEmpty(t, tool.ID)
	assert.Equal(t, "Cordless Drill", tool.Name)
	assert.Equal(t, "power_tools", tool.Category)
	assert.Equal(t, "tel_aviv", tool.City)
	assert.Equal(t, "ILS", tool.Currency)
	assert.Equal(t, "+16502530000", tool.OwnerPhone)
}

func TestCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Tool)
	}{
		{"unknown category", func(t *model.Tool) { t.Category = "spaceships" }},
		{"zero rate", func(t *model.Tool) { t.DailyRate = 0 }},
		{"bad currency", func(t *model.Tool) { t.Currency = "XYZW" }},
		{"bad phone", func(t *model.Tool) { t.OwnerPhone = "12" }},
		{"missing owner", func(t *model.Tool) { t.OwnerID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockToolRepository()
			tool := validTool()
			tt.mutate(tool)

			err := newService(repo).Create(context.Background(), tool)
			require.Error(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, apperrors.AsAppError(err).HTTPStatus)
			assert.Empty(t, repo.tools)
		})
	}
}

func TestUpdate_MergesFields(t *testing.T) {
	repo := newMockToolRepository()
	svc := newService(repo)
	tool := validTool()
	require.NoError(t, svc.Create(context.Background(), tool))

	rate := int64(4000)
	desc := "with two batteries"
	require.NoError(t, svc.Update(context.Background(), tool.ID, &model.ToolUpdate{DailyRate: &rate, Description: &desc}))

	require.NotNil(t, repo.updated)
	assert.Equal(t, int64(4000), repo.updated.DailyRate)
	assert.Equal(t, "with two batteries", repo.updated.Description)
	assert.Equal(t, "Cordless Drill", repo.updated.Name)
}

func TestUpdate_Errors(t *testing.T) {
	repo := newMockToolRepository()
	svc := newService(repo)

	err := svc.Update(context.Background(), "65f0000000000000000000ff", &model.ToolUpdate{})
	assert.Equal(t, http.StatusNotFound, apperrors.AsAppError(err).HTTPStatus)

	err = svc.Update(context.Background(), "short", &model.ToolUpdate{})
	assert.Equal(t, http.StatusBadRequest, apperrors.AsAppError(err).HTTPStatus)
}

func TestDelete(t *testing.T) {
	repo := newMockToolRepository()
	svc := newService(repo)
	tool := validTool()
	require.NoError(t, svc.Create(context.Background(), tool))

	require.NoError(t, svc.Delete(context.Background(), tool.ID))
	err := svc.Delete(context.Background(), tool.ID)
	assert.Equal(t, http.StatusNotFound, apperrors.AsAppError(err).HTTPStatus)
}

func TestSearch_SanitizesFilters(t *testing.T) {
	repo := newMockToolRepository()
	svc := newService(repo)

	_, _, err := svc.Search(context.Background(), "", "", 10, 0)
	assert.Equal(t, http.StatusBadRequest, apperrors.AsAppError(err).HTTPStatus)

	_, _, err = svc.Search(context.Background(), "Tel Aviv", "Hand Tools", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, [2]string{"tel_aviv", "hand_tools"}, repo.searchArgs)
}

func TestGetAll_CountFailure(t *testing.T) {
	repo := newMockToolRepository()
	repo.countErr = errors.New("boom")

	_, _, err := newService(repo).GetAll(context.Background(), 10, 0)
	assert.Equal(t, http.StatusInternalServerError, apperrors.AsAppError(err).HTTPStatus)
}
