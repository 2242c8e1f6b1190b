package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "toolrent/pkg/errors"
	"toolrent/pkg/logger"
	"toolrent/pkg/middleware"
	"toolrent/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockToolService struct {
	created   *model.Tool
	createErr error
	tool      *model.Tool
	updated   *model.ToolUpdate
	deleted   string
	search    [2]string
}

func (m *mockToolService) Create(_ context.Context, tool *model.Tool) error {
	m.created = tool
	if m.createErr != nil {
		return m.createErr
	}
	tool.ID = "65f0000000000000000000aa"
	return nil
}

func (m *mockToolService) GetByID(context.Context, string) (*model.Tool, error) {
	if m.tool == nil {
		return nil, apperrors.NotFoundWithID("Tool", "x")
	}
	return m.tool, nil
}

func (m *mockToolService) GetAll(context.Context, int, int64) ([]*model.Tool, int64, error) {
	return []*model.Tool{{ID: "a"}}, 1, nil
}

func (m *mockToolService) Search(_ context.Context, city, category string, _ int, _ int64) ([]*model.Tool, int64, error) {
	m.search = [2]string{city, category}
	return []*model.Tool{}, 0, nil
}

func (m *mockToolService) Update(_ context.Context, _ string, updates *model.ToolUpdate) error {
	m.updated = updates
	return nil
}

func (m *mockToolService) Delete(_ context.Context, id string) error {
	m.deleted = id
	return nil
}

func newRouter(svc *mockToolService) *httprouter.Router {
	router := httprouter.New()
	NewToolHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const toolBody = `{"owner_id":"owner-1","name":"Drill","category":"power_tools","city":"haifa","daily_rate":1000,"currency":"ILS","owner_phone":"+972501234567"}`

func TestCreate(t *testing.T) {
	svc := &mockToolService{}
	rec := serve(newRouter(svc), httptest.NewRequest(http.MethodPost, "/api/v1/tools", strings.NewReader(toolBody)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Data model.Tool `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "65f0000000000000000000aa", body.Data.ID)
	assert.Equal(t, int64(1000), body.Data.DailyRate)
}

func TestCreate_ValidationError(t *testing.T) {
	svc := &mockToolService{createErr: apperrors.Validation("bad", nil)}
	rec := serve(newRouter(svc), httptest.NewRequest(http.MethodPost, "/api/v1/tools", strings.NewReader(toolBody)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreate_AuthenticatedOwner(t *testing.T) {
	svc := &mockToolService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools", strings.NewReader(toolBody))
	req = req.WithContext(middleware.WithSubject(req.Context(), "owner-2"))

	rec := serve(newRouter(svc), req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, svc.created)
}

func TestUpdate(t *testing.T) {
	svc := &mockToolService{}
	rec := serve(newRouter(svc), httptest.NewRequest(http.MethodPatch, "/api/v1/tools/id/65f0000000000000000000aa", strings.NewReader(`{"daily_rate":1500}`)))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, svc.updated)
	require.NotNil(t, svc.updated.DailyRate)
	assert.Equal(t, int64(1500), *svc.updated.DailyRate)
}

func TestDelete_RequiresOwnership(t *testing.T) {
	svc := &mockToolService{tool: &model.Tool{OwnerID: "owner-1"}}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tools/id/65f0000000000000000000aa", nil)
	req = req.WithContext(middleware.WithSubject(req.Context(), "owner-2"))
	assert.Equal(t, http.StatusForbidden, serve(newRouter(svc), req).Code)
	assert.Empty(t, svc.deleted)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/tools/id/65f0000000000000000000aa", nil)
	req = req.WithContext(middleware.WithSubject(req.Context(), "owner-1"))
	assert.Equal(t, http.StatusNoContent, serve(newRouter(svc), req).Code)
	assert.Equal(t, "65f0000000000000000000aa", svc.deleted)
}

func TestSearch(t *testing.T) {
	svc := &mockToolService{}
	rec := serve(newRouter(svc), httptest.NewRequest(http.MethodGet, "/api/v1/tools/search?city=haifa&category=garden", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]string{"haifa", "garden"}, svc.search)
}

func TestGetByID_NotFound(t *testing.T) {
	rec := serve(newRouter(&mockToolService{}), httptest.NewRequest(http.MethodGet, "/api/v1/tools/id/65f0000000000000000000aa", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
