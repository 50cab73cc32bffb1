package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioform/onboarding-backend/internal/features/domain"
	"github.com/studioform/onboarding-backend/internal/features/service"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
)

type memRepo map[string]domain.FeatureSelection

func (m memRepo) Get(_ context.Context, userID string) (*domain.FeatureSelection, error) {
	s, ok := m[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m memRepo) Upsert(_ context.Context, s domain.FeatureSelection) (*domain.FeatureSelection, error) {
	m[s.UserID] = s
	return &s, nil
}

func (m memRepo) Update(ctx context.Context, s domain.FeatureSelection) (*domain.FeatureSelection, error) {
	if _, err := m.Get(ctx, s.UserID); err != nil {
		return nil, err
	}
	return m.Upsert(ctx, s)
}

func router(repo memRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(service.NewFeatureService(repo), logger.NewNop()).Register(r.Group("/api/feature-selections"))
	return r
}

func call(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)
	return rr
}

func TestFeatureSelectionLifecycle(t *testing.T) {
	repo := memRepo{}
	r := router(repo)

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/feature-selections/u1", "").Code)
	assert.Equal(t, http.StatusNotFound,
		call(r, http.MethodPut, "/api/feature-selections/u1", `{"selectedFeatures":["blog"]}`).Code)

	rr := call(r, http.MethodPost, "/api/feature-selections",
		`{"userId":"u1","selectedFeatures":["blog","shop"],"priorities":{"shop":"high"}}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = call(r, http.MethodPut, "/api/feature-selections/u1",
		`{"selectedFeatures":["blog"],"priorities":{"blog":"low"},"notes":"later"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "later", repo["u1"].Notes)

	rr = call(r, http.MethodGet, "/api/feature-selections/u1", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"blog":"low"`)
}

func TestCreate_RejectsPriorityForUnselected(t *testing.T) {
	rr := call(router(memRepo{}), http.MethodPost, "/api/feature-selections",
		`{"userId":"u1","selectedFeatures":[],"priorities":{"shop":"high"}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body struct {
		OK     bool `json:"ok"`
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.OK)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "priorities.shop", body.Fields[0].Field)
	assert.Equal(t, "set for an unselected feature", body.Fields[0].Message)
}
