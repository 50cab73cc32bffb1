package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/studioform/onboarding-backend/internal/users"
)

type stubStore struct {
	calls []users.UpsertUser
	err   error
}

func (s *stubStore) EnsureUser(_ context.Context, u users.UpsertUser) (string, error) {
	s.calls = append(s.calls, u)
	return "db-" + u.ExternalID, s.err
}

func serve(store UserStore, header string) (*httptest.ResponseRecorder, string) {
	gin.SetMode(gin.TestMode)
	var got string
	r := gin.New()
	r.Use(WithUser(store))
	r.GET("/", func(c *gin.Context) {
		got = UserDBID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("X-User-Id", header)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr, got
}

func TestWithUser_Anonymous(t *testing.T) {
	store := &stubStore{}
	rr, uid := serve(store, "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, uid)
	assert.Empty(t, store.calls)
}

func TestWithUser_Identified(t *testing.T) {
	store := &stubStore{}
	rr, uid := serve(store, "ext-9")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "db-ext-9", uid)
	assert.Len(t, store.calls, 1)
}

func TestWithUser_StoreFailure(t *testing.T) {
	rr, _ := serve(&stubStore{err: errors.New("db down")}, "ext-9")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
