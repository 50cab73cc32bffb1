package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studioform/onboarding-backend/internal/api/http/respond"
	"github.com/studioform/onboarding-backend/internal/users"
)

const (
	CtxExternalID = "external_user_id"
	CtxUserDBID   = "user_db_id"
)

// UserStore is the part of users.Repo the middleware needs.
type UserStore interface {
	EnsureUser(ctx context.Context, u users.UpsertUser) (string, error)
}

// WithUser identifies the caller from X-User-Id and ensures a user record.
// Anonymous requests pass through untouched. This is identification only.
func WithUser(store UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		extID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if extID == "" {
			c.Next()
			return
		}

		uid, err := store.EnsureUser(c.Request.Context(), users.UpsertUser{
			ExternalID:  extID,
			Email:       c.GetHeader("X-User-Email"),
			DisplayName: c.GetHeader("X-User-Name"),
		})
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "ensure user: "+err.Error())
			c.Abort()
			return
		}

		c.Set(CtxExternalID, extID)
		c.Set(CtxUserDBID, uid)
		c.Next()
	}
}

// UserDBID returns the internal id of the identified caller, or "".
func UserDBID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserDBID))
}
