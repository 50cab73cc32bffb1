// Package respond writes the JSON error envelope shared by every handler.
package respond

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/studioform/onboarding-backend/internal/projects/domain"
)

// Error writes {"ok": false, "error": msg}.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

// BindError reports a request body that failed gin binding. Validator
// failures become field errors.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]domain.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, domain.FieldError{
				Field:   jsonPath(fe.Namespace()),
				Message: describe(fe),
			})
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body", "fields": fields})
		return
	}
	Error(c, http.StatusBadRequest, "invalid body")
}

// Validation writes a domain validation error as a 400. It reports false when
// err is not a validation error.
func Validation(c *gin.Context, err error) bool {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "validation failed", "fields": verr.Fields})
	return true
}

// jsonPath drops the root struct name and lower-cases the first letter of
// every segment: "submitReq.Business.Name" becomes "business.name".
func jsonPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must have at least " + fe.Param() + " items"
	case "max":
		return "must have at most " + fe.Param() + " items"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
