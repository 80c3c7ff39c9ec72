package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

// writeServiceError maps a service error to the envelope, logging only the
// Internal kind; everything else already carries a caller-safe message.
func writeServiceError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	if logger != nil && response.StatusOf(err) == http.StatusInternalServerError {
		logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(op)
	}
	response.WriteError(c, err)
}

// userJSON is the public projection: the password hash never leaves the
// service layer.
func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}
}

func taskJSON(t *entity.Task) gin.H {
	return gin.H{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"status":      t.Status,
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
	}
}
