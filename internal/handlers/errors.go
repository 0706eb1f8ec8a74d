package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/vinayvardhann/careflow-scheduler/internal/middleware"
	"github.com/vinayvardhann/careflow-scheduler/internal/service"
	"github.com/vinayvardhann/careflow-scheduler/internal/utils"
)

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, err error) {
	var (
		conflict *service.ConflictError
		notFound *service.NotFoundError
		invalid  *service.ValidationError
	)
	switch {
	case errors.As(err, &conflict):
		if conflict.ConflictWith != nil {
			utils.Conflict(c, conflict.Error(), conflict.ConflictWith)
		} else {
			utils.Conflict(c, conflict.Error(), nil)
		}
	case errors.As(err, &notFound):
		utils.NotFound(c, notFound.Error())
	case errors.As(err, &invalid):
		utils.BadRequest(c, invalid.Error())
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.InternalServerError(c, err.Error())
	}
}

func callerFrom(c *gin.Context) service.Caller {
	id, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	return service.Caller{ID: id, Role: role}
}
