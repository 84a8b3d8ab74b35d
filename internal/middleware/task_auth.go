package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/edutask-api/internal/errors"
)

const contextKeyTaskID = "task_id"

// RequireTaskID parses the :id route parameter and stores it in the context
func RequireTaskID() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || taskID == 0 {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}

		c.Set(contextKeyTaskID, taskID)
		c.Next()
	}
}

// GetTaskID retrieves the task ID parsed by RequireTaskID
func GetTaskID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(contextKeyTaskID)
	if !exists {
		return 0, false
	}
	taskID, ok := value.(uint64)
	return taskID, ok
}
