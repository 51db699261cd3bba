package api

import "github.com/gin-gonic/gin"

func userIDFromContext(c *gin.Context) (string, bool) {
	value, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	id, ok := value.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
