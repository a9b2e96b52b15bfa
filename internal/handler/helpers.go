package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
