package handlers

import (
	"net/http"

	"mastera/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest dependency health snapshot. Before the
// first probe completes the endpoint reports ok.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.CheckedAt.IsZero() && (!status.Mongo || !status.Redis) {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
