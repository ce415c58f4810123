package routes

import (
	"net/http"

	"afyaconnect_back_end_go/services"

	"github.com/gin-gonic/gin"
)

func SetupStatisticsRoutes(r gin.IRouter, svc *services.StatisticsService) {
	r.GET("/statistics", func(c *gin.Context) {
		stats, err := svc.Get(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	})
}
