package routes

import (
	"net/http"

	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/services"

	"github.com/gin-gonic/gin"
)

func SetupAccountRoutes(r gin.IRouter, svc *services.AccountService) {
	r.POST("/auth/register", func(c *gin.Context) {
		Register(c, svc)
	})

	r.POST("/auth/login", func(c *gin.Context) {
		Login(c, svc)
	})
}

func Register(c *gin.Context, svc *services.AccountService) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, err := svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func Login(c *gin.Context, svc *services.AccountService) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, err := svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
