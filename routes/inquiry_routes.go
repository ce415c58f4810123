package routes

import (
	"net/http"

	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/services"

	"github.com/gin-gonic/gin"
)

func SetupInquiryRoutes(r gin.IRouter, svc *services.InquiryService) {
	r.POST("/inquiries", func(c *gin.Context) {
		CreateInquiry(c, svc)
	})
}

func CreateInquiry(c *gin.Context, svc *services.InquiryService) {
	var in models.InquiryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	if _, err := svc.Create(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
