package routes

import (
	"net/http"
	"strconv"

	"afyaconnect_back_end_go/auth"
	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/services"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps a whole testimonial submission including images.
const maxUploadBytes = 10 << 20

func SetupTestimonialRoutes(r gin.IRouter, svc *services.TestimonialService, requireAuth gin.HandlerFunc) {
	r.GET("/testimonials", func(c *gin.Context) {
		ListTestimonials(c, svc)
	})

	r.POST("/testimonials", requireAuth, func(c *gin.Context) {
		SubmitTestimonial(c, svc)
	})
}

func ListTestimonials(c *gin.Context, svc *services.TestimonialService) {
	// a missing or malformed limit means no cap
	limit, _ := strconv.Atoi(c.Query("limit"))

	testimonials, err := svc.ListApproved(c.Request.Context(), c.Query("treatmentType"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, testimonials)
}

func SubmitTestimonial(c *gin.Context, svc *services.TestimonialService) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user claims"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	var in models.TestimonialInput
	if err := c.ShouldBind(&in); err != nil {
		bindError(c, err)
		return
	}

	created, err := svc.Submit(c.Request.Context(), claims.AccountID, in,
		formFile(c, "beforeImage"), formFile(c, "afterImage"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"testimonialId": created.ID,
		"status":        created.Status,
	})
}
