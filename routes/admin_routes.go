package routes

import (
	"net/http"

	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/services"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes expects r to already require an admin token.
func SetupAdminRoutes(r gin.IRouter, sm *services.ServiceManager) {
	r.GET("/testimonials", func(c *gin.Context) {
		testimonials, err := sm.Testimonials.ListByStatus(c.Request.Context(), models.TestimonialStatus(c.Query("status")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, testimonials)
	})

	r.PATCH("/testimonials/:id", func(c *gin.Context) {
		ReviewTestimonial(c, sm.Testimonials)
	})

	r.GET("/inquiries", func(c *gin.Context) {
		inquiries, err := sm.Inquiries.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, inquiries)
	})

	r.POST("/hospitals", func(c *gin.Context) {
		CreateHospital(c, sm.Hospitals)
	})
}

func ReviewTestimonial(c *gin.Context, svc *services.TestimonialService) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	testimonial, err := svc.Review(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, testimonial)
}

func CreateHospital(c *gin.Context, svc *services.HospitalService) {
	var in models.NewHospital
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	hospital, err := svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hospital)
}
