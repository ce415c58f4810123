package routes

import (
	"net/http"
	"strconv"

	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/services"
	"afyaconnect_back_end_go/validators"

	"github.com/gin-gonic/gin"
)

func SetupHospitalRoutes(r gin.IRouter, svc *services.HospitalService) {
	r.GET("/hospitals", func(c *gin.Context) {
		ListHospitals(c, svc)
	})

	r.GET("/hospitals/search", func(c *gin.Context) {
		SearchHospitals(c, svc)
	})

	r.GET("/hospitals/:id", func(c *gin.Context) {
		GetHospitalByID(c, svc)
	})

	r.POST("/hospitals/:id/ratings", func(c *gin.Context) {
		RateHospital(c, svc)
	})

	r.GET("/search/hospitals", func(c *gin.Context) {
		FilterHospitals(c, svc)
	})
}

func ListHospitals(c *gin.Context, svc *services.HospitalService) {
	hospitals, err := svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hospitals)
}

func SearchHospitals(c *gin.Context, svc *services.HospitalService) {
	hospitals, err := svc.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hospitals)
}

func GetHospitalByID(c *gin.Context, svc *services.HospitalService) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	hospital, err := svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hospital)
}

func FilterHospitals(c *gin.Context, svc *services.HospitalService) {
	var filter models.HospitalFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, filterQueryErrors(c, err))
		return
	}

	hospitals, err := svc.Filter(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hospitals)
}

func RateHospital(c *gin.Context, svc *services.HospitalService) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := svc.SubmitRating(c.Request.Context(), id, req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// filterQueryErrors names the numeric query values that did not parse.
func filterQueryErrors(c *gin.Context, err error) error {
	var fe validators.FieldErrors
	for _, field := range []string{"minPrice", "maxPrice"} {
		if v := c.Query(field); v != "" {
			if _, err := strconv.Atoi(v); err != nil {
				fe = append(fe, validators.FieldError{Field: field, Message: "must be a whole number"})
			}
		}
	}
	if v := c.Query("minRating"); v != "" {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			fe = append(fe, validators.FieldError{Field: "minRating", Message: "must be a number"})
		}
	}
	if len(fe) == 0 {
		return validators.Invalid("query", err.Error())
	}
	return fe
}
