package routes

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"afyaconnect_back_end_go/services"
	"afyaconnect_back_end_go/validators"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// respondError maps service errors onto status codes. Unknown errors are
// logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var fe validators.FieldErrors
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, gin.H{"error": fe.Error(), "fields": fe.Map()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// bindError reports a request body or query that could not be decoded.
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	log.WithError(err).Debug("could not bind request")
	badRequest(c, "invalid request body")
}

// paramID reads a positive integer path parameter.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// formFile returns the first uploaded file for field, or nil.
func formFile(c *gin.Context, field string) *multipart.FileHeader {
	form := c.Request.MultipartForm
	if form == nil {
		return nil
	}
	if files := form.File[field]; len(files) > 0 {
		return files[0]
	}
	return nil
}
