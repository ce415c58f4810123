package routes

import (
	"net/http"
	"time"

	"afyaconnect_back_end_go/assistant"
	"afyaconnect_back_end_go/auth"
	"afyaconnect_back_end_go/logger"
	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Options struct {
	Services *services.ServiceManager
	Issuer   *auth.TokenIssuer
	Bot      *assistant.Bot
	Advisor  *assistant.Advisor
	Hub      *assistant.Hub
	// UploadDir is served under /uploads when set.
	UploadDir   string
	CORSOrigins []string
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(logger.Middleware(), gin.Recovery())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	if opts.UploadDir != "" {
		uploads := r.Group("/uploads", func(c *gin.Context) {
			c.Header("X-Content-Type-Options", "nosniff")
		})
		uploads.Static("/", opts.UploadDir)
	}

	api := r.Group("/api")
	SetupHospitalRoutes(api, opts.Services.Hospitals)
	SetupStatisticsRoutes(api, opts.Services.Statistics)
	SetupTestimonialRoutes(api, opts.Services.Testimonials, auth.Middleware(opts.Issuer))
	SetupInquiryRoutes(api, opts.Services.Inquiries)
	SetupAccountRoutes(api, opts.Services.Accounts)
	SetupChatRoutes(api, opts.Bot, opts.Hub, opts.Advisor)

	admin := api.Group("/admin", auth.Middleware(opts.Issuer), auth.RequireRole(models.RoleAdmin))
	SetupAdminRoutes(admin, opts.Services)

	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}

	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}
