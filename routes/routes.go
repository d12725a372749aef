package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alinbpe/motel-management-system/controllers"
	"github.com/alinbpe/motel-management-system/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	db *gorm.DB,
	authCtrl *controllers.AuthController,
	cabinCtrl *controllers.CabinController,
	cleaningCtrl *controllers.CleaningController,
	userCtrl *controllers.UserController,
	activityCtrl *controllers.ActivityController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/login", authCtrl.Login)

		authed := api.Group("")
		authed.Use(middleware.Auth(db))
		{
			authed.GET("/overview", cabinCtrl.GetOverview)

			cabins := authed.Group("/cabins")
			{
				cabins.GET("", cabinCtrl.GetCabins)
				cabins.GET("/:id", cabinCtrl.GetCabin)
				cabins.PATCH("/:id/status", cabinCtrl.ChangeStatus)
				cabins.POST("/:id/checkin", cabinCtrl.CheckIn)
				cabins.POST("/:id/issues", cabinCtrl.ReportIssue)
				cabins.POST("/:id/cleaning", cleaningCtrl.Submit)
			}

			authed.GET("/stays", cabinCtrl.GetStays)
			authed.GET("/issues", cabinCtrl.GetIssues)
			authed.PATCH("/issues/:id/resolve", cabinCtrl.ResolveIssue)

			cleaning := authed.Group("/cleaning")
			{
				// /items must come before /:id
				cleaning.GET("/items", cleaningCtrl.GetItems)
				cleaning.GET("/:id", cleaningCtrl.Get)
				cleaning.PATCH("/:id/approve", cleaningCtrl.Approve)
			}

			users := authed.Group("/users")
			{
				users.GET("", userCtrl.GetUsers)
				users.POST("", userCtrl.CreateUser)
				users.PUT("/:id", userCtrl.UpdateUser)
				users.DELETE("/:id", userCtrl.DeleteUser)
			}

			authed.GET("/logs", activityCtrl.GetLogs)
			authed.GET("/notifications", activityCtrl.GetNotifications)
			authed.PATCH("/notifications/:id/read", activityCtrl.MarkNotificationRead)
		}
	}

	return r
}
