package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/taskflow-dev/taskflow/internal/handlers"
	"github.com/taskflow-dev/taskflow/internal/middleware"
	"github.com/taskflow-dev/taskflow/internal/types"
)

type Deps struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Projects *handlers.ProjectHandler
	Tasks    *handlers.TaskHandler

	// AuthMiddleware guards everything below /api except register/login.
	AuthMiddleware gin.HandlerFunc
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Ten credential attempts per minute per IP.
	loginLimiter := middleware.LoginRateLimiter(rate.Every(6*time.Second), 10)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", loginLimiter, deps.Auth.Register)
			auth.POST("/login", loginLimiter, deps.Auth.Login)
			auth.POST("/logout", deps.Auth.Logout)
			auth.GET("/me", deps.AuthMiddleware, deps.Auth.Me)
		}

		users := api.Group("/users", deps.AuthMiddleware)
		{
			users.GET("", deps.Users.List)
			users.GET("/:id", deps.Users.Get)
		}

		projects := api.Group("/projects", deps.AuthMiddleware)
		{
			projects.POST("", deps.Projects.Create)
			projects.GET("", deps.Projects.List)
			projects.GET("/:id", deps.Projects.Get)
			projects.PUT("/:id", deps.Projects.Update)
			projects.DELETE("/:id", deps.Projects.Delete)

			projects.POST("/:id/members", deps.Projects.AddMembers)
			projects.DELETE("/:id/members", deps.Projects.RemoveMembers)
		}

		tasks := api.Group("/tasks", deps.AuthMiddleware)
		{
			tasks.POST("", deps.Tasks.Create)
			tasks.GET("", deps.Tasks.List)
			tasks.GET("/:id", deps.Tasks.Get)
			tasks.PUT("/:id", deps.Tasks.Update)
			tasks.DELETE("/:id", deps.Tasks.Delete)

			tasks.GET("/project/:project_id", deps.Tasks.ForProject)
			tasks.GET("/user/:user_id", deps.Tasks.ForUser)
		}
	}

	return r
}
